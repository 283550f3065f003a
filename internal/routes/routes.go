package routes

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/welcomenesthr/welcomenest-golang/internal/handlers"
	"github.com/welcomenesthr/welcomenest-golang/internal/middleware"
)

// CORSMiddleware tells the browser the dashboard origin may call us.
func CORSMiddleware() gin.HandlerFunc {
	allowedOrigin := os.Getenv("CORS_ALLOWED_ORIGIN")
	if allowedOrigin == "" {
		allowedOrigin = "http://localhost:3000"
	}

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// Preflight requests get an empty 204.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(CORSMiddleware())

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		v1.POST("/signup", h.Signup)
		v1.POST("/login", h.Login)

		// --- Stripe Webhook (Public, signature-verified) ---
		// Raw body route: no auth middleware, no body parsing ahead of
		// the signature check.
		v1.POST("/billing/webhook", h.HandleStripeWebhook)

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware(h.DB))
		{
			auth.GET("/me", h.GetMe)
			auth.GET("/me/access", h.GetMyAccess)

			// --- Billing ---
			auth.POST("/billing/checkout-session", h.CreateCheckoutSession)
			auth.POST("/billing/portal-link", h.CreatePortalLink)

			// --- AI Chat ---
			auth.POST("/ai/chat", h.ChatAI)

			// --- Premium Routes (Plan Gate) ---
			premium := auth.Group("/")
			premium.Use(middleware.PlanGateMiddleware(h.DB))
			{
				// Onboarding checklist & journey
				premium.GET("/onboarding/tasks", h.GetMyOnboardingTasks)
				premium.PATCH("/onboarding/tasks/:id", h.ToggleOnboardingTask)
				premium.GET("/onboarding/progress", h.GetOnboardingProgress)
				premium.GET("/milestones", h.GetMyMilestones)
				premium.PATCH("/milestones/:id", h.UpdateMilestoneStatus)

				// Wellness journal (LifeSync)
				premium.POST("/wellness/entries", h.CreateWellnessEntry)
				premium.GET("/wellness/entries", h.GetMyWellnessHistory)

				// Companies & employees
				premium.POST("/companies", h.CreateCompany)
				premium.GET("/companies", h.GetMyCompanies)
				premium.PUT("/companies/:id", h.UpdateCompany)
				premium.DELETE("/companies/:id", h.DeleteCompany)

				premium.POST("/companies/:id/employees", h.CreateEmployee)
				premium.GET("/companies/:id/employees", h.GetEmployees)
				premium.GET("/companies/:id/employees/export", h.ExportEmployeesCSV)
				premium.PUT("/companies/:id/employees/:employeeId", h.UpdateEmployee)
				premium.DELETE("/companies/:id/employees/:employeeId", h.DeleteEmployee)

				premium.POST("/companies/:id/announcements", h.CreateAnnouncement)
				premium.GET("/companies/:id/announcements", h.GetAnnouncements)
			}
		}

		// --- Super Admin-Only Routes ---
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(h.DB))
		admin.Use(middleware.SuperAdminMiddleware())
		{
			admin.GET("/stats", h.GetPlatformStats)
			admin.GET("/companies", h.GetAllCompanies)
			admin.PATCH("/users/:id/plan", h.SetUserPlan)
		}
	}

	return router
}
