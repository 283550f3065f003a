package middleware

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/welcomenesthr/welcomenest-golang/internal/access"
	"github.com/welcomenesthr/welcomenest-golang/internal/billing"
)

// PlanGateMiddleware must run after AuthMiddleware. It re-evaluates the
// caller's entitlement on every request, so a webhook-driven tier change
// takes effect on the very next call.
func PlanGateMiddleware(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID_raw, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context (AuthMiddleware must run first)"})
			c.Abort()
			return
		}
		userID := userID_raw.(int64)

		var plan string
		var trialEndsAt sql.NullTime
		err := db.QueryRow("SELECT plan, trial_ends_at FROM users WHERE id = ?", userID).Scan(&plan, &trialEndsAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking plan"})
			c.Abort()
			return
		}

		var endsAt *time.Time
		if trialEndsAt.Valid {
			endsAt = &trialEndsAt.Time
		}

		decision := access.Evaluate(billing.Tier(plan), endsAt, time.Now())
		if decision.State != access.StateGranted {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":  "Upgrade required to access this feature",
				"access": decision,
			})
			c.Abort()
			return
		}

		c.Set("planDecision", decision)
		c.Next()
	}
}
