package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/welcomenesthr/welcomenest-golang/internal/ai"
	"github.com/welcomenesthr/welcomenest-golang/internal/auth"
	"github.com/welcomenesthr/welcomenest-golang/internal/billing"
	"github.com/welcomenesthr/welcomenest-golang/internal/database"
	"github.com/welcomenesthr/welcomenest-golang/internal/handlers"
	"github.com/welcomenesthr/welcomenest-golang/internal/routes"
)

// billingEventRetention is how long processed webhook event IDs stay in
// the idempotency ledger before the background worker prunes them.
const billingEventRetention = 30 * 24 * time.Hour

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// 1. --- Database Connection ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// 2. --- Auth Secret ---
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("CRITICAL ERROR: JWT_SECRET environment variable is not set.")
	}
	auth.SetSecret([]byte(jwtSecret))

	// 3. --- Billing Service ---
	// A missing Stripe secret is fatal here, not a per-request 500.
	billingService, err := billing.NewService(billing.Config{
		SecretKey:       os.Getenv("STRIPE_SECRET_KEY"),
		WebhookSecret:   os.Getenv("STRIPE_WEBHOOK_SECRET"),
		PlatinumPriceID: os.Getenv("STRIPE_PLATINUM_PRICE_ID"),
		BaseURL:         os.Getenv("APP_BASE_URL"),
	})
	if err != nil {
		log.Fatalf("CRITICAL ERROR: %v", err)
	}

	// 4. --- AI Service ---
	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		log.Fatal("CRITICAL ERROR: GEMINI_API_KEY environment variable is not set.")
	}
	aiService, err := ai.NewAIService(geminiKey)
	if err != nil {
		log.Fatalf("Failed to initialize AI Service: %v", err)
	}

	// --- Application Setup ---
	billingStore := billing.NewSQLStore(db)
	app := &handlers.Handlers{
		DB:           db,
		AIService:    aiService,
		Billing:      billingService,
		BillingStore: billingStore,
	}

	// 5. --- Background Worker ---
	// Prunes the processed-webhook ledger once an hour.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		log.Println("Background worker started: pruning billing event ledger hourly")

		for range ticker.C {
			cutoff := time.Now().Add(-billingEventRetention)
			pruned, err := billingStore.PruneProcessedEvents(cutoff)
			if err != nil {
				log.Printf("Ledger prune failed: %v", err)
				continue
			}
			if pruned > 0 {
				log.Printf("Pruned %d processed billing events", pruned)
			}
		}
	}()

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting WelcomeNest API server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
