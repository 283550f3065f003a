package handlers

import (
	"database/sql"

	"github.com/welcomenesthr/welcomenest-golang/internal/ai"
	"github.com/welcomenesthr/welcomenest-golang/internal/billing"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB           *sql.DB
	AIService    *ai.AIService
	Billing      *billing.Service
	BillingStore billing.Store
}
