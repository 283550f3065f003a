package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/welcomenesthr/welcomenest-golang/internal/access"
	"github.com/welcomenesthr/welcomenest-golang/internal/billing"
)

//
// --- Stripe Webhook (Entitlement Reconciler) ---
//

// HandleStripeWebhook is the handler for POST /v1/billing/webhook.
// Signature verification runs against the exact raw body bytes; this
// route must never sit behind body-parsing middleware.
func (h *Handlers) HandleStripeWebhook(c *gin.Context) {
	// 1. --- Read Raw Body ---
	payload, err := c.GetRawData()
	if err != nil {
		c.String(http.StatusBadRequest, "failed to read request body")
		return
	}

	// 2. --- Verify Signature ---
	// Missing or mismatched signatures are rejected before any data is
	// read; this is a security boundary, not best-effort validation.
	sigHeader := c.GetHeader("Stripe-Signature")
	if sigHeader == "" {
		c.String(http.StatusBadRequest, "missing Stripe signature")
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, h.Billing.Config.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		c.String(http.StatusBadRequest, "invalid Stripe signature")
		return
	}

	// 3. --- Filter Event Types ---
	// Unhandled types are acknowledged so Stripe stops redelivering.
	if !billing.HandledEventType(string(event.Type)) {
		log.Printf("Stripe webhook ignored (unhandled type %s)", event.Type)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	// 4. --- Idempotency Check ---
	seen, err := h.BillingStore.EventAlreadyProcessed(event.ID)
	if err != nil {
		log.Printf("Webhook ledger check failed for %s: %v", event.ID, err)
		c.String(http.StatusInternalServerError, "ledger unavailable")
		return
	}
	if seen {
		log.Printf("Stripe event %s already processed, skipping", event.ID)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	// 5. --- Decode Payload ---
	var sub billing.SubscriptionEvent
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		log.Printf("Failed to decode subscription payload for %s: %v", event.ID, err)
		c.String(http.StatusBadRequest, "malformed subscription payload")
		return
	}

	// 6. --- Resolve Tier ---
	tier := h.Billing.Config.ResolvePlan(sub.FirstPriceID(), sub.Status)

	// 7. --- Look Up Customer ---
	user, err := h.BillingStore.FindUserByCustomerID(sub.Customer)
	if err != nil {
		if errors.Is(err, billing.ErrMultipleCustomerMatches) {
			// Data-integrity fault: report it, never pick a row.
			log.Printf("INTEGRITY FAULT: multiple users linked to stripe customer %s", sub.Customer)
			c.String(http.StatusInternalServerError, "customer mapping conflict")
			return
		}
		log.Printf("Customer lookup failed for %s: %v", sub.Customer, err)
		c.String(http.StatusInternalServerError, "customer lookup failed")
		return
	}
	if user == nil {
		// Valid outcome: the webhook can arrive before the local record
		// is linked. Acknowledge so Stripe does not retry forever.
		log.Printf("WARNING: no user linked to stripe customer %s, skipping event %s", sub.Customer, event.ID)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	// 8. --- Write Entitlement ---
	// A failed write returns 5xx so Stripe redelivers; the ledger plus
	// the idempotent writer make that redelivery safe.
	eventAt := time.Unix(event.Created, 0)
	if err := h.BillingStore.ApplyPlan(user.ID, tier, eventAt); err != nil {
		log.Printf("Entitlement write failed for user %d: %v", user.ID, err)
		c.String(http.StatusInternalServerError, "entitlement write failed")
		return
	}

	if err := h.BillingStore.MarkEventProcessed(event.ID, string(event.Type)); err != nil {
		// The plan write already landed and is idempotent, so a ledger
		// failure is logged rather than failing the delivery.
		log.Printf("Failed to record event %s in ledger: %v", event.ID, err)
	}

	log.Printf("Updated plan for user %d to %s (event %s)", user.ID, tier, event.ID)
	c.JSON(http.StatusOK, gin.H{"received": true})
}

//
// --- Checkout & Portal ---
//

// CreateCheckoutSession is the handler for POST /v1/billing/checkout-session.
// It links a Stripe customer on first use, then returns the hosted
// checkout URL for the platinum price.
func (h *Handlers) CreateCheckoutSession(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	// 1. --- Load Billing Link ---
	var email, fullName string
	var customerID sql.NullString
	query := "SELECT email, full_name, stripe_customer_id FROM users WHERE id = ?"
	if err := h.DB.QueryRow(query, userID).Scan(&email, &fullName, &customerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
		return
	}

	// 2. --- Create Customer on First Checkout ---
	if !customerID.Valid || customerID.String == "" {
		newCustomerID, err := h.Billing.CreateCustomer(email, fullName)
		if err != nil {
			log.Printf("Failed to create stripe customer for user %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create billing customer"})
			return
		}

		_, err = h.DB.Exec("UPDATE users SET stripe_customer_id = ?, updated_at = ? WHERE id = ?",
			newCustomerID, time.Now(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link billing customer"})
			return
		}
		customerID = sql.NullString{String: newCustomerID, Valid: true}
	}

	// 3. --- Create Session ---
	url, err := h.Billing.CreateCheckoutSession(customerID.String)
	if err != nil {
		log.Printf("Checkout session failed for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// CreatePortalLink is the handler for POST /v1/billing/portal-link.
func (h *Handlers) CreatePortalLink(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	var customerID sql.NullString
	query := "SELECT stripe_customer_id FROM users WHERE id = ?"
	if err := h.DB.QueryRow(query, userID).Scan(&customerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
		return
	}

	if !customerID.Valid || customerID.String == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No billing customer linked to this account"})
		return
	}

	url, err := h.Billing.CreatePortalSession(customerID.String)
	if err != nil {
		log.Printf("Portal session failed for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create portal session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

//
// --- Access ---
//

// GetMyAccess is the handler for GET /v1/me/access. The dashboard polls
// this after billing changes; the decision is recomputed every call.
func (h *Handlers) GetMyAccess(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	var plan string
	var trialEndsAt sql.NullTime
	err := h.DB.QueryRow("SELECT plan, trial_ends_at FROM users WHERE id = ?", userID).Scan(&plan, &trialEndsAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plan"})
		return
	}

	var endsAt *time.Time
	if trialEndsAt.Valid {
		endsAt = &trialEndsAt.Time
	}

	c.JSON(http.StatusOK, access.Evaluate(billing.Tier(plan), endsAt, time.Now()))
}
