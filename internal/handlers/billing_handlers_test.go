package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/welcomenesthr/welcomenest-golang/internal/billing"
	"github.com/welcomenesthr/welcomenest-golang/internal/models"
)

const testWebhookSecret = "whsec_test_123"
const testPlatinumPrice = "price_platinum_123"

//
// --- Fake Store ---
//

type appliedPlan struct {
	userID  int64
	tier    billing.Tier
	eventAt time.Time
}

type fakeBillingStore struct {
	users       map[string]*models.User // stripe customer id -> user
	multiMatch  bool
	applyErr    error
	processed   map[string]bool
	applied     []appliedPlan
	lastEventAt map[int64]time.Time
}

func newFakeBillingStore() *fakeBillingStore {
	return &fakeBillingStore{
		users:       map[string]*models.User{},
		processed:   map[string]bool{},
		lastEventAt: map[int64]time.Time{},
	}
}

func (f *fakeBillingStore) FindUserByCustomerID(customerID string) (*models.User, error) {
	if f.multiMatch {
		return nil, billing.ErrMultipleCustomerMatches
	}
	return f.users[customerID], nil
}

func (f *fakeBillingStore) ApplyPlan(userID int64, tier billing.Tier, eventAt time.Time) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	if last, ok := f.lastEventAt[userID]; ok && !billing.SupersedesPlanEvent(&last, eventAt) {
		return nil
	}
	f.lastEventAt[userID] = eventAt
	f.applied = append(f.applied, appliedPlan{userID: userID, tier: tier, eventAt: eventAt})
	return nil
}

func (f *fakeBillingStore) EventAlreadyProcessed(eventID string) (bool, error) {
	return f.processed[eventID], nil
}

func (f *fakeBillingStore) MarkEventProcessed(eventID, eventType string) error {
	f.processed[eventID] = true
	return nil
}

func (f *fakeBillingStore) PruneProcessedEvents(olderThan time.Time) (int64, error) {
	return 0, nil
}

//
// --- Helpers ---
//

func newWebhookTestServer(store billing.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handlers{
		Billing: &billing.Service{Config: billing.Config{
			WebhookSecret:   testWebhookSecret,
			PlatinumPriceID: testPlatinumPrice,
		}},
		BillingStore: store,
	}
	router := gin.New()
	router.POST("/v1/billing/webhook", h.HandleStripeWebhook)
	return router
}

func subscriptionEventPayload(eventID, eventType, customer, status, priceID string, created time.Time) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"type": %q,
		"created": %d,
		"data": {
			"object": {
				"id": "sub_1",
				"customer": %q,
				"status": %q,
				"items": {"data": [{"price": {"id": %q}}]}
			}
		}
	}`, eventID, eventType, created.Unix(), customer, status, priceID))
}

func signedWebhookRequest(payload []byte, secret string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/billing/webhook", bytes.NewReader(payload))
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	req.Header.Set("Stripe-Signature", signed.Header)
	return req
}

//
// --- Tests ---
//

func TestWebhookRejectsMissingSignature(t *testing.T) {
	store := newFakeBillingStore()
	router := newWebhookTestServer(store)

	payload := subscriptionEventPayload("evt_1", "customer.subscription.updated", "cus_123", "active", testPlatinumPrice, time.Now())
	req := httptest.NewRequest(http.MethodPost, "/v1/billing/webhook", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, store.applied)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	store := newFakeBillingStore()
	router := newWebhookTestServer(store)

	payload := subscriptionEventPayload("evt_1", "customer.subscription.updated", "cus_123", "active", testPlatinumPrice, time.Now())
	req := signedWebhookRequest(payload, "whsec_wrong")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, store.applied)
}

func TestWebhookIgnoresUnhandledEventTypes(t *testing.T) {
	store := newFakeBillingStore()
	router := newWebhookTestServer(store)

	payload := subscriptionEventPayload("evt_2", "invoice.paid", "cus_123", "active", testPlatinumPrice, time.Now())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, signedWebhookRequest(payload, testWebhookSecret))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"received": true}`, rr.Body.String())
	assert.Empty(t, store.applied)
}

func TestWebhookUpgradesActivePlatinumSubscription(t *testing.T) {
	store := newFakeBillingStore()
	store.users["cus_123"] = &models.User{ID: 7, Email: "owner@example.com"}
	router := newWebhookTestServer(store)

	created := time.Now().Truncate(time.Second)
	payload := subscriptionEventPayload("evt_3", "customer.subscription.updated", "cus_123", "active", testPlatinumPrice, created)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, signedWebhookRequest(payload, testWebhookSecret))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"received": true}`, rr.Body.String())

	require.Len(t, store.applied, 1)
	assert.Equal(t, int64(7), store.applied[0].userID)
	assert.Equal(t, billing.TierPlatinum, store.applied[0].tier)
	assert.True(t, store.applied[0].eventAt.Equal(created))
	assert.True(t, store.processed["evt_3"])
}

func TestWebhookDowngradesPastDueImmediately(t *testing.T) {
	// past_due loses paid access right away; there is no grace period.
	store := newFakeBillingStore()
	store.users["cus_123"] = &models.User{ID: 7, Email: "owner@example.com"}
	router := newWebhookTestServer(store)

	payload := subscriptionEventPayload("evt_4", "customer.subscription.updated", "cus_123", "past_due", testPlatinumPrice, time.Now())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, signedWebhookRequest(payload, testWebhookSecret))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, store.applied, 1)
	assert.Equal(t, billing.TierFree, store.applied[0].tier)
}

func TestWebhookDeletedSubscriptionDowngrades(t *testing.T) {
	store := newFakeBillingStore()
	store.users["cus_123"] = &models.User{ID: 7, Email: "owner@example.com"}
	router := newWebhookTestServer(store)

	payload := subscriptionEventPayload("evt_5", "customer.subscription.deleted", "cus_123", "canceled", testPlatinumPrice, time.Now())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, signedWebhookRequest(payload, testWebhookSecret))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, store.applied, 1)
	assert.Equal(t, billing.TierFree, store.applied[0].tier)
}

func TestWebhookUnknownCustomerIsAcknowledgedAndSkipped(t *testing.T) {
	store := newFakeBillingStore()
	router := newWebhookTestServer(store)

	payload := subscriptionEventPayload("evt_6", "customer.subscription.created", "cus_unknown", "active", testPlatinumPrice, time.Now())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, signedWebhookRequest(payload, testWebhookSecret))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"received": true}`, rr.Body.String())
	assert.Empty(t, store.applied)
}

func TestWebhookDuplicateDeliveryIsSkipped(t *testing.T) {
	store := newFakeBillingStore()
	store.users["cus_123"] = &models.User{ID: 7, Email: "owner@example.com"}
	router := newWebhookTestServer(store)

	payload := subscriptionEventPayload("evt_7", "customer.subscription.updated", "cus_123", "active", testPlatinumPrice, time.Now())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, signedWebhookRequest(payload, testWebhookSecret))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, store.applied, 1)

	// Same event again: acknowledged, not reapplied.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, signedWebhookRequest(payload, testWebhookSecret))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, store.applied, 1)
}

func TestWebhookStaleEventDoesNotOverwriteNewerPlan(t *testing.T) {
	store := newFakeBillingStore()
	store.users["cus_123"] = &models.User{ID: 7, Email: "owner@example.com"}
	router := newWebhookTestServer(store)

	newer := time.Now().Truncate(time.Second)
	older := newer.Add(-time.Hour)

	payload := subscriptionEventPayload("evt_10", "customer.subscription.updated", "cus_123", "active", testPlatinumPrice, newer)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, signedWebhookRequest(payload, testWebhookSecret))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, store.applied, 1)

	// A delayed delivery of an older cancellation must not undo the
	// upgrade that already landed.
	payload = subscriptionEventPayload("evt_11", "customer.subscription.deleted", "cus_123", "canceled", testPlatinumPrice, older)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, signedWebhookRequest(payload, testWebhookSecret))
	assert.Equal(t, http.StatusOK, rr.Code)

	require.Len(t, store.applied, 1)
	assert.Equal(t, billing.TierPlatinum, store.applied[0].tier)
}

func TestWebhookWriteFailureReturns500(t *testing.T) {
	// A 5xx makes Stripe redeliver; the ledger makes the retry safe.
	store := newFakeBillingStore()
	store.users["cus_123"] = &models.User{ID: 7, Email: "owner@example.com"}
	store.applyErr = fmt.Errorf("datastore unavailable")
	router := newWebhookTestServer(store)

	payload := subscriptionEventPayload("evt_8", "customer.subscription.updated", "cus_123", "active", testPlatinumPrice, time.Now())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, signedWebhookRequest(payload, testWebhookSecret))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.False(t, store.processed["evt_8"])
}

func TestWebhookMultipleCustomerMatchesIsIntegrityFault(t *testing.T) {
	store := newFakeBillingStore()
	store.multiMatch = true
	router := newWebhookTestServer(store)

	payload := subscriptionEventPayload("evt_9", "customer.subscription.updated", "cus_123", "active", testPlatinumPrice, time.Now())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, signedWebhookRequest(payload, testWebhookSecret))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, store.applied)
}
