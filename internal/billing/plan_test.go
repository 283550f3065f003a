package billing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePlan(t *testing.T) {
	cfg := Config{PlatinumPriceID: "price_platinum_123"}

	tests := []struct {
		name    string
		priceID string
		status  string
		want    Tier
	}{
		{"active platinum price", "price_platinum_123", "active", TierPlatinum},
		{"active unknown price", "price_other_999", "active", TierFree},
		{"active empty price", "", "active", TierFree},
		{"trialing platinum price", "price_platinum_123", "trialing", TierFree},
		{"past_due platinum price", "price_platinum_123", "past_due", TierFree},
		{"canceled platinum price", "price_platinum_123", "canceled", TierFree},
		{"incomplete unknown price", "price_other_999", "incomplete", TierFree},
		{"empty status", "price_platinum_123", "", TierFree},
		// Status matching is exact, not case-insensitive.
		{"uppercase active", "price_platinum_123", "Active", TierFree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.ResolvePlan(tt.priceID, tt.status))
		})
	}
}

func TestValidTier(t *testing.T) {
	assert.True(t, ValidTier("free"))
	assert.True(t, ValidTier("trial"))
	assert.True(t, ValidTier("platinum"))
	assert.False(t, ValidTier("pro"))
	assert.False(t, ValidTier("enterprise"))
	assert.False(t, ValidTier(""))
}

func TestHandledEventType(t *testing.T) {
	assert.True(t, HandledEventType("customer.subscription.created"))
	assert.True(t, HandledEventType("customer.subscription.updated"))
	assert.True(t, HandledEventType("customer.subscription.deleted"))
	assert.False(t, HandledEventType("invoice.paid"))
	assert.False(t, HandledEventType("checkout.session.completed"))
	assert.False(t, HandledEventType(""))
}

func TestSubscriptionEventFirstPriceID(t *testing.T) {
	var empty SubscriptionEvent
	assert.Equal(t, "", empty.FirstPriceID())

	raw := `{
		"id": "sub_1",
		"customer": "cus_1",
		"status": "active",
		"items": {"data": [{"price": {"id": "  "}}, {"price": {"id": "price_abc"}}]}
	}`
	var sub SubscriptionEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &sub))
	assert.Equal(t, "price_abc", sub.FirstPriceID())
}
