package billing

// Tier is the subscription level controlling feature access.
type Tier string

const (
	TierFree     Tier = "free"
	TierTrial    Tier = "trial"
	TierPlatinum Tier = "platinum"
)

// SubscriptionStatusActive is the only Stripe status that keeps a paid
// tier. Everything else (trialing, past_due, canceled, incomplete, ...)
// downgrades to free immediately; there is no grace period.
const SubscriptionStatusActive = "active"

// ValidTier reports whether s is a recognised plan tier. Used by the
// superadmin plan editor.
func ValidTier(s string) bool {
	switch Tier(s) {
	case TierFree, TierTrial, TierPlatinum:
		return true
	}
	return false
}

// ResolvePlan maps a subscription's price ID and status to a tier.
// Unknown price IDs resolve to free; any non-active status forces free
// regardless of price.
func (c Config) ResolvePlan(priceID, status string) Tier {
	if status != SubscriptionStatusActive {
		return TierFree
	}
	if priceID != "" && priceID == c.PlatinumPriceID {
		return TierPlatinum
	}
	return TierFree
}
