package billing

import "strings"

// Subscription event types we reconcile. All three are handled
// identically: resolve tier, look up the customer, write the tier.
const (
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// HandledEventType reports whether an event type drives reconciliation.
// Everything else is acknowledged and ignored.
func HandledEventType(t string) bool {
	switch t {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		return true
	}
	return false
}

// SubscriptionEvent is the minimal shape we decode from a Stripe
// subscription event payload. Anything outside these fields is ignored.
type SubscriptionEvent struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Status   string `json:"status"`
	Items    struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

// FirstPriceID returns the price ID from the first subscription line
// item, or "" if there is none.
func (s *SubscriptionEvent) FirstPriceID() string {
	for _, item := range s.Items.Data {
		if priceID := strings.TrimSpace(item.Price.ID); priceID != "" {
			return priceID
		}
	}
	return ""
}
