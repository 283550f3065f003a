package billing

import (
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	portalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
)

// Config holds every Stripe-related setting the service needs. All of it
// comes from the environment; Validate runs at startup so a missing
// secret is fatal immediately instead of surfacing per-request.
type Config struct {
	SecretKey       string // STRIPE_SECRET_KEY
	WebhookSecret   string // STRIPE_WEBHOOK_SECRET
	PlatinumPriceID string // STRIPE_PLATINUM_PRICE_ID
	BaseURL         string // APP_BASE_URL, for checkout/portal redirects
}

// Validate reports the first missing setting.
func (c Config) Validate() error {
	switch {
	case c.SecretKey == "":
		return fmt.Errorf("billing: STRIPE_SECRET_KEY is not set")
	case c.WebhookSecret == "":
		return fmt.Errorf("billing: STRIPE_WEBHOOK_SECRET is not set")
	case c.PlatinumPriceID == "":
		return fmt.Errorf("billing: STRIPE_PLATINUM_PRICE_ID is not set")
	case c.BaseURL == "":
		return fmt.Errorf("billing: APP_BASE_URL is not set")
	}
	return nil
}

// Service talks to Stripe for checkout/portal sessions and owns the
// webhook secret and price mapping.
type Service struct {
	Config Config
}

// NewService validates the config and installs the Stripe API key.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	stripe.Key = cfg.SecretKey
	return &Service{Config: cfg}, nil
}

// CreateCustomer creates a Stripe customer for a newly-linked account.
func (s *Service) CreateCustomer(email, fullName string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(fullName),
	}
	c, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("billing: create stripe customer: %w", err)
	}
	return c.ID, nil
}

// CreateCheckoutSession starts a subscription checkout for the platinum
// price and returns the hosted URL.
func (s *Service) CreateCheckoutSession(customerID string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.Config.PlatinumPriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.Config.BaseURL + "/dashboard/billing?success=1"),
		CancelURL:  stripe.String(s.Config.BaseURL + "/dashboard/billing?canceled=1"),
	}
	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("billing: create checkout session: %w", err)
	}
	return sess.URL, nil
}

// CreatePortalSession returns a billing-portal URL for an existing
// Stripe customer.
func (s *Service) CreatePortalSession(customerID string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(s.Config.BaseURL + "/dashboard/billing"),
	}
	sess, err := portalsession.New(params)
	if err != nil {
		return "", fmt.Errorf("billing: create portal session: %w", err)
	}
	return sess.URL, nil
}
