package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User Model with Pointers for Nullable Fields
type User struct {
	ID           int64  `json:"id" db:"id"`
	Role         string `json:"role" db:"role"` // 'member' or 'superadmin'
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	FullName     string `json:"fullName" db:"full_name"`

	// --- Billing / Entitlement Fields ---
	// Plan is one of 'free', 'trial', 'platinum'.
	// TrialEndsAt is set once at signup (plan='trial'). The billing
	// reconciler never writes it; only plan itself changes afterwards.
	Plan             string     `json:"plan" db:"plan"`
	TrialEndsAt      *time.Time `json:"trialEndsAt,omitempty" db:"trial_ends_at"`
	StripeCustomerID *string    `json:"-" db:"stripe_customer_id"`
	// PlanEventAt records the Stripe event timestamp of the last applied
	// entitlement write, so out-of-order deliveries can be rejected.
	PlanEventAt *time.Time `json:"-" db:"plan_event_at"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
