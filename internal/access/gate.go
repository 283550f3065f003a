// Package access decides whether an account may use premium features,
// based on its plan tier and trial timing.
package access

import (
	"time"

	"github.com/welcomenesthr/welcomenest-golang/internal/billing"
)

// State is the outcome of an access evaluation for an authenticated user.
// (Requests without a session never reach this package; the auth
// middleware rejects them with 401 first.)
type State string

const (
	StateGranted State = "granted"
	StateDenied  State = "denied"
)

// Decision carries the gate outcome plus the trial countdown used by the
// dashboard banner.
type Decision struct {
	State         State        `json:"state"`
	Plan          billing.Tier `json:"plan"`
	TrialDaysLeft int          `json:"trialDaysLeft"`
}

// Evaluate classifies an account at the given instant.
//
// Rules:
//   - platinum         -> granted, regardless of any trial fields
//   - trial, now<ends  -> granted, with days left
//   - everything else  -> denied (free, expired trial, and trial without
//     an expiration on record, which fails closed)
func Evaluate(plan billing.Tier, trialEndsAt *time.Time, now time.Time) Decision {
	d := Decision{State: StateDenied, Plan: plan}

	switch plan {
	case billing.TierPlatinum:
		d.State = StateGranted
	case billing.TierTrial:
		if trialEndsAt != nil && now.Before(*trialEndsAt) {
			d.State = StateGranted
			d.TrialDaysLeft = daysLeft(*trialEndsAt, now)
		}
	}

	return d
}

// daysLeft is the ceiling of whole days between now and the expiration,
// floored at zero. Never negative.
func daysLeft(endsAt, now time.Time) int {
	remaining := endsAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}
