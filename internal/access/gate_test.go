package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/welcomenesthr/welcomenest-golang/internal/billing"
)

func TestEvaluate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("platinum is granted regardless of trial fields", func(t *testing.T) {
		expired := now.Add(-time.Hour)
		d := Evaluate(billing.TierPlatinum, &expired, now)
		assert.Equal(t, StateGranted, d.State)

		d = Evaluate(billing.TierPlatinum, nil, now)
		assert.Equal(t, StateGranted, d.State)
	})

	t.Run("trial with 5 days left is granted with daysLeft 5", func(t *testing.T) {
		endsAt := now.Add(5 * 24 * time.Hour)
		d := Evaluate(billing.TierTrial, &endsAt, now)
		assert.Equal(t, StateGranted, d.State)
		assert.Equal(t, 5, d.TrialDaysLeft)
	})

	t.Run("trial with partial day left rounds up", func(t *testing.T) {
		endsAt := now.Add(4*24*time.Hour + time.Minute)
		d := Evaluate(billing.TierTrial, &endsAt, now)
		assert.Equal(t, StateGranted, d.State)
		assert.Equal(t, 5, d.TrialDaysLeft)
	})

	t.Run("trial expired one second ago is denied with daysLeft 0", func(t *testing.T) {
		endsAt := now.Add(-time.Second)
		d := Evaluate(billing.TierTrial, &endsAt, now)
		assert.Equal(t, StateDenied, d.State)
		assert.Equal(t, 0, d.TrialDaysLeft)
	})

	t.Run("trial expiring exactly now is denied", func(t *testing.T) {
		endsAt := now
		d := Evaluate(billing.TierTrial, &endsAt, now)
		assert.Equal(t, StateDenied, d.State)
		assert.Equal(t, 0, d.TrialDaysLeft)
	})

	t.Run("trial without an expiration on record fails closed", func(t *testing.T) {
		d := Evaluate(billing.TierTrial, nil, now)
		assert.Equal(t, StateDenied, d.State)
	})

	t.Run("free is denied", func(t *testing.T) {
		d := Evaluate(billing.TierFree, nil, now)
		assert.Equal(t, StateDenied, d.State)
	})

	t.Run("unknown tier is denied", func(t *testing.T) {
		d := Evaluate(billing.Tier("enterprise"), nil, now)
		assert.Equal(t, StateDenied, d.State)
	})
}
