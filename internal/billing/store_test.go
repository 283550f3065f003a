package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSupersedesPlanEvent(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first write always applies", func(t *testing.T) {
		assert.True(t, SupersedesPlanEvent(nil, base))
	})

	t.Run("older event is rejected", func(t *testing.T) {
		assert.False(t, SupersedesPlanEvent(&base, base.Add(-time.Hour)))
	})

	t.Run("replay of the same event applies harmlessly", func(t *testing.T) {
		assert.True(t, SupersedesPlanEvent(&base, base))
	})

	t.Run("newer event applies", func(t *testing.T) {
		assert.True(t, SupersedesPlanEvent(&base, base.Add(time.Hour)))
	})
}
