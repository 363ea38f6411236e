package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPKey(t *testing.T) {
	assert.Equal(t, "rl:ip:10.0.0.1", IPKey("10.0.0.1"))
	assert.Equal(t, "rl:ip:unknown", IPKey(""))
}

func TestDeniedRetryAfterIsAtLeastOneSecond(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	r := Denied(10, now.Add(200*time.Millisecond), now)
	assert.False(t, r.Allowed)
	assert.Equal(t, 1, r.RetryAfter)

	r = Denied(10, now.Add(42*time.Second), now)
	assert.Equal(t, 42, r.RetryAfter)
}

func TestAllowedNeverReportsNegativeRemaining(t *testing.T) {
	r := Allowed(3, 5, time.Now())
	assert.True(t, r.Allowed)
	assert.Zero(t, r.Remaining)
}
