package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// step is one reported outcome and what the caller should see afterwards.
type step struct {
	fail     bool
	fallback bool // RecordFailure: useFallback; RecordSuccess: !usePrimary
	opened   bool
	closed   bool
}

func replay(t *testing.T, b *Breaker, steps []step) {
	t.Helper()
	for i, s := range steps {
		var fallback bool
		var change StateChange
		if s.fail {
			fallback, change = b.RecordFailure()
		} else {
			var primary bool
			primary, change = b.RecordSuccess()
			fallback = !primary
		}
		require.Equal(t, s.fallback, fallback, "step %d fallback", i)
		require.Equal(t, s.opened, change.Opened, "step %d opened", i)
		require.Equal(t, s.closed, change.Closed, "step %d closed", i)
	}
}

func TestBreakerTransitions(t *testing.T) {
	tests := []struct {
		name      string
		opts      []Option
		steps     []step
		finalOpen bool
	}{
		{
			name: "opens on the third consecutive failure",
			opts: []Option{WithFailureThreshold(3)},
			steps: []step{
				{fail: true},
				{fail: true},
				{fail: true, fallback: true, opened: true},
				{fail: true, fallback: true},
			},
			finalOpen: true,
		},
		{
			name: "a success between failures resets the count",
			opts: []Option{WithFailureThreshold(3)},
			steps: []step{
				{fail: true},
				{fail: true},
				{},
				{fail: true},
				{fail: true},
			},
		},
		{
			name: "closes after consecutive successes",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			steps: []step{
				{fail: true, fallback: true, opened: true},
				{fallback: true},
				{closed: true},
			},
		},
		{
			name: "a failure while open restarts the success count",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(3)},
			steps: []step{
				{fail: true, fallback: true, opened: true},
				{fallback: true},
				{fallback: true},
				{fail: true, fallback: true},
				{fallback: true},
				{fallback: true},
			},
			finalOpen: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("kafka-audit", tt.opts...)
			replay(t, b, tt.steps)
			assert.Equal(t, tt.finalOpen, b.IsOpen())
		})
	}
}

func TestBreakerDefaultsAndReset(t *testing.T) {
	b := New("kafka-audit", WithFailureThreshold(0))
	assert.Equal(t, "kafka-audit", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "closed", b.State().String())

	// Non-positive thresholds keep the default of five.
	for range 4 {
		b.RecordFailure()
	}
	assert.False(t, b.IsOpen())
	b.RecordFailure()
	assert.True(t, b.IsOpen())
	assert.Equal(t, "open", b.State().String())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	usePrimary, _ := b.RecordSuccess()
	assert.True(t, usePrimary)
}
