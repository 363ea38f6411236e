package lockout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = New()
}

func (s *InMemoryStoreSuite) TestGetMissing() {
	record, err := s.store.Get(context.Background(), "unknown")
	s.NoError(err)
	s.Nil(record)
}

func (s *InMemoryStoreSuite) TestRecordFailure() {
	ctx := context.Background()
	t0 := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	s.Run("first failure initializes counters", func() {
		r, err := s.store.RecordFailure(ctx, "k", t0, t0.Add(-15*time.Minute), t0.Add(-24*time.Hour))
		s.Require().NoError(err)
		s.Equal(1, r.FailureCount)
		s.Equal(1, r.DailyFailures)
		s.Equal(t0, r.LastFailureAt)
	})

	s.Run("failure inside the window increments", func() {
		t1 := t0.Add(time.Minute)
		r, err := s.store.RecordFailure(ctx, "k", t1, t1.Add(-15*time.Minute), t1.Add(-24*time.Hour))
		s.Require().NoError(err)
		s.Equal(2, r.FailureCount)
		s.Equal(2, r.DailyFailures)
	})

	s.Run("stale window restarts but daily keeps counting", func() {
		t2 := t0.Add(time.Hour)
		r, err := s.store.RecordFailure(ctx, "k", t2, t2.Add(-15*time.Minute), t2.Add(-24*time.Hour))
		s.Require().NoError(err)
		s.Equal(1, r.FailureCount)
		s.Equal(3, r.DailyFailures)
	})

	s.Run("clear window keeps daily count", func() {
		s.Require().NoError(s.store.ClearWindow(ctx, "k"))
		r, _ := s.store.Get(ctx, "k")
		s.Equal(0, r.FailureCount)
		s.Equal(3, r.DailyFailures)
	})

	s.Run("lock is stored", func() {
		until := t0.Add(2 * time.Hour)
		s.Require().NoError(s.store.SetLockedUntil(ctx, "k", until))
		r, _ := s.store.Get(ctx, "k")
		s.Require().NotNil(r.LockedUntil)
		s.Equal(until, *r.LockedUntil)
	})
}
