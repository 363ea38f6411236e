//go:build integration

package lockout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"bloodconnect/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "auth_lockouts"))
}

func (s *PostgresStoreSuite) TestCountersAndCutoffs() {
	ctx := context.Background()
	t0 := time.Now().UTC().Truncate(time.Microsecond)

	r, err := s.store.RecordFailure(ctx, "k", t0, t0.Add(-15*time.Minute), t0.Add(-24*time.Hour))
	s.Require().NoError(err)
	s.Equal(1, r.FailureCount)

	t1 := t0.Add(time.Hour)
	r, err = s.store.RecordFailure(ctx, "k", t1, t1.Add(-15*time.Minute), t1.Add(-24*time.Hour))
	s.Require().NoError(err)
	s.Equal(1, r.FailureCount, "window restarted")
	s.Equal(2, r.DailyFailures)

	s.Require().NoError(s.store.SetLockedUntil(ctx, "k", t1.Add(15*time.Minute)))
	s.Require().NoError(s.store.ClearWindow(ctx, "k"))
	got, err := s.store.Get(ctx, "k")
	s.Require().NoError(err)
	s.Equal(0, got.FailureCount)
	s.Require().NotNil(got.LockedUntil)

	missing, err := s.store.Get(ctx, "nobody")
	s.NoError(err)
	s.Nil(missing)
}

func (s *PostgresStoreSuite) TestConcurrentFailuresAreAllCounted() {
	ctx := context.Background()
	now := time.Now().UTC()
	const n = 20
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.RecordFailure(ctx, "race", now, now.Add(-time.Hour), now.Add(-24*time.Hour))
			s.NoError(err)
		}()
	}
	wg.Wait()

	r, err := s.store.Get(ctx, "race")
	s.Require().NoError(err)
	s.Equal(n, r.DailyFailures)
}
