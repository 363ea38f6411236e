//go:build integration

package bucket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"bloodconnect/pkg/requestcontext"
	"bloodconnect/pkg/testutil/containers"
)

type RedisBucketSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *RedisBucketStore
}

func TestRedisBucketSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisBucketSuite))
}

func (s *RedisBucketSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = NewRedisBucketStore(s.redis.Client)
}

func (s *RedisBucketSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisBucketSuite) TestSlidingWindow() {
	start := time.Now().Truncate(time.Second)
	at := func(offset time.Duration) context.Context {
		return requestcontext.WithTime(context.Background(), start.Add(offset))
	}

	for i := range 2 {
		r, err := s.store.Allow(at(time.Duration(i)*time.Second), "rl:ip:a", 2, time.Minute)
		s.Require().NoError(err)
		s.True(r.Allowed)
	}

	r, err := s.store.Allow(at(5*time.Second), "rl:ip:a", 2, time.Minute)
	s.Require().NoError(err)
	s.False(r.Allowed)
	s.Equal(55, r.RetryAfter)

	r, err = s.store.Allow(at(61*time.Second), "rl:ip:a", 2, time.Minute)
	s.Require().NoError(err)
	s.True(r.Allowed)

	s.Require().NoError(s.store.Reset(context.Background(), "rl:ip:a"))
	r, err = s.store.Allow(at(62*time.Second), "rl:ip:a", 2, time.Minute)
	s.Require().NoError(err)
	s.Equal(1, r.Remaining)
}
