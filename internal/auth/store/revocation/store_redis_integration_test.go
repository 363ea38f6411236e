//go:build integration

package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"bloodconnect/pkg/testutil/containers"
)

type RedisTRLSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	trl   *RedisTRL
}

func TestRedisTRLSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisTRLSuite))
}

func (s *RedisTRLSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.trl = NewRedisTRL(s.redis.Client)
}

func (s *RedisTRLSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisTRLSuite) TestRevokeAndCheck() {
	ctx := context.Background()
	s.Require().NoError(s.trl.RevokeToken(ctx, "jti-a", time.Minute))

	revoked, err := s.trl.IsTokenRevoked(ctx, "jti-a")
	s.Require().NoError(err)
	s.True(revoked)

	revoked, err = s.trl.IsTokenRevoked(ctx, "jti-b")
	s.Require().NoError(err)
	s.False(revoked)

	ttl, err := s.redis.Client.TTL(ctx, revokedTokenKeyPrefix+"jti-a").Result()
	s.Require().NoError(err)
	s.Greater(ttl, 50*time.Second)
}

func (s *RedisTRLSuite) TestEntryExpires() {
	ctx := context.Background()
	s.Require().NoError(s.trl.RevokeToken(ctx, "jti-short", 1100*time.Millisecond))
	s.Eventually(func() bool {
		revoked, err := s.trl.IsTokenRevoked(ctx, "jti-short")
		return err == nil && !revoked
	}, 5*time.Second, 200*time.Millisecond)
}
