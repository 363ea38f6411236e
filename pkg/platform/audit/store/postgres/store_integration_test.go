//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	audit "bloodconnect/pkg/platform/audit"
	"bloodconnect/pkg/testutil/containers"
)

type AuditPostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *Store
}

func TestAuditPostgresSuite(t *testing.T) {
	suite.Run(t, new(AuditPostgresSuite))
}

func (s *AuditPostgresSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = New(s.postgres.DB)
}

func (s *AuditPostgresSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_events"))
}

func (s *AuditPostgresSuite) TestAppendAndListRecent() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Action: string(audit.EventDonorRegistered), Subject: "d1", Timestamp: base,
	}))
	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Action: string(audit.EventStaffLoginFailed), Subject: "alice", ClientIP: "10.0.0.1",
		Reason: "invalid_credentials", Timestamp: base.Add(time.Second),
	}))

	events, err := s.store.ListRecent(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal("alice", events[0].Subject)
	s.Equal(audit.CategorySecurity, events[0].Category)
	s.Equal("10.0.0.1", events[0].ClientIP)
	s.Equal(audit.CategoryCompliance, events[1].Category)
}
