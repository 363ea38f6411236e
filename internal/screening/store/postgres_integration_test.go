//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	branchModels "bloodconnect/internal/branch/models"
	branchStore "bloodconnect/internal/branch/store"
	deferralStore "bloodconnect/internal/deferral/store"
	donorModels "bloodconnect/internal/donor/models"
	donorStore "bloodconnect/internal/donor/store"
	"bloodconnect/internal/screening/models"
	"bloodconnect/internal/screening/service"
	"bloodconnect/internal/screening/store"
	id "bloodconnect/pkg/domain"
	dErrors "bloodconnect/pkg/domain-errors"
	"bloodconnect/pkg/platform/sentinel"
	"bloodconnect/pkg/platform/tx"
	"bloodconnect/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	donors   *donorStore.PostgresStore
	svc      *service.Service
	donorID  id.DonorID
	branchID id.BranchID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.donors = donorStore.NewPostgres(s.postgres.DB)
	branches := branchStore.NewPostgres(s.postgres.DB)
	s.svc = service.New(s.store, s.donors, branches, deferralStore.NewPostgres(s.postgres.DB),
		tx.NewSQLRunner(s.postgres.DB, 0))
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "screenings", "donors", "branches"))

	now := time.Now().UTC().Truncate(time.Microsecond)
	donor, err := donorModels.NewDonor(id.DonorID(uuid.New()), "61101-1111111-1", donorModels.Profile{
		FullName: "Usman Tariq", Age: 30, Gender: donorModels.GenderMale, Phone: "03451112222",
	}, now)
	s.Require().NoError(err)
	donor.CouponCode = "0001"
	s.Require().NoError(s.donors.Insert(ctx, donor))
	s.donorID = donor.ID

	branch, err := branchModels.NewBranch(id.BranchID(uuid.New()), "Gulberg", "Main Boulevard", true, now)
	s.Require().NoError(err)
	s.Require().NoError(branchStore.NewPostgres(s.postgres.DB).Insert(ctx, branch))
	s.branchID = branch.ID
}

func (s *PostgresStoreSuite) TestRoundTripAndOrdering() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)
	until := base.AddDate(0, 0, 30)
	for i := range 3 {
		sc := &models.Screening{
			ID:                id.ScreeningID(uuid.New()),
			DonorID:           s.donorID,
			BranchID:          s.branchID,
			StaffID:           "desk",
			Vitals:            models.Vitals{BpSystolic: 110 + i, TempC: 36.9, WeightKg: 72.4, HbGdl: 14.1},
			EligibilityStatus: models.EligibilityDeferred,
			DeferralUntil:     &until,
			CreatedAt:         base.Add(time.Duration(i) * time.Minute),
		}
		s.Require().NoError(s.store.Insert(ctx, sc))
	}

	list, err := s.store.ListByDonor(ctx, s.donorID)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal(112, list[0].Vitals.BpSystolic)
	s.InDelta(72.4, list[0].Vitals.WeightKg, 0.0001)
	s.Require().NotNil(list[0].DeferralUntil)
	s.True(until.Equal(*list[0].DeferralUntil))
	s.Nil(list[0].DeferralReasonID)

	page, total, err := s.store.List(ctx, 1, 1)
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Equal(111, page[0].Vitals.BpSystolic)

	_, err = s.store.FindByID(ctx, id.ScreeningID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestEligibleScreeningStampsDonorInTransaction() {
	ctx := context.Background()
	sc, err := s.svc.Create(ctx, service.CreateCommand{
		DonorID: s.donorID, BranchID: s.branchID, EligibilityStatus: "eligible",
	})
	s.Require().NoError(err)

	donor, err := s.donors.FindByID(ctx, s.donorID)
	s.Require().NoError(err)
	s.Require().NotNil(donor.LastDonationDate)
	s.WithinDuration(sc.CreatedAt, *donor.LastDonationDate, time.Millisecond)
}

func (s *PostgresStoreSuite) TestUnknownReasonLeavesNoRow() {
	ctx := context.Background()
	unknown := id.DeferralReasonID(uuid.New())
	_, err := s.svc.Create(ctx, service.CreateCommand{
		DonorID: s.donorID, BranchID: s.branchID, EligibilityStatus: "deferred", DeferralReasonID: &unknown,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	list, err := s.store.ListByDonor(ctx, s.donorID)
	s.Require().NoError(err)
	s.Empty(list)
}
