//go:build integration

package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"bloodconnect/internal/coupon"
	"bloodconnect/internal/donor/models"
	"bloodconnect/internal/donor/store"
	id "bloodconnect/pkg/domain"
	"bloodconnect/pkg/platform/sentinel"
	"bloodconnect/pkg/platform/tx"
	"bloodconnect/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
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
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "screenings", "donors"))
}

func newTestDonor(nationalID, code string) *models.Donor {
	now := time.Now().UTC().Truncate(time.Microsecond)
	bg := models.BloodGroup("O+")
	return &models.Donor{
		ID:         id.DonorID(uuid.New()),
		FullName:   "Test Donor",
		Age:        28,
		Gender:     models.GenderMale,
		BloodGroup: &bg,
		Phone:      "03001234567",
		NationalID: nationalID,
		CouponCode: code,
		Address:    models.Address{City: "Lahore", Country: "Pakistan"},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *PostgresStoreSuite) TestMaxNumericCodeSkipsLegacyCodes() {
	ctx := context.Background()
	highest, err := s.store.MaxNumericCode(ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), highest)

	s.Require().NoError(s.store.Insert(ctx, newTestDonor("n1", "BLOOD2024")))
	s.Require().NoError(s.store.Insert(ctx, newTestDonor("n2", "0099")))
	s.Require().NoError(s.store.Insert(ctx, newTestDonor("n3", "0002")))

	highest, err = s.store.MaxNumericCode(ctx)
	s.Require().NoError(err)
	s.Equal(int64(99), highest)
}

func (s *PostgresStoreSuite) TestInsertMapsUniqueViolations() {
	ctx := context.Background()
	s.Require().NoError(s.store.Insert(ctx, newTestDonor("dup", "0001")))

	err := s.store.Insert(ctx, newTestDonor("other", "0001"))
	s.ErrorIs(err, coupon.ErrCodeTaken)

	err = s.store.Insert(ctx, newTestDonor("dup", "0002"))
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *PostgresStoreSuite) TestRoundTripAndCaseInsensitiveCoupon() {
	ctx := context.Background()
	d := newTestDonor("rt", "GIVE2024")
	district := "Central"
	d.District = &district
	s.Require().NoError(s.store.Insert(ctx, d))

	got, err := s.store.FindByCouponCode(ctx, "give2024")
	s.Require().NoError(err)
	s.Equal(d.ID, got.ID)
	s.Require().NotNil(got.BloodGroup)
	s.Equal(models.BloodGroup("O+"), *got.BloodGroup)
	s.Require().NotNil(got.District)
	s.Equal("Central", *got.District)
	s.Nil(got.LastDonationDate)

	at := time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.store.SetLastDonationDate(ctx, d.ID, at))
	got, err = s.store.FindByID(ctx, d.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.LastDonationDate)
	s.True(at.Equal(*got.LastDonationDate))

	_, err = s.store.FindByID(ctx, id.DonorID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentAllocationsAreDistinct runs registrations from many goroutines
// through the allocator with real transactions and the unique index.
func (s *PostgresStoreSuite) TestConcurrentAllocationsAreDistinct() {
	ctx := context.Background()
	const n = 20

	allocator, err := coupon.NewAllocator(s.store, tx.NewSQLRunner(s.postgres.DB, 5*time.Second),
		coupon.WithMaxAttempts(n))
	s.Require().NoError(err)

	var wg sync.WaitGroup
	codes := make(chan coupon.Code, n)
	errs := make(chan error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d := newTestDonor(fmt.Sprintf("conc-%d", i), "")
			code, err := allocator.Allocate(ctx, func(txCtx context.Context, code coupon.Code) error {
				d.CouponCode = code.String()
				return s.store.Insert(txCtx, d)
			})
			if err != nil {
				errs <- err
				return
			}
			codes <- code
		}()
	}
	wg.Wait()
	close(codes)
	close(errs)

	for err := range errs {
		s.Require().NoError(err)
	}
	seen := map[coupon.Code]bool{}
	for c := range codes {
		s.False(seen[c], "duplicate code %s", c)
		seen[c] = true
	}
	s.Len(seen, n)

	count, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(n, count)

	highest, err := s.store.MaxNumericCode(ctx)
	s.Require().NoError(err)
	s.Equal(int64(n), highest, "no gaps once every racer has committed")
}
