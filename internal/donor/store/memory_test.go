package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloodconnect/internal/coupon"
	"bloodconnect/internal/donor/models"
	id "bloodconnect/pkg/domain"
	"bloodconnect/pkg/platform/sentinel"
)

func newDonor(nationalID, code string, createdAt time.Time) *models.Donor {
	return &models.Donor{
		ID:         id.DonorID(uuid.New()),
		FullName:   "Donor " + nationalID,
		Age:        30,
		Gender:     models.GenderFemale,
		Phone:      "0300" + nationalID,
		NationalID: nationalID,
		CouponCode: code,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestInMemoryMaxNumericCodeIgnoresLegacyCodes(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	highest, err := s.MaxNumericCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), highest)

	now := time.Now()
	require.NoError(t, s.Insert(ctx, newDonor("1", "BLOOD2024", now)))
	require.NoError(t, s.Insert(ctx, newDonor("2", "0007", now)))
	require.NoError(t, s.Insert(ctx, newDonor("3", "0001", now)))

	highest, err = s.MaxNumericCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), highest)
}

func TestInMemoryInsertRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	now := time.Now()
	require.NoError(t, s.Insert(ctx, newDonor("A1", "0001", now)))

	err := s.Insert(ctx, newDonor("A2", "0001", now))
	assert.ErrorIs(t, err, coupon.ErrCodeTaken)

	err = s.Insert(ctx, newDonor("A1", "0002", now))
	assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)

	n, _ := s.Count(ctx)
	assert.Equal(t, 1, n)
}

func TestInMemoryFindByCouponCodeIgnoresCase(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	d := newDonor("N1", "GIVE2024", time.Now())
	require.NoError(t, s.Insert(ctx, d))

	found, err := s.FindByCouponCode(ctx, "give2024")
	require.NoError(t, err)
	assert.Equal(t, d.ID, found.ID)

	_, err = s.FindByCouponCode(ctx, "0404")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	for i := range 5 {
		require.NoError(t, s.Insert(ctx, newDonor(string(rune('a'+i)), coupon.Format(int64(i+1)).String(), base.Add(time.Duration(i)*time.Hour))))
	}

	page, total, err := s.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "0005", page[0].CouponCode)
	assert.Equal(t, "0004", page[1].CouponCode)

	page, _, err = s.List(ctx, 4, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "0001", page[0].CouponCode)

	page, _, err = s.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestInMemoryListTieBreaksByNumericCode(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	at := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	for i, code := range []string{"9999", "LEGACY-A", "10000", "0042"} {
		require.NoError(t, s.Insert(ctx, newDonor(string(rune('a'+i)), code, at)))
	}

	page, _, err := s.List(ctx, 0, 10)
	require.NoError(t, err)
	got := make([]string, 0, len(page))
	for _, d := range page {
		got = append(got, d.CouponCode)
	}
	assert.Equal(t, []string{"10000", "9999", "0042", "LEGACY-A"}, got)
}

func TestInMemoryUpdateAndLastDonation(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	d := newDonor("U1", "0001", time.Now())
	require.NoError(t, s.Insert(ctx, d))

	d.Phone = "0999"
	require.NoError(t, s.Update(ctx, d))

	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.SetLastDonationDate(ctx, d.ID, at))

	got, err := s.FindByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "0999", got.Phone)
	require.NotNil(t, got.LastDonationDate)
	assert.True(t, at.Equal(*got.LastDonationDate))

	assert.ErrorIs(t, s.Update(ctx, newDonor("X", "0002", time.Now())), sentinel.ErrNotFound)
	assert.ErrorIs(t, s.SetLastDonationDate(ctx, id.DonorID(uuid.New()), at), sentinel.ErrNotFound)
}

func TestInMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	d := newDonor("C1", "0001", time.Now())
	require.NoError(t, s.Insert(ctx, d))

	got, err := s.FindByID(ctx, d.ID)
	require.NoError(t, err)
	got.FullName = "mutated"

	again, err := s.FindByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.FullName, again.FullName)
}
