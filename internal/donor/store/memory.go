package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"bloodconnect/internal/coupon"
	"bloodconnect/internal/donor/models"
	id "bloodconnect/pkg/domain"
	"bloodconnect/pkg/platform/sentinel"
)

// InMemoryStore keeps donors in process. Insert checks coupon and national ID
// uniqueness under the store mutex, which gives the allocator the same
// duplicate-rejection contract as the Postgres unique indexes.
type InMemoryStore struct {
	mu     sync.RWMutex
	donors map[id.DonorID]*models.Donor
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{donors: make(map[id.DonorID]*models.Donor)}
}

func (s *InMemoryStore) MaxNumericCode(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var highest int64
	for _, d := range s.donors {
		if n, ok := coupon.ParseNumeric(d.CouponCode); ok && n > highest {
			highest = n
		}
	}
	return highest, nil
}

func (s *InMemoryStore) Insert(_ context.Context, donor *models.Donor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.donors {
		if strings.EqualFold(existing.CouponCode, donor.CouponCode) {
			return fmt.Errorf("insert donor with coupon %s: %w", donor.CouponCode, coupon.ErrCodeTaken)
		}
		if existing.NationalID == donor.NationalID {
			return fmt.Errorf("insert donor: national id %w", sentinel.ErrAlreadyUsed)
		}
	}
	s.donors[donor.ID] = clone(donor)
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, donor *models.Donor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.donors[donor.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.donors[donor.ID] = clone(donor)
	return nil
}

// SetLastDonationDate records the date of the donor's latest eligible screening.
func (s *InMemoryStore) SetLastDonationDate(_ context.Context, donorID id.DonorID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donors[donorID]
	if !ok {
		return sentinel.ErrNotFound
	}
	d.LastDonationDate = &at
	d.UpdatedAt = at
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, donorID id.DonorID) (*models.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.donors[donorID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(d), nil
}

func (s *InMemoryStore) FindByCouponCode(_ context.Context, code string) (*models.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.donors {
		if strings.EqualFold(d.CouponCode, code) {
			return clone(d), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ExistsByNationalID(_ context.Context, nationalID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.donors {
		if d.NationalID == nationalID {
			return true, nil
		}
	}
	return false, nil
}

// List returns donors newest first.
func (s *InMemoryStore) List(_ context.Context, offset, limit int) ([]*models.Donor, int, error) {
	s.mu.RLock()
	all := make([]*models.Donor, 0, len(s.donors))
	for _, d := range s.donors {
		all = append(all, clone(d))
	}
	s.mu.RUnlock()

	slices.SortFunc(all, func(a, b *models.Donor) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareCodes(b.CouponCode, a.CouponCode)
	})
	total := len(all)
	if offset >= total {
		return []*models.Donor{}, total, nil
	}
	end := min(offset+limit, total)
	return all[offset:end], total, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.donors), nil
}

// compareCodes orders numeric codes above non-numeric ones and numeric codes
// by value, so 10000 follows 9999. It matches the Postgres list ordering.
func compareCodes(a, b string) int {
	an, bn := isDigits(a), isDigits(b)
	switch {
	case an && !bn:
		return 1
	case !an && bn:
		return -1
	}
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func clone(d *models.Donor) *models.Donor {
	c := *d
	return &c
}
