package store

import (
	"context"
	"slices"
	"sync"

	"bloodconnect/internal/screening/models"
	id "bloodconnect/pkg/domain"
	"bloodconnect/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu         sync.RWMutex
	screenings map[id.ScreeningID]*models.Screening
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{screenings: make(map[id.ScreeningID]*models.Screening)}
}

func (s *InMemoryStore) Insert(_ context.Context, sc *models.Screening) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.screenings[sc.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.screenings[sc.ID] = clone(sc)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, screeningID id.ScreeningID) (*models.Screening, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.screenings[screeningID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(sc), nil
}

func (s *InMemoryStore) List(_ context.Context, offset, limit int) ([]*models.Screening, int, error) {
	all := s.sorted(func(*models.Screening) bool { return true })
	total := len(all)
	if offset >= total {
		return []*models.Screening{}, total, nil
	}
	end := min(offset+limit, total)
	return all[offset:end], total, nil
}

func (s *InMemoryStore) ListByDonor(_ context.Context, donorID id.DonorID) ([]*models.Screening, error) {
	return s.sorted(func(sc *models.Screening) bool { return sc.DonorID == donorID }), nil
}

// sorted returns matching screenings newest first.
func (s *InMemoryStore) sorted(match func(*models.Screening) bool) []*models.Screening {
	s.mu.RLock()
	out := make([]*models.Screening, 0, len(s.screenings))
	for _, sc := range s.screenings {
		if match(sc) {
			out = append(out, clone(sc))
		}
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b *models.Screening) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

func clone(sc *models.Screening) *models.Screening {
	c := *sc
	if sc.DeferralReasonID != nil {
		v := *sc.DeferralReasonID
		c.DeferralReasonID = &v
	}
	if sc.DeferralUntil != nil {
		v := *sc.DeferralUntil
		c.DeferralUntil = &v
	}
	return &c
}
