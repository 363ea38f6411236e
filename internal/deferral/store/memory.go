package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"bloodconnect/internal/deferral/models"
	id "bloodconnect/pkg/domain"
	"bloodconnect/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	reasons map[id.DeferralReasonID]*models.DeferralReason
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{reasons: make(map[id.DeferralReasonID]*models.DeferralReason)}
}

func (s *InMemoryStore) Insert(_ context.Context, r *models.DeferralReason) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reasons {
		if existing.ID == r.ID || existing.Code == r.Code {
			return sentinel.ErrAlreadyUsed
		}
	}
	c := *r
	s.reasons[r.ID] = &c
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, reasonID id.DeferralReasonID) (*models.DeferralReason, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reasons[reasonID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *r
	return &c, nil
}

// List returns every reason ordered by category, then label.
func (s *InMemoryStore) List(_ context.Context) ([]*models.DeferralReason, error) {
	s.mu.RLock()
	out := make([]*models.DeferralReason, 0, len(s.reasons))
	for _, r := range s.reasons {
		c := *r
		out = append(out, &c)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b *models.DeferralReason) int {
		if c := strings.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return strings.Compare(a.Label, b.Label)
	})
	return out, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reasons), nil
}
