package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"bloodconnect/internal/branch/models"
	id "bloodconnect/pkg/domain"
	"bloodconnect/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	branches map[id.BranchID]*models.Branch
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{branches: make(map[id.BranchID]*models.Branch)}
}

func (s *InMemoryStore) Insert(_ context.Context, b *models.Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.branches[b.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	c := *b
	s.branches[b.ID] = &c
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, b *models.Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.branches[b.ID]; !ok {
		return sentinel.ErrNotFound
	}
	c := *b
	s.branches[b.ID] = &c
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, branchID id.BranchID) (*models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.branches[branchID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *b
	return &c, nil
}

// ListActive returns active branches ordered by name.
func (s *InMemoryStore) ListActive(_ context.Context) ([]*models.Branch, error) {
	s.mu.RLock()
	out := make([]*models.Branch, 0, len(s.branches))
	for _, b := range s.branches {
		if b.IsActive {
			c := *b
			out = append(out, &c)
		}
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b *models.Branch) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.branches), nil
}
