package lockout

import (
	"context"
	"sync"
	"time"

	"bloodconnect/internal/auth/lockout"
)

type InMemoryStore struct {
	mu      sync.Mutex
	records map[string]*lockout.Record
}

func New() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]*lockout.Record)}
}

// Get returns nil without error for an unknown identifier.
func (s *InMemoryStore) Get(_ context.Context, identifier string) (*lockout.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[identifier]
	if !ok {
		return nil, nil
	}
	return clone(r), nil
}

func (s *InMemoryStore) RecordFailure(_ context.Context, identifier string, now, windowCutoff, dayCutoff time.Time) (*lockout.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[identifier]
	if !ok {
		r = &lockout.Record{Identifier: identifier}
		s.records[identifier] = r
	}
	if r.LastFailureAt.Before(windowCutoff) {
		r.FailureCount = 0
	}
	if r.LastFailureAt.Before(dayCutoff) {
		r.DailyFailures = 0
	}
	r.FailureCount++
	r.DailyFailures++
	r.LastFailureAt = now
	return clone(r), nil
}

func (s *InMemoryStore) SetLockedUntil(_ context.Context, identifier string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.records[identifier]; ok {
		r.LockedUntil = &until
	}
	return nil
}

func (s *InMemoryStore) ClearWindow(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.records[identifier]; ok {
		r.FailureCount = 0
	}
	return nil
}

func clone(r *lockout.Record) *lockout.Record {
	c := *r
	if r.LockedUntil != nil {
		t := *r.LockedUntil
		c.LockedUntil = &t
	}
	return &c
}
