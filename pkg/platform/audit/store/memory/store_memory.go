package memory

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	audit "bloodconnect/pkg/platform/audit"
)

// InMemoryStore keeps events in process and, when a logger is attached, writes
// each one to the structured log so the trail survives in log shipping.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
	logger *slog.Logger
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// NewLoggingStore is an InMemoryStore that also logs every appended event.
func NewLoggingStore(logger *slog.Logger) *InMemoryStore {
	return &InMemoryStore{logger: logger}
}

func (s *InMemoryStore) Append(ctx context.Context, event audit.Event) error {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.InfoContext(ctx, "audit",
			"category", event.Category,
			"action", event.Action,
			"subject", event.Subject,
			"actor_id", event.ActorID,
			"reason", event.Reason,
			"request_id", event.RequestID,
			"client_ip", event.ClientIP,
			"occurred_at", event.Timestamp,
		)
	}
	return nil
}

// ListRecent returns up to limit events, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	out := slices.Clone(s.events)
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b audit.Event) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
