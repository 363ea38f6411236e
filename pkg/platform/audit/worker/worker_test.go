package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "bloodconnect/pkg/platform/audit"
)

type flakyStore struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *flakyStore) Append(_ context.Context, e audit.Event) error {
	if e.Subject == "bad" {
		return errors.New("sink down")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *flakyStore) ListRecent(context.Context, int) ([]audit.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Event(nil), s.events...), nil
}

func TestWorkerContinuesAfterFailedAppend(t *testing.T) {
	store := &flakyStore{}
	inbox := make(chan audit.Event, 3)
	inbox <- audit.Event{Subject: "a", Action: "donor_registered"}
	inbox <- audit.Event{Subject: "bad", Action: "donor_registered"}
	inbox <- audit.Event{Subject: "b", Action: "donor_registered"}
	close(inbox)

	w := NewWorker(store, inbox, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, w.Run(context.Background()))

	events, _ := store.ListRecent(context.Background(), 10)
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].Subject)
	assert.Equal(t, "b", events[1].Subject)
}

func TestWorkerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := NewWorker(&flakyStore{}, make(chan audit.Event), nil)
	assert.ErrorIs(t, w.Run(ctx), context.Canceled)
}
