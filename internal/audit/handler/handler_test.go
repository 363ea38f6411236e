package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloodconnect/pkg/platform/audit"
	"bloodconnect/pkg/platform/audit/publisher"
	auditmemory "bloodconnect/pkg/platform/audit/store/memory"
	"bloodconnect/pkg/testutil"
)

func TestRecent(t *testing.T) {
	pub := publisher.NewPublisher(auditmemory.NewInMemoryStore())
	base := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	for i, action := range []audit.AuditEvent{audit.EventDonorRegistered, audit.EventScreeningRecorded, audit.EventStaffLogin} {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{Action: string(action), Subject: "s", Timestamp: base.Add(time.Duration(i) * time.Minute)}))
	}

	r := chi.NewRouter()
	New(pub, slog.New(slog.NewTextHandler(io.Discard, nil)), nil).Register(r)

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodGet, "/api/audit/recent?limit=2", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	events := *testutil.UnmarshalResponse[[]audit.Event](t, rr)
	require.Len(t, events, 2)
	assert.Equal(t, string(audit.EventStaffLogin), events[0].Action)
	assert.Equal(t, audit.CategorySecurity, events[0].Category)

	rr = testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodGet, "/api/audit/recent?limit=0", nil))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
}
