package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloodconnect/internal/ratelimit/models"
	"bloodconnect/internal/ratelimit/store/bucket"
	"bloodconnect/pkg/platform/middleware/metadata"
)

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (*models.Result, error) {
	return nil, errors.New("redis down")
}

func newServer(store BucketStore, limit int) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return metadata.ClientMetadata(New(store, limit, time.Minute, nil).RateLimit(ok))
}

func request(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/donors/register", nil)
	req.Header.Set("X-Forwarded-For", ip)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitPerAddress(t *testing.T) {
	h := newServer(bucket.NewInMemoryBucketStore(), 2)

	for range 2 {
		rec := request(h, "203.0.113.7")
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := request(h, "203.0.113.7")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	var body models.ExceededResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "rate_limit_exceeded", body.Error)
	assert.Positive(t, body.RetryAfter)

	rec = request(h, "198.51.100.1")
	assert.Equal(t, http.StatusNoContent, rec.Code, "other addresses keep their own budget")
}

func TestRateLimitFailsOpen(t *testing.T) {
	rec := request(newServer(failingStore{}, 1), "203.0.113.7")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimitDisabledWithZeroLimit(t *testing.T) {
	h := newServer(failingStore{}, 0)
	for range 5 {
		rec := request(h, "203.0.113.7")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}
