package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloodconnect/internal/platform/config"
	"bloodconnect/pkg/platform/audit"
	"bloodconnect/pkg/testutil"
)

// newApp registers process-wide Prometheus collectors, so it is built once.
func TestInMemoryWiring(t *testing.T) {
	cfg := config.Server{
		Environment: "test",
		SeedData:    true,
		JWT: config.JWTConfig{
			SigningKey: "wiring-test-key",
			Issuer:     "bloodconnect",
			Audience:   "bloodconnect-staff",
			TTL:        time.Hour,
		},
		Coupon:  config.CouponConfig{MaxAttempts: 5},
		Printer: config.PrinterConfig{Name: "receipt-printer", Timeout: time.Second, Location: "Asia/Karachi"},
	}
	a, err := newApp(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	h := a.handler

	testutil.Given(t, "a server with in-memory stores and seed data", func(t *testing.T) {
		testutil.Then(t, "health reports ok", func(t *testing.T) {
			rr := testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodGet, "/health", nil))
			assert.Equal(t, http.StatusOK, rr.Code)
		})

		testutil.Then(t, "the seeded catalogue is public", func(t *testing.T) {
			rr := testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodGet, "/api/branches", nil))
			require.Equal(t, http.StatusOK, rr.Code)
			assert.Len(t, *testutil.UnmarshalResponse[[]map[string]any](t, rr), 4)

			rr = testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodGet, "/api/deferral-reasons", nil))
			require.Equal(t, http.StatusOK, rr.Code)
			assert.Len(t, *testutil.UnmarshalResponse[[]map[string]any](t, rr), 7)
		})

		testutil.When(t, "a walk-in donor registers", func(t *testing.T) {
			rr := testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodPost, "/api/donors", map[string]any{
				"fullName":   "Ayesha Malik",
				"age":        27,
				"gender":     "female",
				"phone":      "03211234567",
				"nationalId": "35202-1111111-1",
				"address":    map[string]any{"city": "Lahore", "country": "Pakistan"},
			}))

			testutil.Then(t, "the first numeric coupon is issued past the legacy codes", func(t *testing.T) {
				require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
				resp := testutil.UnmarshalResponse[map[string]any](t, rr)
				assert.Equal(t, "0001", (*resp)["couponCode"])
			})
		})

		testutil.When(t, "the first staff account registers", func(t *testing.T) {
			rr := testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/register", map[string]any{
				"username": "coordinator",
				"email":    "coordinator@bloodconnect.test",
				"password": "coordinator-password",
			}))
			require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
			resp := testutil.UnmarshalResponse[map[string]any](t, rr)
			token, _ := (*resp)["token"].(string)
			require.NotEmpty(t, token)

			testutil.Then(t, "it can read the audit trail", func(t *testing.T) {
				// The publisher writes asynchronously.
				assert.Eventually(t, func() bool {
					req := testutil.NewJSONRequest(t, http.MethodGet, "/api/audit/recent?limit=10", nil)
					req.Header.Set("Authorization", "Bearer "+token)
					rr := testutil.DoRequest(h, req)
					if rr.Code != http.StatusOK {
						return false
					}
					var events []audit.Event
					if err := json.Unmarshal(rr.Body.Bytes(), &events); err != nil {
						return false
					}
					for _, e := range events {
						if e.Action == string(audit.EventDonorRegistered) {
							return true
						}
					}
					return false
				}, 2*time.Second, 20*time.Millisecond)
			})
		})

		testutil.Then(t, "the printer reports unavailable when none is configured", func(t *testing.T) {
			rr := testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodGet, "/api/printer/health", nil))
			resp := testutil.UnmarshalResponse[map[string]any](t, rr)
			assert.Equal(t, "unavailable", (*resp)["status"])
		})
	})
}
