package httptransport

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"bloodconnect/pkg/platform/httputil"
)

// CheckFunc probes one dependency.
type CheckFunc func(ctx context.Context) error

// HealthChecker runs every registered probe in parallel. Only critical probes
// turn the overall status unhealthy; the rest report as degraded.
type HealthChecker struct {
	timeout  time.Duration
	checks   map[string]CheckFunc
	critical map[string]bool
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func NewHealthChecker(timeout time.Duration) *HealthChecker {
	return &HealthChecker{timeout: timeout, checks: map[string]CheckFunc{}, critical: map[string]bool{}}
}

func (h *HealthChecker) Add(name string, critical bool, fn CheckFunc) {
	h.checks[name] = fn
	h.critical[name] = critical
}

func (h *HealthChecker) Check(ctx context.Context) HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]string, len(h.checks))
	)
	g, gctx := errgroup.WithContext(ctx)
	for name, fn := range h.checks {
		g.Go(func() error {
			status := "ok"
			if err := fn(gctx); err != nil {
				status = "down: " + err.Error()
			}
			mu.Lock()
			results[name] = status
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	overall := "ok"
	for name, status := range results {
		if status == "ok" {
			continue
		}
		if h.critical[name] {
			overall = "unhealthy"
			break
		}
		overall = "degraded"
	}
	return HealthResponse{Status: overall, Checks: results}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h.Check(r.Context())
	status := http.StatusOK
	if resp.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, resp)
}
