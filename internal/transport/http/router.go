package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bloodconnect/internal/platform/metrics"
	"bloodconnect/pkg/platform/httputil"
	"bloodconnect/pkg/platform/middleware/metadata"
	"bloodconnect/pkg/platform/middleware/request"
	"bloodconnect/pkg/platform/middleware/requesttime"
)

// Module is a feature package that mounts its own routes.
type Module interface {
	Register(r chi.Router)
}

type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Health         *HealthChecker
	RequestTimeout time.Duration
	// RateLimit guards every module route. Nil means no limit.
	RateLimit      func(http.Handler) http.Handler
}

// NewRouter applies the shared middleware chain and mounts every module.
// /metrics and /health sit outside the JSON content-type check.
func NewRouter(cfg RouterConfig, modules ...Module) http.Handler {
	r := chi.NewRouter()

	r.Use(request.RequestID)
	r.Use(request.Recovery(cfg.Logger))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.LatencyMiddleware)
	}
	if cfg.RequestTimeout > 0 {
		r.Use(request.Timeout(cfg.RequestTimeout))
	}

	r.Handle("/metrics", promhttp.Handler())
	if cfg.Health != nil {
		r.Get("/health", cfg.Health.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		if cfg.RateLimit != nil {
			r.Use(cfg.RateLimit)
		}
		r.Use(request.ContentTypeJSON)
		for _, m := range modules {
			m.Register(r)
		}
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: "not_found", ErrorDescription: "route not found"})
	})
	return r
}
