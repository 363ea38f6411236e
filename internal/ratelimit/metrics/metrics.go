package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts rate limit decisions. A nil *Metrics records nothing.
type Metrics struct {
	Rejected    prometheus.Counter
	StoreErrors prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Rejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bloodconnect_ratelimit_rejected_total",
			Help: "Requests rejected with 429 by the per-IP limiter",
		}),
		StoreErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bloodconnect_ratelimit_store_errors_total",
			Help: "Limiter checks that failed open because the bucket store errored",
		}),
	}
}

func (m *Metrics) IncrementRejected() {
	if m == nil {
		return
	}
	m.Rejected.Inc()
}

func (m *Metrics) IncrementStoreErrors() {
	if m == nil {
		return
	}
	m.StoreErrors.Inc()
}
