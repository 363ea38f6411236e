package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for coupon allocation. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	Allocations        prometheus.Counter
	Retries            prometheus.Counter
	Conflicts          prometheus.Counter
	AllocationDuration prometheus.Histogram
	HighestIssued      prometheus.Gauge
}

// New creates and registers coupon allocation metrics.
func New() *Metrics {
	return &Metrics{
		Allocations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bloodconnect_coupon_allocations_total",
			Help: "Total number of coupon codes committed",
		}),
		Retries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bloodconnect_coupon_allocation_retries_total",
			Help: "Total number of allocation attempts lost to a concurrent registration",
		}),
		Conflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bloodconnect_coupon_allocation_conflicts_total",
			Help: "Total number of allocations that exhausted their retry budget",
		}),
		AllocationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bloodconnect_coupon_allocation_duration_seconds",
			Help:    "Time to allocate and commit a coupon code, including retries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		HighestIssued: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "bloodconnect_coupon_highest_issued",
			Help: "Numeric value of the most recently committed coupon code",
		}),
	}
}

func (m *Metrics) IncrementAllocations(value int64) {
	if m == nil {
		return
	}
	m.Allocations.Inc()
	m.HighestIssued.Set(float64(value))
}

func (m *Metrics) IncrementRetries() {
	if m == nil {
		return
	}
	m.Retries.Inc()
}

func (m *Metrics) IncrementConflicts() {
	if m == nil {
		return
	}
	m.Conflicts.Inc()
}

func (m *Metrics) ObserveAllocationDuration(start time.Time) {
	if m == nil {
		return
	}
	m.AllocationDuration.Observe(time.Since(start).Seconds())
}
