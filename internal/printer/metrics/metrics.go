package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts print jobs. A nil *Metrics records nothing.
type Metrics struct {
	Jobs        *prometheus.CounterVec
	JobDuration prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		Jobs: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodconnect_print_jobs_total",
			Help: "Print jobs sent to the receipt printer, by kind and result",
		}, []string{"kind", "result"}),
		JobDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bloodconnect_print_job_duration_seconds",
			Help:    "Time to deliver a print job to the printer",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
		}),
	}
}

func (m *Metrics) ObserveJob(kind string, seconds float64, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Jobs.WithLabelValues(kind, result).Inc()
	m.JobDuration.Observe(seconds)
}
