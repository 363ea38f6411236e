package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for donor registration. A nil *Metrics
// records nothing.
type Metrics struct {
	Registrations        prometheus.Counter
	RegistrationRejected *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Registrations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bloodconnect_donor_registrations_total",
			Help: "Total number of donors registered",
		}),
		RegistrationRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodconnect_donor_registrations_rejected_total",
			Help: "Registrations rejected after validation, by reason",
		}, []string{"reason"}),
	}
}

func (m *Metrics) IncrementRegistrations() {
	if m == nil {
		return
	}
	m.Registrations.Inc()
}

func (m *Metrics) IncrementRegistrationRejected(reason string) {
	if m == nil {
		return
	}
	m.RegistrationRejected.WithLabelValues(reason).Inc()
}
