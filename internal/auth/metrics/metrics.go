package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for staff authentication. A nil *Metrics
// records nothing.
type Metrics struct {
	Logins        prometheus.Counter
	LoginFailures *prometheus.CounterVec
	Lockouts      prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Logins: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bloodconnect_auth_logins_total",
			Help: "Successful staff logins",
		}),
		LoginFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodconnect_auth_login_failures_total",
			Help: "Failed staff logins, by reason",
		}, []string{"reason"}),
		Lockouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bloodconnect_auth_lockouts_total",
			Help: "Hard locks applied after repeated login failures",
		}),
	}
}

func (m *Metrics) IncrementLogins() {
	if m == nil {
		return
	}
	m.Logins.Inc()
}

func (m *Metrics) IncrementLoginFailure(reason string) {
	if m == nil {
		return
	}
	m.LoginFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementLockouts() {
	if m == nil {
		return
	}
	m.Lockouts.Inc()
}
