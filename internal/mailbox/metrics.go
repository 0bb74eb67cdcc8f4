package mailbox

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records provider call counts and latencies. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tempmail",
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Outbound calls to the mail provider by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tempmail",
			Subsystem: "provider",
			Name:      "request_duration_seconds",
			Help:      "Latency of outbound calls to the mail provider.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
	}

	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) observe(operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.requests.WithLabelValues(operation, outcome(err)).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
