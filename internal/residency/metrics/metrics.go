// Package metrics provides observability for the residency module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the residency module's Prometheus metrics.
type Metrics struct {
	// Verdicts by jurisdiction and outcome.
	Verdicts *prometheus.CounterVec

	// Evaluation latency, both jurisdictions.
	EvaluateLatency prometheus.Histogram
}

// New creates and registers the residency metrics.
func New() *Metrics {
	return &Metrics{
		Verdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fiducia_residency_verdicts_total",
			Help: "Residency verdicts by jurisdiction and outcome",
		}, []string{"jurisdiction", "verdict"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fiducia_residency_evaluate_duration_seconds",
			Help:    "Duration of residency evaluations",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
	}
}

// IncrementVerdict records one determination outcome.
func (m *Metrics) IncrementVerdict(jurisdiction, verdict string) {
	if m != nil {
		m.Verdicts.WithLabelValues(jurisdiction, verdict).Inc()
	}
}

// ObserveEvaluateLatency records an evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
