// Package metrics provides observability for the estate module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the estate module's Prometheus metrics.
type Metrics struct {
	// Calculations by operation (iht, gift_analysis, sa_duty).
	Calculations *prometheus.CounterVec

	// Calculation latency by operation.
	CalculateLatency *prometheus.HistogramVec
}

// New creates and registers the estate metrics.
func New() *Metrics {
	return &Metrics{
		Calculations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fiducia_estate_calculations_total",
			Help: "Estate calculations by operation",
		}, []string{"operation"}),

		CalculateLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fiducia_estate_calculate_duration_seconds",
			Help:    "Duration of estate calculations by operation",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}, []string{"operation"}),
	}
}

// ObserveCalculation records one completed calculation.
func (m *Metrics) ObserveCalculation(operation string, d time.Duration) {
	if m != nil {
		m.Calculations.WithLabelValues(operation).Inc()
		m.CalculateLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}
