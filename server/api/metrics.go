package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Verification outcomes
const (
	OutcomeEligible   = "eligible"
	OutcomeIneligible = "ineligible"
	OutcomeError      = "error"
)

type Metrics struct {
	Verifications  *prometheus.CounterVec
	OracleDuration prometheus.Histogram
}

// NewMetrics registers the API metrics with reg. A nil reg keeps the
// metrics unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agegate_verifications_total",
			Help: "Total number of age verifications by outcome",
		}, []string{"outcome"}),
		OracleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "agegate_oracle_duration_seconds",
			Help:    "Duration of proof oracle calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

func (m *Metrics) IncrementVerification(outcome string) {
	m.Verifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveOracle(start time.Time) {
	m.OracleDuration.Observe(time.Since(start).Seconds())
}
