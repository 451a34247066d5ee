package events

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records ticket events as Prometheus series:
//   - cectoolkit_tickets_processed_total{kind,result}
//   - cectoolkit_ticket_missing_fields{kind}
//   - cectoolkit_ticket_duration_seconds{kind}
//   - cectoolkit_escalation_reasons_total{code}
type Metrics struct {
	processed *prometheus.CounterVec
	missing   *prometheus.HistogramVec
	duration  *prometheus.HistogramVec
	reasons   *prometheus.CounterVec
}

// NewMetrics registers the series with reg. A nil reg uses the default
// registerer, which may only happen once per process.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		processed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cectoolkit_tickets_processed_total",
			Help: "Tickets processed, by kind and result",
		}, []string{"kind", "result"}),
		missing: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cectoolkit_ticket_missing_fields",
			Help:    "Fields rendered with the placeholder per successful ticket",
			Buckets: prometheus.LinearBuckets(0, 1, 14),
		}, []string{"kind"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cectoolkit_ticket_duration_seconds",
			Help:    "Time spent processing one ticket",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"kind"}),
		reasons: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cectoolkit_escalation_reasons_total",
			Help: "Escalation reasons by how they were decided",
		}, []string{"code"}),
	}
}

// Handle implements Handler.
func (m *Metrics) Handle(_ context.Context, e Event) error {
	m.processed.WithLabelValues(e.Kind, e.Result()).Inc()
	m.duration.WithLabelValues(e.Kind).Observe(e.Duration.Seconds())
	if e.Success {
		m.missing.WithLabelValues(e.Kind).Observe(float64(e.Missing))
	}
	if e.ReasonCode != "" {
		m.reasons.WithLabelValues(e.ReasonCode).Inc()
	}
	return nil
}
