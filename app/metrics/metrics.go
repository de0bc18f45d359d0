// Package metrics holds the Prometheus instruments for the reconciliation
// engine.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// EngineMetrics implements the round service's Metrics interface.
type EngineMetrics struct {
	sweptEntries prometheus.Counter
	promotions   prometheus.Counter
	proposals    *prometheus.CounterVec
}

// New registers and returns the engine metrics.
func New(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		sweptEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foursome_swept_entries_total",
			Help: "Expired tentative entries retired by the sweeper.",
		}),
		promotions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foursome_promotions_total",
			Help: "Waitlist entries promoted to confirmed.",
		}),
		proposals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foursome_round_proposals_total",
			Help: "Round proposals by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.sweptEntries, m.promotions, m.proposals)
	return m
}

func (m *EngineMetrics) RecordSweptEntries(n int) {
	m.sweptEntries.Add(float64(n))
}

func (m *EngineMetrics) RecordPromotion() {
	m.promotions.Inc()
}

func (m *EngineMetrics) RecordProposal(created bool) {
	result := "duplicate"
	if created {
		result = "created"
	}
	m.proposals.WithLabelValues(result).Inc()
}
