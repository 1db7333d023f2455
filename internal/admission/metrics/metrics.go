package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the admission and proxy pipeline.
type Metrics struct {
	AdmissionDecisions *prometheus.CounterVec
	QuotaIncrements    prometheus.Counter
	UpstreamResults    *prometheus.CounterVec
}

// New creates and registers all admission metrics.
func New() *Metrics {
	return &Metrics{
		AdmissionDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "proxygate_admission_decisions_total",
			Help: "Total admission decisions by outcome reason",
		}, []string{"reason"}),
		QuotaIncrements: promauto.NewCounter(prometheus.CounterOpts{
			Name: "proxygate_quota_increments_total",
			Help: "Total free-trial quota increments recorded on upstream success",
		}),
		UpstreamResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "proxygate_upstream_results_total",
			Help: "Total upstream call outcomes by endpoint and result kind",
		}, []string{"endpoint", "result"}),
	}
}

func (m *Metrics) ObserveDecision(reason string) {
	m.AdmissionDecisions.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementQuota() {
	m.QuotaIncrements.Inc()
}

func (m *Metrics) ObserveUpstreamResult(endpoint, result string) {
	m.UpstreamResults.WithLabelValues(endpoint, result).Inc()
}
