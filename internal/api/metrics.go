package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taxportal/filing-engine/internal/domain"
)

// Metrics holds the process counters exposed on /metrics.
type Metrics struct {
	registry     *prometheus.Registry
	calculations *prometheus.CounterVec
	transitions  *prometheus.CounterVec
}

// NewMetrics registers the counters on a private registry so tests and
// multiple servers in one process do not collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	calculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "taxfiler_calculations_total",
		Help: "Stand-alone tax computations by kind and outcome.",
	}, []string{"kind", "outcome"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "taxfiler_filing_transitions_total",
		Help: "Filing status transitions attempted, by kind, from, to and outcome.",
	}, []string{"kind", "from", "to", "outcome"})

	reg.MustRegister(calculations, transitions)
	return &Metrics{registry: reg, calculations: calculations, transitions: transitions}
}

// ObserveCalculation counts one computation. outcome is "ok" or the error code.
func (m *Metrics) ObserveCalculation(kind domain.Kind, outcome string) {
	m.calculations.WithLabelValues(string(kind), outcome).Inc()
}

// ObserveTransition implements service.TransitionRecorder.
func (m *Metrics) ObserveTransition(kind domain.Kind, from, to domain.Status, outcome string) {
	m.transitions.WithLabelValues(string(kind), string(from), string(to), outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
