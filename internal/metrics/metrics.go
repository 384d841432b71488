package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeVerifiedAuthentic  = "verified_authentic"
	OutcomeInspectionRequired = "inspection_required"
	OutcomeValidationError    = "validation_error"
	OutcomeEngineError        = "engine_error"
)

// Metrics owns its registry so tests can create as many as they like.
type Metrics struct {
	registry       *prometheus.Registry
	verifications  *prometheus.CounterVec
	renderFailures prometheus.Counter
	engineDuration prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bootcheck_verifications_total",
			Help: "Verification actions by outcome.",
		}, []string{"outcome"}),
		renderFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bootcheck_render_failures_total",
			Help: "PDF documents that could not be produced.",
		}),
		engineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bootcheck_engine_duration_seconds",
			Help:    "Wall-clock time of engine requests.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		}),
	}
	m.registry.MustRegister(m.verifications, m.renderFailures, m.engineDuration)
	return m
}

func (m *Metrics) ObserveOutcome(outcome string) {
	m.verifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveEngine(d time.Duration) {
	m.engineDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveRenderFailure() {
	m.renderFailures.Inc()
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
