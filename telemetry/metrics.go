package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records adapter invocations in a dedicated prometheus registry.
type Metrics struct {
	registry    *prometheus.Registry
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates a new metrics recorder.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appshim_invocations_total",
				Help: "Total number of invocations, by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "appshim_app_duration_seconds",
				Help:    "Duration of requests delegated to the application.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"code"},
		),
	}

	m.registry.MustRegister(m.invocations, m.duration)

	return m
}

// Invocation counts a handled invocation.
func (m *Metrics) Invocation(outcome string) {
	m.invocations.WithLabelValues(outcome).Inc()
}

// Delegation observes the duration of a delegated request.
func (m *Metrics) Delegation(status int, elapsed time.Duration) {
	m.duration.WithLabelValues(strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the prometheus metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
