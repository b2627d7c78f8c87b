// Package telemetry wires Prometheus metrics and OpenTelemetry tracing.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "helmholtz"

// Stats holds the process metrics on a private registry, so several
// instances (one per test, say) never collide.
type Stats struct {
	registry *prometheus.Registry

	starts        *prometheus.CounterVec
	startDuration prometheus.Histogram
	evaluations   prometheus.Counter
	simulations   *prometheus.CounterVec
	simDuration   prometheus.Histogram
	requests      *prometheus.CounterVec
}

// NewStats registers all collectors on a fresh registry.
func NewStats() *Stats {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Stats{
		registry: reg,
		starts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "starts_total",
			Help:      "Local searches finished, by outcome.",
		}, []string{"converged"}),
		startDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "start_duration_seconds",
			Help:      "Wall time of a single local search.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
		evaluations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "evaluations_total",
			Help:      "Objective evaluations across all local searches.",
		}),
		simulations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_total",
			Help:      "Forward simulations served, by cache outcome.",
		}, []string{"cache"}),
		simDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "duration_seconds",
			Help:      "Wall time of a forward simulation.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests, by status code and method.",
		}, []string{"code", "method"}),
	}
}

// ObserveStart records one finished local search.
func (s *Stats) ObserveStart(converged bool, d time.Duration, evaluations int) {
	s.starts.WithLabelValues(strconv.FormatBool(converged)).Inc()
	s.startDuration.Observe(d.Seconds())
	s.evaluations.Add(float64(evaluations))
}

// ObserveSimulation records one simulation request. Cache hits skip the
// duration histogram.
func (s *Stats) ObserveSimulation(cached bool, d time.Duration) {
	if cached {
		s.simulations.WithLabelValues("hit").Inc()
		return
	}
	s.simulations.WithLabelValues("miss").Inc()
	s.simDuration.Observe(d.Seconds())
}

// RecHTTP counts one HTTP response.
func (s *Stats) RecHTTP(code int, method string) {
	s.requests.WithLabelValues(strconv.Itoa(code), method).Inc()
}

// Registry exposes the underlying registry for tests and extra collectors.
func (s *Stats) Registry() *prometheus.Registry {
	return s.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (s *Stats) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}
