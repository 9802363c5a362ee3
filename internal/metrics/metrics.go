// Package metrics exposes Prometheus instrumentation for solve requests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label names attached to every solve series.
const (
	// StrategyLabel carries the solve strategy, or "compare" for comparisons.
	StrategyLabel = "strategy"
	// OutcomeLabel carries Succeeded or Failed.
	OutcomeLabel = "outcome"
)

// Values of OutcomeLabel.
const (
	// Succeeded marks a solve that returned a result.
	Succeeded = "succeeded"
	// Failed marks a solve rejected with an error.
	Failed = "failed"
)

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	solves        *prometheus.CounterVec
	solveDuration *prometheus.HistogramVec
	selectedItems *prometheus.HistogramVec
}

// New creates and registers the solver collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "knap_solves_total",
				Help: "Monotonic count of knapsack solves by strategy and outcome",
			},
			[]string{StrategyLabel, OutcomeLabel},
		),
		solveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "knap_solve_duration_seconds",
				Help:    "The duration of a knapsack solve",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{StrategyLabel},
		),
		selectedItems: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "knap_selected_items",
				Help:    "Number of items selected by a successful solve",
				Buckets: prometheus.ExponentialBuckets(1, 2, 11),
			},
			[]string{StrategyLabel},
		),
	}

	m.registry.MustRegister(m.solves, m.solveDuration, m.selectedItems)
	return m
}

// ObserveSolve records one solve attempt. Safe to call on a nil receiver.
func (m *Metrics) ObserveSolve(strategy string, elapsed time.Duration, selected int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.solves.WithLabelValues(strategy, Failed).Inc()
		return
	}
	m.solves.WithLabelValues(strategy, Succeeded).Inc()
	m.solveDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	m.selectedItems.WithLabelValues(strategy).Observe(float64(selected))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
