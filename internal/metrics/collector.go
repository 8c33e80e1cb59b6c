// Package metrics exposes the daemon's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector groups every instrument the daemon updates.
type Collector struct {
	// SimulationsTotal counts engine evaluations by kind and cache outcome.
	SimulationsTotal *prometheus.CounterVec

	// SimulationDuration measures evaluation latency, cache lookups included.
	SimulationDuration *prometheus.HistogramVec

	// SaturatedTotal counts results whose demand exceeded system capacity.
	SaturatedTotal *prometheus.CounterVec

	// RunsInFlight is the number of asynchronous runs currently executing.
	RunsInFlight prometheus.Gauge

	// RunsFinishedTotal counts runs by terminal status.
	RunsFinishedTotal *prometheus.CounterVec

	// NotificationsTotal counts completion callbacks by outcome.
	NotificationsTotal *prometheus.CounterVec
}

// NewCollector registers the instruments on reg. A nil registerer gets a
// private registry, so callers that do not scrape can pass nil.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Collector{
		SimulationsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "archsim_simulations_total",
			Help: "Total number of simulations evaluated.",
		}, []string{LabelKind, LabelCache}),

		SimulationDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "archsim_simulation_duration_seconds",
			Help:    "Histogram of simulation evaluation latencies.",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{LabelKind}),

		SaturatedTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "archsim_saturated_results_total",
			Help: "Total number of results where demand exceeded capacity.",
		}, []string{LabelKind}),

		RunsInFlight: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "archsim_runs_in_flight",
			Help: "Current number of executing runs.",
		}),

		RunsFinishedTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "archsim_runs_finished_total",
			Help: "Total number of runs that reached a terminal status.",
		}, []string{LabelStatus}),

		NotificationsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "archsim_notifications_total",
			Help: "Total number of completion callbacks by outcome.",
		}, []string{LabelOutcome}),
	}
}
