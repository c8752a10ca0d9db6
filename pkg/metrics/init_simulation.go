package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSimulationMetrics() {
	r.SimulationTicksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "ringview_simulation_ticks_total",
			Help: "Total number of simulation ticks advanced",
		},
	)

	r.SimulationTickDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ringview_simulation_tick_duration_seconds",
			Help:    "Wall time of a single simulation tick",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		},
	)

	r.SimulationKineticEnergy = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ringview_simulation_kinetic_energy",
			Help: "Kinetic energy of the most recently ticked layout",
		},
	)

	r.SimulationSettledTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "ringview_simulation_settled_total",
			Help: "Number of layouts that came to rest",
		},
	)
}
