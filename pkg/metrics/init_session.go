package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSessionMetrics() {
	r.SessionsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ringview_sessions_active",
			Help: "Number of open visualization sessions",
		},
	)

	r.SessionsCreatedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "ringview_sessions_created_total",
			Help: "Total number of visualization sessions created",
		},
	)

	r.SelectionChangesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ringview_selection_changes_total",
			Help: "Selection changes by action",
		},
		[]string{"action"}, // select, clear
	)
}
