package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphBuildsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "ringview_graph_builds_total",
			Help: "Total number of graphs built from claim records",
		},
	)

	r.GraphBuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ringview_graph_build_duration_seconds",
			Help:    "Time spent building a graph from claim records",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)

	r.GraphNodes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ringview_graph_nodes",
			Help: "Nodes in the most recently built graph",
		},
		[]string{"kind"}, // claim, ip, phone
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ringview_graph_edges",
			Help: "Edges in the most recently built graph",
		},
	)

	r.GraphRings = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ringview_graph_rings",
			Help: "Connected claim groups in the most recently built graph",
		},
	)

	r.ClaimsRejectedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "ringview_claims_rejected_total",
			Help: "Claim record sets rejected by validation",
		},
	)
}
