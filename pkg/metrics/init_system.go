package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// System gauges are sampled by UpdateSystemMetrics from the serve ticker and
// on each /health request, not on every API call.
func (r *Registry) initSystemMetrics() {
	r.UptimeSeconds = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ringview_uptime_seconds",
			Help: "Seconds since the registry was created",
		},
	)

	r.GoRoutines = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ringview_goroutines",
			Help: "Live goroutines, including one per session driver and one per open frame stream",
		},
	)

	r.MemoryAllocBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ringview_memory_alloc_bytes",
			Help: "Heap bytes in use; grows with the node count of open sessions",
		},
	)

	r.MemorySysBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ringview_memory_sys_bytes",
			Help: "Bytes of memory obtained from the OS",
		},
	)
}
