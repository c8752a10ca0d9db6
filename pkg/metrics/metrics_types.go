package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec
	HTTPStreamsOpen       prometheus.Gauge
	HTTPStreamEventsTotal *prometheus.CounterVec

	// Graph Metrics
	GraphBuildsTotal    prometheus.Counter
	GraphBuildDuration  prometheus.Histogram
	GraphNodes          *prometheus.GaugeVec
	GraphEdges          prometheus.Gauge
	GraphRings          prometheus.Gauge
	ClaimsRejectedTotal prometheus.Counter

	// Simulation Metrics
	SimulationTicksTotal    prometheus.Counter
	SimulationTickDuration  prometheus.Histogram
	SimulationKineticEnergy prometheus.Gauge
	SimulationSettledTotal  prometheus.Counter

	// Session Metrics
	SessionsActive        prometheus.Gauge
	SessionsCreatedTotal  prometheus.Counter
	SelectionChangesTotal *prometheus.CounterVec

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	started  time.Time
	mu       sync.Mutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		started:  time.Now(),
	}

	r.initHTTPMetrics()
	r.initGraphMetrics()
	r.initSimulationMetrics()
	r.initSessionMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
