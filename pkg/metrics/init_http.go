package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Most requests are frame polls and tick requests answered from memory, so
// latency buckets start at half a millisecond. Stream requests stay open for
// the life of the connection and land in the top bucket; their activity is
// tracked by the stream metrics instead.
func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ringview_http_requests_total",
			Help: "API requests by method, route pattern and status code",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ringview_http_request_duration_seconds",
			Help:    "API request latency by route pattern; stream routes report connection lifetime",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms .. ~1s
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ringview_http_requests_in_flight",
			Help: "API requests being served, open frame streams included",
		},
	)

	// a three-claim frame is a few hundred bytes; ten thousand nodes with
	// velocities and claim payloads run to a few megabytes
	r.HTTPResponseSizeBytes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ringview_http_response_size_bytes",
			Help:    "API response body size by route pattern",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8), // 256B .. 4MiB
		},
		[]string{"method", "path"},
	)

	r.HTTPStreamsOpen = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ringview_http_streams_open",
			Help: "Server-sent frame streams currently attached to a session",
		},
	)

	r.HTTPStreamEventsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ringview_http_stream_events_total",
			Help: "Server-sent events written to frame streams, by event name",
		},
		[]string{"event"},
	)
}
