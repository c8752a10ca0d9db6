package metrics

import (
	"runtime"
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordResponseSize records the size of an HTTP response body.
func (r *Registry) RecordResponseSize(method, path string, size float64) {
	r.HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(size)
}

func (r *Registry) IncHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

func (r *Registry) DecHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Dec()
}

// StreamOpened records a frame stream attaching to a session.
func (r *Registry) StreamOpened() {
	r.HTTPStreamsOpen.Inc()
}

// StreamClosed records a frame stream ending.
func (r *Registry) StreamClosed() {
	r.HTTPStreamsOpen.Dec()
}

// RecordStreamEvent counts one server-sent event by name ("frame", "closed").
func (r *Registry) RecordStreamEvent(event string) {
	r.HTTPStreamEventsTotal.WithLabelValues(event).Inc()
}

// RecordBuild records a finished graph build and the shape of the result.
func (r *Registry) RecordBuild(duration time.Duration, claims, ips, phones, edges, rings int) {
	r.GraphBuildsTotal.Inc()
	r.GraphBuildDuration.Observe(duration.Seconds())
	r.GraphNodes.WithLabelValues("claim").Set(float64(claims))
	r.GraphNodes.WithLabelValues("ip").Set(float64(ips))
	r.GraphNodes.WithLabelValues("phone").Set(float64(phones))
	r.GraphEdges.Set(float64(edges))
	r.GraphRings.Set(float64(rings))
}

// RecordRejectedClaims counts a record set that failed validation.
func (r *Registry) RecordRejectedClaims() {
	r.ClaimsRejectedTotal.Inc()
}

// RecordTick records one simulation step
func (r *Registry) RecordTick(duration time.Duration, kineticEnergy float64) {
	r.SimulationTicksTotal.Inc()
	r.SimulationTickDuration.Observe(duration.Seconds())
	r.SimulationKineticEnergy.Set(kineticEnergy)
}

// RecordSettled counts a layout coming to rest.
func (r *Registry) RecordSettled() {
	r.SimulationSettledTotal.Inc()
}

// SessionOpened records a new session
func (r *Registry) SessionOpened() {
	r.SessionsCreatedTotal.Inc()
	r.SessionsActive.Inc()
}

// SessionClosed records a session being discarded
func (r *Registry) SessionClosed() {
	r.SessionsActive.Dec()
}

// RecordSelection records a selection change. An empty id counts as a clear.
func (r *Registry) RecordSelection(id string) {
	action := "select"
	if id == "" {
		action = "clear"
	}
	r.SelectionChangesTotal.WithLabelValues(action).Inc()
}

// UpdateSystemMetrics refreshes uptime, goroutine and memory gauges.
func (r *Registry) UpdateSystemMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.UptimeSeconds.Set(time.Since(r.started).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}
