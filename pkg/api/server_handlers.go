package api

import (
	"net/http"
	"time"

	"github.com/dd0wney/cluso-ringview/pkg/health"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metricsRegistry.UpdateSystemMetrics()
	checks := s.health.Check()

	code := http.StatusOK
	if checks.Status == health.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	s.respondJSON(w, code, HealthResponse{
		Status:    string(checks.Status),
		Timestamp: checks.Timestamp,
		Version:   Version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Sessions:  s.store.Len(),
		Checks:    checks.Checks,
	})
}
