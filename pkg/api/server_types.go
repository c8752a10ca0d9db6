package api

import (
	"time"

	"github.com/dd0wney/cluso-ringview/pkg/claims"
	"github.com/dd0wney/cluso-ringview/pkg/graph"
	"github.com/dd0wney/cluso-ringview/pkg/health"
	"github.com/dd0wney/cluso-ringview/pkg/session"
)

// CreateSessionRequest carries the claim records to lay out.
type CreateSessionRequest struct {
	Claims []claims.Record `json:"claims"`
	// WarmupTicks runs that many ticks before the session is returned.
	WarmupTicks int `json:"warmup_ticks,omitempty"`
}

// SessionResponse describes an open session.
type SessionResponse struct {
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Summary       session.Summary `json:"summary"`
	Ticks         uint64          `json:"ticks"`
	KineticEnergy float64         `json:"kinetic_energy"`
	Selected      string          `json:"selected,omitempty"`
}

// SessionListResponse lists open session ids.
type SessionListResponse struct {
	Sessions []string `json:"sessions"`
	Count    int      `json:"count"`
}

// RingsResponse lists the connected claim groups of a session.
type RingsResponse struct {
	Rings      []graph.Ring `json:"rings"`
	Count      int          `json:"count"`
	Suspicious int          `json:"suspicious"`
}

// SelectionRequest sets the highlighted node. An empty id clears it.
type SelectionRequest struct {
	NodeID string `json:"node_id"`
}

// SelectionResponse echoes the current highlight.
type SelectionResponse struct {
	NodeID string `json:"node_id,omitempty"`
}

// TickResponse reports the state after a manual advance.
type TickResponse struct {
	Ticks         uint64  `json:"ticks"`
	KineticEnergy float64 `json:"kinetic_energy"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Sessions  int       `json:"sessions"`

	Checks map[string]health.Check `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
