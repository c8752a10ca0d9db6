// Package api exposes ringview sessions over HTTP for external renderers.
package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/cluso-ringview/pkg/api/middleware"
	"github.com/dd0wney/cluso-ringview/pkg/health"
	"github.com/dd0wney/cluso-ringview/pkg/logging"
	"github.com/dd0wney/cluso-ringview/pkg/metrics"
	"github.com/dd0wney/cluso-ringview/pkg/session"
)

// Version is reported by /health.
const Version = "0.3.0"

// Request limits
const (
	DefaultMaxBodyBytes = 8 << 20
	MaxWarmupTicks      = 10000
	MaxTicksPerRequest  = 1000
)

// Server serves the session API.
type Server struct {
	store           *session.Store
	logger          logging.Logger
	metricsRegistry *metrics.Registry
	health          *health.Checker
	corsConfig      *middleware.CORSConfig
	maxBodyBytes    int64
	startTime       time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default discards output.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics sets the registry exported on /metrics.
func WithMetrics(r *metrics.Registry) Option {
	return func(s *Server) { s.metricsRegistry = r }
}

// WithCORS enables CORS for the configured origins.
func WithCORS(cfg *middleware.CORSConfig) Option {
	return func(s *Server) { s.corsConfig = cfg }
}

// WithHealth uses hc for the health endpoints. The server registers its own
// "sessions" check on it.
func WithHealth(hc *health.Checker) Option {
	return func(s *Server) { s.health = hc }
}

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBodyBytes = n }
}

// NewServer creates an API server over store.
func NewServer(store *session.Store, opts ...Option) *Server {
	s := &Server{
		store:        store,
		logger:       logging.NewNopLogger(),
		maxBodyBytes: DefaultMaxBodyBytes,
		startTime:    time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metricsRegistry == nil {
		s.metricsRegistry = metrics.NewRegistry()
	}
	if s.health == nil {
		s.health = health.NewChecker()
	}
	s.health.Register("sessions", health.SessionsCheck(store.Len, 0))
	return s
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /health/live", s.health.LivenessHandler())
	mux.Handle("GET /health/ready", s.health.ReadinessHandler())
	mux.Handle("GET /metrics", s.handleMetrics())

	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions", s.handleListSessions)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleCloseSession)
	mux.HandleFunc("GET /sessions/{id}/frame", s.handleFrame)
	mux.HandleFunc("GET /sessions/{id}/rings", s.handleRings)
	mux.HandleFunc("GET /sessions/{id}/stream", s.handleStream)
	mux.HandleFunc("PUT /sessions/{id}/selection", s.handleSelection)
	mux.HandleFunc("POST /sessions/{id}/tick", s.handleTick)

	// Metrics must see the request the mux routes so r.Pattern is populated;
	// anything that swaps the request (RequestID) goes outside it.
	var h http.Handler = mux
	h = middleware.PanicRecovery(s.logger)(h)
	h = middleware.BodySizeLimit(s.maxBodyBytes)(h)
	h = middleware.Metrics(s.metricsRegistry)(h)
	h = middleware.CORS(s.corsConfig)(h)
	h = middleware.Logging(s.logger)(h)
	h = middleware.RequestID()(h)
	return h
}

func (s *Server) handleMetrics() http.Handler {
	return promhttp.HandlerFor(s.metricsRegistry.GetPrometheusRegistry(), promhttp.HandlerOpts{})
}
