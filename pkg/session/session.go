package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-ringview/pkg/claims"
	"github.com/dd0wney/cluso-ringview/pkg/graph"
	"github.com/dd0wney/cluso-ringview/pkg/logging"
	"github.com/dd0wney/cluso-ringview/pkg/metrics"
	"github.com/dd0wney/cluso-ringview/pkg/visualization"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNodeNotFound    = errors.New("node not found")
	ErrInvalidConfig   = errors.New("invalid simulation config")
)

// Summary describes the shape of a session's graph.
type Summary struct {
	Claims          int `json:"claims"`
	IPAddresses     int `json:"ip_addresses"`
	PhoneNumbers    int `json:"phone_numbers"`
	Edges           int `json:"edges"`
	Rings           int `json:"rings"`
	SuspiciousRings int `json:"suspicious_rings"`
}

// Nodes returns the total node count.
func (s Summary) Nodes() int {
	return s.Claims + s.IPAddresses + s.PhoneNumbers
}

// Session is one open view of a claim graph: the engine laying it out, the
// highlighted node and the ring breakdown. All methods are safe for
// concurrent use.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	mu        sync.RWMutex
	engine    *visualization.Engine
	selection *visualization.Selection
	rings     []graph.Ring
	summary   Summary

	logger  logging.Logger
	metrics *metrics.Registry
}

// Option configures a session.
type Option func(*options)

type options struct {
	logger    logging.Logger
	metrics   *metrics.Registry
	buildOpts []graph.BuildOption
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics records builds and ticks into r.
func WithMetrics(r *metrics.Registry) Option {
	return func(o *options) { o.metrics = r }
}

// WithBuildOptions passes options through to graph.Build.
func WithBuildOptions(opts ...graph.BuildOption) Option {
	return func(o *options) { o.buildOpts = append(o.buildOpts, opts...) }
}

// New validates the records and config, builds the graph and starts an
// engine on it.
func New(records []claims.Record, cfg visualization.Config, opts ...Option) (*Session, error) {
	o := options{logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := claims.Validate(records); err != nil {
		if o.metrics != nil {
			o.metrics.RecordRejectedClaims()
		}
		return nil, err
	}

	id := uuid.New().String()
	logger := o.logger.With(logging.SessionID(id))

	start := time.Now()
	g := graph.Build(records, o.buildOpts...)
	rings := graph.Rings(g)
	elapsed := time.Since(start)

	summary := Summary{
		Claims:       g.CountKind(graph.KindClaim),
		IPAddresses:  g.CountKind(graph.KindIPAddress),
		PhoneNumbers: g.CountKind(graph.KindPhoneNumber),
		Edges:        len(g.Edges),
		Rings:        len(rings),
	}
	for _, r := range rings {
		if r.Shared() {
			summary.SuspiciousRings++
		}
	}

	if o.metrics != nil {
		o.metrics.RecordBuild(elapsed, summary.Claims, summary.IPAddresses, summary.PhoneNumbers, summary.Edges, summary.Rings)
	}
	logger.Info("graph built",
		logging.Nodes(summary.Nodes()),
		logging.Edges(summary.Edges),
		logging.Rings(summary.Rings),
		logging.Latency(elapsed),
	)

	return &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		engine:    visualization.NewEngine(g, cfg),
		selection: visualization.NewSelection(),
		rings:     rings,
		summary:   summary,
		logger:    logger,
		metrics:   o.metrics,
	}, nil
}

// Tick advances the layout by one step.
func (s *Session) Tick() {
	s.mu.Lock()
	start := time.Now()
	s.engine.Tick()
	elapsed := time.Since(start)
	energy := s.engine.KineticEnergy()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordTick(elapsed, energy)
	}
}

// Step runs n ticks under a single lock and returns the kinetic energy after
// the last one.
func (s *Session) Step(n int) float64 {
	s.mu.Lock()
	start := time.Now()
	for i := 0; i < n; i++ {
		s.engine.Tick()
	}
	elapsed := time.Since(start)
	energy := s.engine.KineticEnergy()
	s.mu.Unlock()

	if s.metrics != nil && n > 0 {
		per := elapsed / time.Duration(n)
		for i := 0; i < n; i++ {
			s.metrics.RecordTick(per, energy)
		}
	}
	return energy
}

// Frame snapshots the current layout with the session's selection applied.
func (s *Session) Frame(opts ...visualization.FrameOption) visualization.Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Frame(s.selection, opts...)
}

// Position returns the current position of a node.
func (s *Session) Position(id string) (graph.Vec3, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Position(id)
}

// Ticks returns how many ticks the engine has run.
func (s *Session) Ticks() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Ticks()
}

// KineticEnergy returns the engine's current kinetic energy.
func (s *Session) KineticEnergy() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.KineticEnergy()
}

// Settled reports whether the layout has come to rest.
func (s *Session) Settled(threshold float64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Settled(threshold)
}

// MaxDistance returns the current extent of the layout.
func (s *Session) MaxDistance() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.MaxDistance()
}

// Select highlights a node. The empty id clears the highlight; an id that is
// not in the graph leaves the selection unchanged.
func (s *Session) Select(id string) error {
	if id != "" {
		s.mu.RLock()
		ok := s.engine.Has(id)
		s.mu.RUnlock()
		if !ok {
			return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
		}
	}

	s.selection.Select(id)
	if s.metrics != nil {
		s.metrics.RecordSelection(id)
	}
	s.logger.Debug("selection changed", logging.NodeID(id))
	return nil
}

// Selected returns the highlighted node id, if any.
func (s *Session) Selected() (string, bool) {
	return s.selection.Selected()
}

// Selection exposes the highlight state for renderers.
func (s *Session) Selection() *visualization.Selection {
	return s.selection
}

// Rings returns the connected claim groups, largest first.
func (s *Session) Rings() []graph.Ring {
	out := make([]graph.Ring, len(s.rings))
	copy(out, s.rings)
	return out
}

// Summary returns node, edge and ring counts.
func (s *Session) Summary() Summary {
	return s.summary
}
