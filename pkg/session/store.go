package session

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dd0wney/cluso-ringview/pkg/claims"
	"github.com/dd0wney/cluso-ringview/pkg/logging"
	"github.com/dd0wney/cluso-ringview/pkg/metrics"
	"github.com/dd0wney/cluso-ringview/pkg/pubsub"
	"github.com/dd0wney/cluso-ringview/pkg/visualization"
)

// Store keeps the open sessions of a server. When a driver config is set,
// every created session is ticked in the background until it is closed.
// Frames are published per session id to anyone subscribed through Subscribe.
type Store struct {
	sessions map[string]*entry
	mu       sync.RWMutex
	frames   *pubsub.Broker[visualization.Frame]

	sim     visualization.Config
	driver  *DriverConfig
	logger  logging.Logger
	metrics *metrics.Registry
	opts    []Option
}

type entry struct {
	session *Session
	cancel  context.CancelFunc
	done    chan struct{}
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger handed to sessions.
func WithStoreLogger(l logging.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// WithStoreMetrics records session activity into r.
func WithStoreMetrics(r *metrics.Registry) StoreOption {
	return func(s *Store) { s.metrics = r }
}

// WithDriver animates each new session with a Driver built from cfg.
func WithDriver(cfg DriverConfig) StoreOption {
	return func(s *Store) { s.driver = &cfg }
}

// WithSessionOptions adds options applied to every created session.
func WithSessionOptions(opts ...Option) StoreOption {
	return func(s *Store) { s.opts = append(s.opts, opts...) }
}

// NewStore creates an empty store whose sessions use sim.
func NewStore(sim visualization.Config, opts ...StoreOption) *Store {
	s := &Store{
		sessions: make(map[string]*entry),
		frames:   pubsub.New[visualization.Frame](pubsub.DefaultBuffer),
		sim:      sim,
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create builds a session from records and registers it.
func (s *Store) Create(records []claims.Record) (*Session, error) {
	opts := append([]Option{WithLogger(s.logger)}, s.opts...)
	if s.metrics != nil {
		opts = append(opts, WithMetrics(s.metrics))
	}

	sess, err := New(records, s.sim, opts...)
	if err != nil {
		return nil, err
	}

	e := &entry{session: sess}
	if s.driver != nil {
		ctx, cancel := context.WithCancel(context.Background())
		e.cancel = cancel
		e.done = make(chan struct{})
		d := NewDriver(sess, *s.driver, s.logger)
		d.OnTick = s.Publish
		go func() {
			defer close(e.done)
			d.Run(ctx)
		}()
	}

	s.mu.Lock()
	s.sessions[sess.ID] = e
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SessionOpened()
	}
	return sess, nil
}

// Get returns the session with the given id.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return e.session, nil
}

// Close stops the session's driver, if any, and forgets it.
func (s *Store) Close(id string) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	e.stop()
	s.frames.CloseTopic(id)

	if s.metrics != nil {
		s.metrics.SessionClosed()
	}
	s.logger.Info("session closed", logging.SessionID(id))
	return nil
}

// CloseAll closes every open session.
func (s *Store) CloseAll() {
	for _, id := range s.IDs() {
		s.Close(id)
	}
}

// Subscribe streams the frames published for session id until ctx is done or
// the session is closed.
func (s *Store) Subscribe(ctx context.Context, id string) (*pubsub.Subscription[visualization.Frame], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.sessions[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s.frames.Subscribe(ctx, id)
}

// Publish sends the current frame of sess to its subscribers. Frames are only
// built when someone is listening.
func (s *Store) Publish(sess *Session) {
	if s.frames.Subscribers(sess.ID) == 0 {
		return
	}
	s.frames.Publish(sess.ID, sess.Frame())
}

// Len returns the number of open sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// IDs lists open session ids in sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

func (e *entry) stop() {
	if e.cancel == nil {
		return
	}
	e.cancel()
	<-e.done
}
