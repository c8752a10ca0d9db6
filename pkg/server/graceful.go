// Package server runs the ringview HTTP API with signal-driven graceful
// shutdown and configuration reload.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-ringview/pkg/logging"
)

// ConfigReloadFunc is a function that reloads configuration
type ConfigReloadFunc func() error

// Options holds listener settings.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// GracefulServer wraps an HTTP server with graceful shutdown capabilities
type GracefulServer struct {
	server          *http.Server
	logger          logging.Logger
	shutdownTimeout time.Duration

	draining     atomic.Bool
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	shutdownErr  error

	ready    chan struct{}
	listener net.Listener

	configReloadFn ConfigReloadFunc
	onShutdown     []func()
	mu             sync.RWMutex
}

// NewGracefulServer creates a new graceful HTTP server
func NewGracefulServer(opts Options, handler http.Handler, logger logging.Logger) *GracefulServer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &GracefulServer{
		server: &http.Server{
			Addr:           opts.Addr,
			Handler:        handler,
			ReadTimeout:    opts.ReadTimeout,
			WriteTimeout:   opts.WriteTimeout,
			IdleTimeout:    120 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		logger:          logger.With(logging.Component("server")),
		shutdownTimeout: opts.ShutdownTimeout,
		shutdownCh:      make(chan struct{}),
		ready:           make(chan struct{}),
	}
}

// Run listens on the configured address and serves until ctx is cancelled,
// SIGINT or SIGTERM arrives, or Shutdown is called. SIGHUP triggers a
// configuration reload. Run returns once shutdown has finished.
func (gs *GracefulServer) Run(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	ln, err := net.Listen("tcp", gs.server.Addr)
	if err != nil {
		return err
	}
	gs.mu.Lock()
	gs.listener = ln
	gs.mu.Unlock()
	close(gs.ready)

	serveErr := make(chan error, 1)
	go func() {
		gs.logger.Info("HTTP server listening", logging.String("addr", ln.Addr().String()))
		serveErr <- gs.server.Serve(ln)
	}()

	for {
		select {
		case err := <-serveErr:
			if errors.Is(err, http.ErrServerClosed) {
				<-gs.shutdownCh
				return gs.shutdownErr
			}
			return err

		case <-ctx.Done():
			return gs.Shutdown(gs.shutdownTimeout)

		case <-gs.shutdownCh:
			<-serveErr
			return gs.shutdownErr

		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				gs.logger.Info("received SIGHUP, reloading configuration")
				gs.ReloadConfig()
			default:
				gs.logger.Info("received signal, shutting down", logging.String("signal", sig.String()))
				return gs.Shutdown(gs.shutdownTimeout)
			}
		}
	}
}

// Addr returns the bound listener address. It blocks until Run is listening.
func (gs *GracefulServer) Addr() net.Addr {
	<-gs.ready
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.listener.Addr()
}

// Shutdown initiates a graceful shutdown. Registered shutdown hooks run after
// in-flight requests have drained.
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	gs.shutdownOnce.Do(func() {
		gs.draining.Store(true)
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		gs.logger.Info("initiating graceful shutdown", logging.Duration("timeout", timeout))
		if err := gs.server.Shutdown(ctx); err != nil {
			gs.shutdownErr = err
			gs.logger.Error("error during shutdown", logging.Error(err))
		}

		gs.mu.RLock()
		hooks := gs.onShutdown
		gs.mu.RUnlock()
		for _, fn := range hooks {
			fn()
		}

		gs.logger.Info("server shutdown complete")
		close(gs.shutdownCh)
	})
	return gs.shutdownErr
}

// OnShutdown registers fn to run during shutdown.
func (gs *GracefulServer) OnShutdown(fn func()) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.onShutdown = append(gs.onShutdown, fn)
}

// IsShuttingDown reports whether Shutdown has started.
func (gs *GracefulServer) IsShuttingDown() bool {
	return gs.draining.Load()
}

// SetConfigReloadFunc sets the function to call when configuration reload is triggered
func (gs *GracefulServer) SetConfigReloadFunc(fn ConfigReloadFunc) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.configReloadFn = fn
}

// ReloadConfig triggers a configuration reload
func (gs *GracefulServer) ReloadConfig() error {
	gs.mu.RLock()
	reloadFn := gs.configReloadFn
	gs.mu.RUnlock()

	if reloadFn == nil {
		gs.logger.Warn("configuration reload requested, but no reload function configured")
		return nil
	}

	if err := reloadFn(); err != nil {
		gs.logger.Error("configuration reload failed", logging.Error(err))
		return err
	}

	gs.logger.Info("configuration reload complete")
	return nil
}
