package main

import (
	"context"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-ringview/pkg/api"
	"github.com/dd0wney/cluso-ringview/pkg/api/middleware"
	"github.com/dd0wney/cluso-ringview/pkg/config"
	"github.com/dd0wney/cluso-ringview/pkg/graph"
	"github.com/dd0wney/cluso-ringview/pkg/health"
	"github.com/dd0wney/cluso-ringview/pkg/logging"
	"github.com/dd0wney/cluso-ringview/pkg/metrics"
	"github.com/dd0wney/cluso-ringview/pkg/server"
	"github.com/dd0wney/cluso-ringview/pkg/session"
)

const systemMetricsInterval = 15 * time.Second

func serveCmd() *cobra.Command {
	var (
		addr      string
		noDriver  bool
		origins   []string
		maxBodyMB int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layout sessions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Server.Addr = addr
			}

			reg := metrics.DefaultRegistry()

			// A shared seeded source would race between sessions, so the
			// server only takes the spread.
			storeOpts := []session.StoreOption{
				session.WithStoreLogger(logger),
				session.WithStoreMetrics(reg),
				session.WithSessionOptions(session.WithBuildOptions(graph.WithSpread(cfg.Graph.Spread))),
			}
			if !noDriver {
				storeOpts = append(storeOpts, session.WithDriver(cfg.Driver))
			}
			store := session.NewStore(cfg.Simulation, storeOpts...)

			hc := health.NewChecker()
			hc.Register("memory", health.MemoryCheck(memoryUsage))

			apiOpts := []api.Option{
				api.WithLogger(logger),
				api.WithMetrics(reg),
				api.WithHealth(hc),
			}
			if maxBodyMB > 0 {
				apiOpts = append(apiOpts, api.WithMaxBodyBytes(maxBodyMB<<20))
			}
			if len(origins) > 0 {
				apiOpts = append(apiOpts, api.WithCORS(&middleware.CORSConfig{AllowedOrigins: origins}))
			}
			handler := api.NewServer(store, apiOpts...).Handler()

			gs := server.NewGracefulServer(server.Options{
				Addr:            cfg.Server.Addr,
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
			}, handler, logger)
			gs.OnShutdown(store.CloseAll)
			hc.RegisterReadiness("shutdown", health.ShutdownCheck(gs.IsShuttingDown))
			gs.SetConfigReloadFunc(func() error {
				reloaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				level := reloaded.LogLevel()
				if logLevel != "" {
					level = logging.ParseLevel(logLevel)
				}
				logger.SetLevel(level)
				logger.Info("log level reloaded", logging.String("level", level.String()))
				return nil
			})

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go reportSystemMetrics(ctx, reg)

			logger.Info("starting ringview server",
				logging.String("addr", cfg.Server.Addr),
				logging.Bool("driver", !noDriver),
				logging.Float64("tick_rate", cfg.Driver.TickRate))
			return gs.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&noDriver, "no-driver", false, "Only advance sessions on explicit tick requests")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "Allowed CORS origin (repeatable, * for any)")
	cmd.Flags().Int64Var(&maxBodyMB, "max-body-mb", api.DefaultMaxBodyBytes>>20, "Maximum request body size in MiB")
	return cmd
}

func reportSystemMetrics(ctx context.Context, reg *metrics.Registry) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	reg.UpdateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reg.UpdateSystemMetrics()
		}
	}
}

func memoryUsage() (alloc, sys uint64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc, m.Sys
}
