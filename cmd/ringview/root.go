package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-ringview/pkg/claims"
	"github.com/dd0wney/cluso-ringview/pkg/config"
	"github.com/dd0wney/cluso-ringview/pkg/logging"
	"github.com/dd0wney/cluso-ringview/pkg/metrics"
	"github.com/dd0wney/cluso-ringview/pkg/session"
)

var version = "0.3.0"

var (
	configPath string
	logLevel   string

	cfg    *config.Config
	logger logging.Logger = logging.NewNopLogger()
)

var rootCmd = &cobra.Command{
	Use:           "ringview",
	Short:         "ringview lays out fraud rings from claim records",
	Long:          brand.Sprint("ringview") + " links claims through shared IP addresses and phone numbers\n" + subtle.Sprint("and settles the result with a force-directed layout"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Logging.Level = logLevel
			if err := loaded.Validate(); err != nil {
				return err
			}
		}
		cfg = loaded
		logger = logging.NewJSONLogger(cmd.ErrOrStderr(), cfg.LogLevel())
		logging.SetDefaultLogger(logger)
		return nil
	},
}

func init() {
	rootCmd.SetVersionTemplate("ringview {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		buildCmd(),
		simulateCmd(),
		viewCmd(),
		serveCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		bad.Fprintf(rootCmd.ErrOrStderr(), "ringview: %v\n", err)
		return err
	}
	return nil
}

// openSession loads a claims file into a fresh session using the active config.
func openSession(path string) (*session.Session, error) {
	records, err := claims.LoadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := session.New(records, cfg.Simulation,
		session.WithLogger(logger),
		session.WithMetrics(metrics.NewRegistry()),
		session.WithBuildOptions(cfg.BuildOptions()...),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
