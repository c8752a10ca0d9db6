// Package config loads ringview settings from a YAML file with environment
// overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-ringview/pkg/graph"
	"github.com/dd0wney/cluso-ringview/pkg/logging"
	"github.com/dd0wney/cluso-ringview/pkg/session"
	"github.com/dd0wney/cluso-ringview/pkg/validation"
	"github.com/dd0wney/cluso-ringview/pkg/visualization"
)

// Environment variables that override file settings.
const (
	EnvLogLevel = "LOG_LEVEL"
	EnvAddr     = "RINGVIEW_ADDR"
)

// Default server values
const (
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
)

// Config is the full ringview configuration.
type Config struct {
	Simulation visualization.Config `yaml:"simulation"`
	Driver     session.DriverConfig `yaml:"driver"`
	Graph      GraphConfig          `yaml:"graph"`
	Server     ServerConfig         `yaml:"server"`
	Logging    LoggingConfig        `yaml:"logging"`
}

// GraphConfig controls initial node placement.
type GraphConfig struct {
	// Spread is the half-width of the cube nodes start in.
	Spread float64 `yaml:"spread"`
	// Seed fixes the placement for reproducible runs. Zero seeds from the clock.
	Seed int64 `yaml:"seed"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig holds the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Simulation: visualization.DefaultConfig(),
		Driver:     session.DefaultDriverConfig(),
		Graph:      GraphConfig{Spread: graph.DefaultSpread},
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults without consulting the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides settings from the environment through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	c.Logging.Level = validation.DefaultOr(getenv(EnvLogLevel), c.Logging.Level)
	c.Server.Addr = validation.DefaultOr(getenv(EnvAddr), c.Server.Addr)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	server := validation.NewConfigValidator("server").
		Required("addr", c.Server.Addr).
		MinDuration("read_timeout", c.Server.ReadTimeout, 0).
		MinDuration("write_timeout", c.Server.WriteTimeout, 0).
		MinDuration("shutdown_timeout", c.Server.ShutdownTimeout, time.Second)

	rest := validation.NewConfigValidator("config").
		PositiveFloat("graph.spread", c.Graph.Spread).
		OneOf("logging.level", c.Logging.Level, logging.LevelNames)

	return errors.Join(
		c.Simulation.Validate(),
		c.Driver.Validate(),
		server.Validate(),
		rest.Validate(),
	)
}

// LogLevel returns the configured level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}

// BuildOptions returns graph.Build options for the placement settings. Each
// call seeds a fresh source, so the result must not be shared across
// goroutines.
func (c *Config) BuildOptions() []graph.BuildOption {
	opts := []graph.BuildOption{graph.WithSpread(c.Graph.Spread)}
	if c.Graph.Seed != 0 {
		opts = append(opts, graph.WithRand(rand.New(rand.NewSource(c.Graph.Seed))))
	}
	return opts
}
