package session

import (
	"context"
	"errors"
	"time"

	"github.com/dd0wney/cluso-ringview/pkg/logging"
	"github.com/dd0wney/cluso-ringview/pkg/validation"
)

// DriverConfig controls how often a session is ticked and when to stop.
type DriverConfig struct {
	// TickRate is the number of ticks per second.
	TickRate        float64 `yaml:"tick_rate" json:"tick_rate"`
	StopWhenSettled bool    `yaml:"stop_when_settled" json:"stop_when_settled"`
	SettleThreshold float64 `yaml:"settle_threshold" json:"settle_threshold"`
	// MaxTicks stops the driver after that many ticks. Zero means no limit.
	MaxTicks uint64 `yaml:"max_ticks" json:"max_ticks"`
}

// DefaultDriverConfig ticks at 60 Hz until cancelled.
func DefaultDriverConfig() DriverConfig {
	return DriverConfig{
		TickRate:        60,
		SettleThreshold: 1e-6,
	}
}

// Interval returns the time between ticks.
func (c DriverConfig) Interval() time.Duration {
	if !(c.TickRate > 0) {
		return 0
	}
	return time.Duration(float64(time.Second) / c.TickRate)
}

// Validate checks the rate and threshold.
func (c DriverConfig) Validate() error {
	return validation.NewConfigValidator("driver").
		PositiveFloat("tick_rate", c.TickRate).
		Custom("tick_rate", func() error {
			if c.TickRate > 0 && c.Interval() <= 0 {
				return errTickRateTooHigh
			}
			return nil
		}).
		NonNegativeFloat("settle_threshold", c.SettleThreshold).
		Validate()
}

// Driver ticks one session on a fixed clock.
type Driver struct {
	session *Session
	cfg     DriverConfig
	logger  logging.Logger

	// OnTick, when set, is called after every tick from the driver goroutine.
	OnTick func(*Session)
}

// NewDriver creates a driver for s.
func NewDriver(s *Session, cfg DriverConfig, logger logging.Logger) *Driver {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.Interval() <= 0 {
		cfg.TickRate = DefaultDriverConfig().TickRate
	}
	return &Driver{
		session: s,
		cfg:     cfg,
		logger:  logger.With(logging.Component("driver"), logging.SessionID(s.ID)),
	}
}

// Run ticks until ctx is cancelled, the tick limit is reached or, with
// StopWhenSettled, the layout comes to rest. It returns ctx.Err() when
// cancelled and nil otherwise.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.cfg.Interval())
	defer ticker.Stop()

	d.logger.Debug("driver started", logging.Float64("tick_rate", d.cfg.TickRate))

	var ran uint64
	for {
		select {
		case <-ctx.Done():
			d.logger.Debug("driver cancelled", logging.Tick(d.session.Ticks()))
			return ctx.Err()
		case <-ticker.C:
			d.session.Tick()
			ran++
			if d.OnTick != nil {
				d.OnTick(d.session)
			}

			if d.cfg.StopWhenSettled && d.session.Settled(d.cfg.SettleThreshold) {
				if d.session.metrics != nil {
					d.session.metrics.RecordSettled()
				}
				d.logger.Info("layout settled",
					logging.Tick(d.session.Ticks()),
					logging.Energy(d.session.KineticEnergy()),
				)
				return nil
			}
			if d.cfg.MaxTicks > 0 && ran >= d.cfg.MaxTicks {
				d.logger.Info("tick limit reached", logging.Tick(d.session.Ticks()))
				return nil
			}
		}
	}
}

var errTickRateTooHigh = errors.New("rate too high for a ticker")
