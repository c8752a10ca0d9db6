package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-ringview/pkg/metrics"
	"github.com/dd0wney/cluso-ringview/pkg/visualization"
)

func TestDriverConfig(t *testing.T) {
	cfg := DefaultDriverConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Second/60, cfg.Interval())

	tests := []struct {
		name string
		cfg  DriverConfig
	}{
		{"zero rate", DriverConfig{}},
		{"negative rate", DriverConfig{TickRate: -5}},
		{"rate beyond ticker resolution", DriverConfig{TickRate: 1e12}},
		{"negative threshold", DriverConfig{TickRate: 60, SettleThreshold: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}

func TestDriver_StopsOnCancel(t *testing.T) {
	s, err := New(scenario(), visualization.DefaultConfig(), seeded())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	d := NewDriver(s, DriverConfig{TickRate: 1000}, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()

	require.Eventually(t, func() bool { return s.Ticks() > 0 }, 2*time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not stop after cancel")
	}
}

func TestDriver_MaxTicks(t *testing.T) {
	s, err := New(scenario(), visualization.DefaultConfig(), seeded())
	require.NoError(t, err)

	var seen int
	d := NewDriver(s, DriverConfig{TickRate: 1000, MaxTicks: 7}, nil)
	d.OnTick = func(*Session) { seen++ }

	require.NoError(t, d.Run(context.Background()))
	assert.Equal(t, uint64(7), s.Ticks())
	assert.Equal(t, 7, seen)
}

func TestDriver_StopWhenSettled(t *testing.T) {
	reg := metrics.NewRegistry()
	s, err := New(scenario(), visualization.DefaultConfig(), seeded(), WithMetrics(reg))
	require.NoError(t, err)

	// any real energy is below this threshold, so the first tick settles
	d := NewDriver(s, DriverConfig{TickRate: 1000, StopWhenSettled: true, SettleThreshold: 1e12}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Run(ctx))
	assert.Equal(t, uint64(1), s.Ticks())
	assert.Equal(t, 1.0, counter(t, reg.SimulationSettledTotal))
}

func TestDriver_FallsBackToDefaultRate(t *testing.T) {
	s, err := New(scenario(), visualization.DefaultConfig(), seeded())
	require.NoError(t, err)

	d := NewDriver(s, DriverConfig{}, nil)
	assert.Equal(t, DefaultDriverConfig().TickRate, d.cfg.TickRate)
}
