package session

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-ringview/pkg/claims"
	"github.com/dd0wney/cluso-ringview/pkg/graph"
	"github.com/dd0wney/cluso-ringview/pkg/metrics"
	"github.com/dd0wney/cluso-ringview/pkg/visualization"
)

func scenario() []claims.Record {
	return []claims.Record{
		{ID: "C1", IPAddress: "10.0.0.1", PhoneNumber: "555"},
		{ID: "C2", IPAddress: "10.0.0.1"},
		{ID: "C3"},
	}
}

func seeded() Option {
	return WithBuildOptions(graph.WithRand(rand.New(rand.NewSource(1))))
}

func counter(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	if m.Counter != nil {
		return m.Counter.GetValue()
	}
	return m.Gauge.GetValue()
}

func TestNew(t *testing.T) {
	reg := metrics.NewRegistry()
	s, err := New(scenario(), visualization.DefaultConfig(), seeded(), WithMetrics(reg))
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.False(t, s.CreatedAt.IsZero())
	assert.Equal(t, Summary{
		Claims:          3,
		IPAddresses:     1,
		PhoneNumbers:    1,
		Edges:           3,
		Rings:           2,
		SuspiciousRings: 1,
	}, s.Summary())
	assert.Equal(t, 5, s.Summary().Nodes())

	rings := s.Rings()
	require.Len(t, rings, 2)
	assert.Equal(t, []string{"C1", "C2"}, rings[0].Claims)
	assert.Equal(t, []string{"C3"}, rings[1].Claims)

	assert.Equal(t, 1.0, counter(t, reg.GraphBuildsTotal))
	assert.Equal(t, 3.0, counter(t, reg.GraphEdges))
}

func TestNew_UniqueIDs(t *testing.T) {
	a, err := New(scenario(), visualization.DefaultConfig())
	require.NoError(t, err)
	b, err := New(scenario(), visualization.DefaultConfig())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := visualization.DefaultConfig()
	cfg.DampingFactor = 1.5

	_, err := New(scenario(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "damping_factor")
}

func TestNew_InvalidRecords(t *testing.T) {
	reg := metrics.NewRegistry()
	_, err := New([]claims.Record{{ID: "  "}}, visualization.DefaultConfig(), WithMetrics(reg))
	require.Error(t, err)
	assert.ErrorIs(t, err, claims.ErrInvalidRecord)
	assert.Equal(t, 1.0, counter(t, reg.ClaimsRejectedTotal))
}

func TestNew_DisplayFieldsOutOfRange(t *testing.T) {
	fraud := 2.0
	records := []claims.Record{
		{ID: "C1", PhoneNumber: strings.Repeat("5", 40), RiskScore: 150, Amount: -10, FraudScore: &fraud},
		{ID: "C2", PhoneNumber: strings.Repeat("5", 40)},
	}

	s, err := New(records, visualization.DefaultConfig(), seeded())
	require.NoError(t, err)
	assert.Equal(t, Summary{
		Claims:          2,
		PhoneNumbers:    1,
		Edges:           2,
		Rings:           1,
		SuspiciousRings: 1,
	}, s.Summary())
}

func TestSession_Tick(t *testing.T) {
	reg := metrics.NewRegistry()
	s, err := New(scenario(), visualization.DefaultConfig(), seeded(), WithMetrics(reg))
	require.NoError(t, err)

	before, ok := s.Position("C1")
	require.True(t, ok)

	s.Tick()
	energy := s.Step(9)

	assert.Equal(t, uint64(10), s.Ticks())
	assert.Equal(t, s.KineticEnergy(), energy)
	assert.Equal(t, 10.0, counter(t, reg.SimulationTicksTotal))

	after, _ := s.Position("C1")
	assert.NotEqual(t, before, after)
	assert.Greater(t, s.MaxDistance(), 0.0)
}

func TestSession_Select(t *testing.T) {
	reg := metrics.NewRegistry()
	s, err := New(scenario(), visualization.DefaultConfig(), seeded(), WithMetrics(reg))
	require.NoError(t, err)

	require.NoError(t, s.Select("555"))
	id, ok := s.Selected()
	assert.True(t, ok)
	assert.Equal(t, "555", id)
	assert.True(t, s.Selection().IsSelected("555"))

	err = s.Select("nope")
	assert.ErrorIs(t, err, ErrNodeNotFound)
	id, _ = s.Selected()
	assert.Equal(t, "555", id, "unknown id leaves selection alone")

	frame := s.Frame()
	assert.Equal(t, "555", frame.Selected)

	require.NoError(t, s.Select(""))
	_, ok = s.Selected()
	assert.False(t, ok)

	assert.Equal(t, 1.0, counter(t, reg.SelectionChangesTotal.WithLabelValues("select")))
	assert.Equal(t, 1.0, counter(t, reg.SelectionChangesTotal.WithLabelValues("clear")))
}

func TestSession_ConcurrentTickAndFrame(t *testing.T) {
	s, err := New(scenario(), visualization.DefaultConfig(), seeded())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			s.Tick()
		}
	}()

	for {
		select {
		case <-done:
			assert.Equal(t, uint64(200), s.Ticks())
			return
		case <-ctx.Done():
			t.Fatal("ticks did not finish")
		default:
			f := s.Frame()
			assert.Len(t, f.Nodes, 5)
		}
	}
}

func TestSummary_RingsMatchGraph(t *testing.T) {
	s, err := New(nil, visualization.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, s.Summary())
	assert.Empty(t, s.Rings())

	s.Tick()
	assert.Zero(t, s.Ticks())
	assert.True(t, errors.Is(s.Select("C1"), ErrNodeNotFound))
}
