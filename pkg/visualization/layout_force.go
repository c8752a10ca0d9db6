package visualization

import (
	"math"

	"github.com/dd0wney/cluso-ringview/pkg/graph"
)

// Engine advances a force-directed 3-D layout one tick at a time.
//
// The engine owns a private copy of the graph it was built from. It is not
// safe for concurrent use; callers serialize Tick against reads.
type Engine struct {
	cfg   Config
	g     *graph.Graph
	ticks uint64
}

// NewEngine copies g and prepares it for simulation. A nil graph behaves
// like an empty one. The config is used as given.
func NewEngine(g *graph.Graph, cfg Config) *Engine {
	if g == nil {
		g = graph.Build(nil)
	}
	return &Engine{cfg: cfg, g: g.Clone()}
}

// Config returns the constants the engine runs with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Tick advances the simulation by exactly one timestep.
//
// Forces are accumulated into velocities in three passes (repulsion,
// gravity, springs) that all read the positions from the start of the tick;
// positions move only in the final integration pass.
func (e *Engine) Tick() {
	if len(e.g.Nodes) == 0 {
		return
	}
	e.repel()
	e.attractToCenter()
	e.applySprings()
	e.integrate()
	e.ticks++
}

// repel pushes every unordered pair apart with strength R/(|d|²+ε).
func (e *Engine) repel() {
	nodes := e.g.Nodes
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			d := nodes[i].Position.Sub(nodes[j].Position)
			distSq := d.LenSq() + e.cfg.Epsilon
			f := e.cfg.RepulsionStrength / distSq
			push := d.Scale(f / math.Sqrt(distSq))

			nodes[i].Velocity = nodes[i].Velocity.Add(push)
			nodes[j].Velocity = nodes[j].Velocity.Sub(push)
		}
	}
}

func (e *Engine) attractToCenter() {
	nodes := e.g.Nodes
	for i := range nodes {
		nodes[i].Velocity = nodes[i].Velocity.Sub(nodes[i].Position.Scale(e.cfg.GravityCoefficient))
	}
}

// applySprings pulls (or pushes) each edge's endpoints toward the rest length.
func (e *Engine) applySprings() {
	nodes := e.g.Nodes
	for _, edge := range e.g.Edges {
		s, t := &nodes[edge.Source], &nodes[edge.Target]
		delta := t.Position.Sub(s.Position)
		length := delta.Len()
		if length == 0 {
			continue
		}
		force := (length - e.cfg.SpringRestLength) * e.cfg.SpringStiffness
		pull := delta.Scale(force / length)

		s.Velocity = s.Velocity.Add(pull)
		t.Velocity = t.Velocity.Sub(pull)
	}
}

func (e *Engine) integrate() {
	nodes := e.g.Nodes
	for i := range nodes {
		nodes[i].Velocity = nodes[i].Velocity.Scale(e.cfg.DampingFactor)
		nodes[i].Position = nodes[i].Position.Add(nodes[i].Velocity)
	}
}

// Len returns the number of simulated nodes.
func (e *Engine) Len() int {
	return len(e.g.Nodes)
}

// Ticks returns how many non-empty ticks have run.
func (e *Engine) Ticks() uint64 {
	return e.ticks
}

// Position returns the current position of a node.
func (e *Engine) Position(id string) (graph.Vec3, bool) {
	i, ok := e.g.Lookup(id)
	if !ok {
		return graph.Vec3{}, false
	}
	return e.g.Nodes[i].Position, true
}

// Velocity returns the current velocity of a node.
func (e *Engine) Velocity(id string) (graph.Vec3, bool) {
	i, ok := e.g.Lookup(id)
	if !ok {
		return graph.Vec3{}, false
	}
	return e.g.Nodes[i].Velocity, true
}

// Has reports whether a node with the given id is simulated.
func (e *Engine) Has(id string) bool {
	_, ok := e.g.Lookup(id)
	return ok
}

// Nodes returns a copy of the simulated nodes.
func (e *Engine) Nodes() []graph.Node {
	out := make([]graph.Node, len(e.g.Nodes))
	copy(out, e.g.Nodes)
	return out
}

// Edges returns a copy of the edge list.
func (e *Engine) Edges() []graph.Edge {
	out := make([]graph.Edge, len(e.g.Edges))
	copy(out, e.g.Edges)
	return out
}

// KineticEnergy returns the sum of ½|v|² over all nodes.
func (e *Engine) KineticEnergy() float64 {
	total := 0.0
	for i := range e.g.Nodes {
		total += 0.5 * e.g.Nodes[i].Velocity.LenSq()
	}
	return total
}

// MaxDistance returns the largest distance between any two nodes.
func (e *Engine) MaxDistance() float64 {
	nodes := e.g.Nodes
	maxSq := 0.0
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if d := nodes[i].Position.Sub(nodes[j].Position).LenSq(); d > maxSq {
				maxSq = d
			}
		}
	}
	return math.Sqrt(maxSq)
}

// Settled reports whether the kinetic energy has dropped below threshold.
func (e *Engine) Settled(threshold float64) bool {
	return e.KineticEnergy() < threshold
}
