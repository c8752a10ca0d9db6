package visualization

import (
	"github.com/dd0wney/cluso-ringview/pkg/claims"
	"github.com/dd0wney/cluso-ringview/pkg/graph"
	"github.com/dd0wney/cluso-ringview/pkg/validation"
)

// Config holds the physical constants of the simulation.
type Config struct {
	RepulsionStrength  float64 `yaml:"repulsion_strength" json:"repulsion_strength"`
	GravityCoefficient float64 `yaml:"gravity_coefficient" json:"gravity_coefficient"`
	SpringRestLength   float64 `yaml:"spring_rest_length" json:"spring_rest_length"`
	SpringStiffness    float64 `yaml:"spring_stiffness" json:"spring_stiffness"`
	DampingFactor      float64 `yaml:"damping_factor" json:"damping_factor"`
	Epsilon            float64 `yaml:"epsilon" json:"epsilon"`
}

// DefaultConfig returns the constants the layout was tuned with.
func DefaultConfig() Config {
	return Config{
		RepulsionStrength:  2.0,
		GravityCoefficient: 0.01,
		SpringRestLength:   3.0,
		SpringStiffness:    0.05,
		DampingFactor:      0.85,
		Epsilon:            0.1,
	}
}

// Validate reports every out-of-range constant at once.
func (c Config) Validate() error {
	return validation.NewConfigValidator("simulation").
		NonNegativeFloat("repulsion_strength", c.RepulsionStrength).
		NonNegativeFloat("gravity_coefficient", c.GravityCoefficient).
		NonNegativeFloat("spring_rest_length", c.SpringRestLength).
		NonNegativeFloat("spring_stiffness", c.SpringStiffness).
		OpenRangeFloat("damping_factor", c.DampingFactor, 0, 1).
		PositiveFloat("epsilon", c.Epsilon).
		Validate()
}

// Frame is a JSON-ready snapshot of the layout after some tick.
type Frame struct {
	Tick          uint64      `json:"tick"`
	KineticEnergy float64     `json:"kinetic_energy"`
	Selected      string      `json:"selected,omitempty"`
	Nodes         []FrameNode `json:"nodes"`
	Edges         []FrameEdge `json:"edges"`
}

// FrameNode is one node as a renderer sees it.
type FrameNode struct {
	ID       string         `json:"id"`
	Kind     graph.Kind     `json:"kind"`
	Label    string         `json:"label"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Z        float64        `json:"z"`
	Velocity *graph.Vec3    `json:"velocity,omitempty"`
	Selected bool           `json:"selected,omitempty"`
	Claim    *claims.Record `json:"claim,omitempty"`
}

// FrameEdge is one edge as a renderer sees it.
type FrameEdge struct {
	Source   string         `json:"source"`
	Target   string         `json:"target"`
	Category graph.Category `json:"category"`
}

// FrameOption adjusts what a frame carries.
type FrameOption func(*frameOptions)

type frameOptions struct {
	velocity bool
	claims   bool
}

// IncludeVelocity adds each node's velocity to the frame.
func IncludeVelocity() FrameOption {
	return func(o *frameOptions) { o.velocity = true }
}

// IncludeClaims attaches the claim record to every claim node.
func IncludeClaims() FrameOption {
	return func(o *frameOptions) { o.claims = true }
}

// Point is a node projected into a 2-D viewport. Depth is the untouched Z
// coordinate so renderers can sort or shade by it.
type Point struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Depth float64 `json:"depth"`
}
