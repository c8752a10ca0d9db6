package graph

import (
	"fmt"

	"github.com/dd0wney/cluso-ringview/pkg/claims"
)

// Kind classifies a node.
type Kind int

const (
	KindClaim Kind = iota
	KindIPAddress
	KindPhoneNumber
)

// String returns the string representation of a node kind
func (k Kind) String() string {
	switch k {
	case KindClaim:
		return "claim"
	case KindIPAddress:
		return "ip"
	case KindPhoneNumber:
		return "phone"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText lets kinds appear by name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name written by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "claim":
		*k = KindClaim
	case "ip":
		*k = KindIPAddress
	case "phone":
		*k = KindPhoneNumber
	default:
		return fmt.Errorf("unknown node kind %q", text)
	}
	return nil
}

// Category tags an edge with the identifier it shares. Presentation only.
type Category string

const (
	CategoryIP    Category = "ip"
	CategoryPhone Category = "phone"
)

// Node is one entity in the layout: a claim or a shared identifier.
type Node struct {
	ID       string         `json:"id"`
	Kind     Kind           `json:"kind"`
	Claim    *claims.Record `json:"claim,omitempty"`
	Position Vec3           `json:"position"`
	Velocity Vec3           `json:"velocity"`
}

// Edge links a claim node (Source) to an identifier node (Target).
// Source and Target index into Graph.Nodes.
type Edge struct {
	Source   int      `json:"-"`
	Target   int      `json:"-"`
	SourceID string   `json:"source"`
	TargetID string   `json:"target"`
	Category Category `json:"category"`
}

// Graph is the node/edge set produced by Build. Nodes live in one slice and
// edges refer to them by index.
type Graph struct {
	Nodes []Node
	Edges []Edge

	ids map[string]int
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.Nodes)
}

// Lookup returns the index of the node with the given id.
func (g *Graph) Lookup(id string) (int, bool) {
	i, ok := g.ids[id]
	return i, ok
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.ids[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// Degree counts the edges incident to a node, duplicates included.
func (g *Graph) Degree(id string) int {
	i, ok := g.ids[id]
	if !ok {
		return 0
	}
	n := 0
	for _, e := range g.Edges {
		if e.Source == i || e.Target == i {
			n++
		}
	}
	return n
}

// CountKind returns how many nodes have the given kind.
func (g *Graph) CountKind(kind Kind) int {
	n := 0
	for i := range g.Nodes {
		if g.Nodes[i].Kind == kind {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the node and edge slices. Claim payloads are
// shared since they are never mutated.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
		ids:   make(map[string]int, len(g.ids)),
	}
	copy(c.Nodes, g.Nodes)
	copy(c.Edges, g.Edges)
	for id, i := range g.ids {
		c.ids[id] = i
	}
	return c
}
