package graph

import (
	"math/rand"
	"time"

	"github.com/dd0wney/cluso-ringview/pkg/claims"
)

// DefaultSpread is the half-width of the cube new nodes are scattered in.
const DefaultSpread = 5.0

// BuildOption configures Build.
type BuildOption func(*builder)

// WithRand sets the random source used for initial positions.
func WithRand(rng *rand.Rand) BuildOption {
	return func(b *builder) {
		b.rng = rng
	}
}

// WithSpread sets the half-width of the initial placement cube.
func WithSpread(spread float64) BuildOption {
	return func(b *builder) {
		if spread > 0 {
			b.spread = spread
		}
	}
}

// nodeKey identifies a node by what it represents rather than by its id.
type nodeKey struct {
	kind  Kind
	value string
}

type builder struct {
	g      *Graph
	index  map[nodeKey]int
	rng    *rand.Rand
	spread float64
}

// Build turns claim records into a deduplicated node/edge set.
//
// Every distinct claim id becomes one claim node. Every distinct non-blank IP
// address and phone number becomes one identifier node, and each record
// carrying it gets an edge to that node. Repeated records still emit their
// edges. Ids are the raw values; a value already taken by a node of another
// kind is prefixed with "<kind>:" until it is free. New nodes start at a random point in
// the cube [-spread, spread]^3 with zero velocity.
func Build(records []claims.Record, opts ...BuildOption) *Graph {
	b := &builder{
		g: &Graph{
			Nodes: make([]Node, 0, len(records)),
			Edges: make([]Edge, 0, len(records)),
			ids:   make(map[string]int, len(records)),
		},
		index:  make(map[nodeKey]int, len(records)),
		spread: DefaultSpread,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		b.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for i := range records {
		rec := records[i]
		claimIdx, isNew := b.node(KindClaim, rec.ID)
		if isNew {
			b.g.Nodes[claimIdx].Claim = &rec
		}

		if rec.HasIP() {
			ipIdx, _ := b.node(KindIPAddress, rec.IPAddress)
			b.link(claimIdx, ipIdx, CategoryIP)
		}
		if rec.HasPhone() {
			phoneIdx, _ := b.node(KindPhoneNumber, rec.PhoneNumber)
			b.link(claimIdx, phoneIdx, CategoryPhone)
		}
	}

	return b.g
}

// node returns the index of the node for (kind, value), creating it if needed.
func (b *builder) node(kind Kind, value string) (int, bool) {
	key := nodeKey{kind: kind, value: value}
	if idx, ok := b.index[key]; ok {
		return idx, false
	}

	id := value
	for {
		if _, taken := b.g.ids[id]; !taken {
			break
		}
		id = kind.String() + ":" + id
	}

	idx := len(b.g.Nodes)
	b.g.Nodes = append(b.g.Nodes, Node{
		ID:       id,
		Kind:     kind,
		Position: b.randomPosition(),
	})
	b.g.ids[id] = idx
	b.index[key] = idx
	return idx, true
}

func (b *builder) link(source, target int, category Category) {
	// claim and identifier keys never coincide, so source != target
	b.g.Edges = append(b.g.Edges, Edge{
		Source:   source,
		Target:   target,
		SourceID: b.g.Nodes[source].ID,
		TargetID: b.g.Nodes[target].ID,
		Category: category,
	})
}

func (b *builder) randomPosition() Vec3 {
	return Vec3{
		X: (b.rng.Float64()*2 - 1) * b.spread,
		Y: (b.rng.Float64()*2 - 1) * b.spread,
		Z: (b.rng.Float64()*2 - 1) * b.spread,
	}
}
