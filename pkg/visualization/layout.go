package visualization

import (
	"encoding/json"

	"github.com/dd0wney/cluso-ringview/pkg/graph"
)

// Frame snapshots the current layout. sel may be nil.
func (e *Engine) Frame(sel *Selection, opts ...FrameOption) Frame {
	var o frameOptions
	for _, opt := range opts {
		opt(&o)
	}

	selected, _ := sel.Selected()
	f := Frame{
		Tick:          e.ticks,
		KineticEnergy: e.KineticEnergy(),
		Selected:      selected,
		Nodes:         make([]FrameNode, 0, len(e.g.Nodes)),
		Edges:         make([]FrameEdge, 0, len(e.g.Edges)),
	}

	for i := range e.g.Nodes {
		n := &e.g.Nodes[i]
		fn := FrameNode{
			ID:       n.ID,
			Kind:     n.Kind,
			Label:    label(n),
			X:        n.Position.X,
			Y:        n.Position.Y,
			Z:        n.Position.Z,
			Selected: selected != "" && n.ID == selected,
		}
		if o.velocity {
			v := n.Velocity
			fn.Velocity = &v
		}
		if o.claims {
			fn.Claim = n.Claim
		}
		f.Nodes = append(f.Nodes, fn)
	}

	for _, edge := range e.g.Edges {
		f.Edges = append(f.Edges, FrameEdge{
			Source:   edge.SourceID,
			Target:   edge.TargetID,
			Category: edge.Category,
		})
	}

	return f
}

// ExportJSON encodes the frame for a renderer.
func (f Frame) ExportJSON() ([]byte, error) {
	return json.Marshal(f)
}

func label(n *graph.Node) string {
	if n.Kind == graph.KindClaim && n.Claim != nil {
		return n.Claim.Label()
	}
	return n.ID
}
