package graph

import (
	"container/list"
	"sort"
)

// Ring is a connected component of the claim/identifier graph: a set of
// claims linked through the identifiers they share.
type Ring struct {
	ID          int      `json:"id"`
	Claims      []string `json:"claims"`
	Identifiers []string `json:"identifiers"`
	Size        int      `json:"size"`
}

// Shared reports whether more than one claim belongs to the ring.
func (r Ring) Shared() bool {
	return len(r.Claims) > 1
}

// Rings finds all connected components. Rings are ordered by claim count,
// largest first, then by their first claim id; ids are assigned in that order.
func Rings(g *Graph) []Ring {
	n := len(g.Nodes)
	if n == 0 {
		return nil
	}

	adjacency := make([][]int, n)
	for _, e := range g.Edges {
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
		adjacency[e.Target] = append(adjacency[e.Target], e.Source)
	}

	visited := make([]bool, n)
	rings := make([]Ring, 0)

	// BFS to find each component
	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		var ring Ring
		queue := list.New()
		queue.PushBack(start)
		visited[start] = true

		for queue.Len() > 0 {
			idx, ok := queue.Remove(queue.Front()).(int)
			if !ok {
				continue
			}
			node := &g.Nodes[idx]
			if node.Kind == KindClaim {
				ring.Claims = append(ring.Claims, node.ID)
			} else {
				ring.Identifiers = append(ring.Identifiers, node.ID)
			}

			for _, next := range adjacency[idx] {
				if !visited[next] {
					visited[next] = true
					queue.PushBack(next)
				}
			}
		}

		sort.Strings(ring.Claims)
		sort.Strings(ring.Identifiers)
		ring.Size = len(ring.Claims) + len(ring.Identifiers)
		rings = append(rings, ring)
	}

	sort.SliceStable(rings, func(i, j int) bool {
		if len(rings[i].Claims) != len(rings[j].Claims) {
			return len(rings[i].Claims) > len(rings[j].Claims)
		}
		return firstOf(rings[i]) < firstOf(rings[j])
	})
	for i := range rings {
		rings[i].ID = i
	}
	return rings
}

func firstOf(r Ring) string {
	if len(r.Claims) > 0 {
		return r.Claims[0]
	}
	if len(r.Identifiers) > 0 {
		return r.Identifiers[0]
	}
	return ""
}
