// File: view.go
// Role: Non-mutating graph views.
// Determinism:
//   - Preserves vertex and edge IDs, keys, directedness and insertion order.
// Concurrency:
//   - Read locks on source; the result is a fresh graph instance.

package core

import "sync/atomic"

// InducedSubgraph returns a new Graph induced by the set keep of vertex IDs:
// the result contains only vertices v where keep[v] is true, and all edges
// whose endpoints are both kept. The input graph is not mutated.
//
// Complexity: O(V + E).
func InducedSubgraph(g *Graph, keep map[string]bool) *Graph {
	out := NewGraph(WithDirected(g.Directed()))

	g.muVert.RLock()
	for id, v := range g.vertices {
		if keep[id] {
			out.vertices[id] = &Vertex{ID: id, Metadata: copyMetadata(v.Metadata)}
		}
	}
	g.muVert.RUnlock()

	g.muEdgeAdj.RLock()
	for _, e := range g.edges {
		if keep[e.From] && keep[e.To] {
			cp := *e
			out.insertEdgeLocked(&cp)
		}
	}
	atomic.StoreUint64(&out.nextEdgeID, atomic.LoadUint64(&g.nextEdgeID))
	g.muEdgeAdj.RUnlock()

	return out
}
