// File: methods_clone.go
// Role: Copies: CloneEmpty (vertices only) and Clone (vertices + edges).
// Determinism:
//   - Edge IDs and insertion order are preserved; the ID counter carries over
//     so edges added to a clone never collide with copied IDs.
// Concurrency:
//   - Read locks on the source; the result is a fresh graph.

package core

import "sync/atomic"

// CloneEmpty returns a graph with the same vertices, metadata and default
// direction but no edges.
//
// Complexity: O(V).
func (g *Graph) CloneEmpty() *Graph {
	out := NewGraph(WithDirected(g.Directed()))
	g.muVert.RLock()
	for id, v := range g.vertices {
		out.vertices[id] = &Vertex{ID: id, Metadata: copyMetadata(v.Metadata)}
	}
	g.muVert.RUnlock()
	atomic.StoreUint64(&out.nextEdgeID, atomic.LoadUint64(&g.nextEdgeID))

	return out
}

// Clone returns a deep copy of vertices and edges. Metadata values are shared.
//
// Complexity: O(V + E).
func (g *Graph) Clone() *Graph {
	out := g.CloneEmpty()
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	for _, e := range g.edges {
		cp := *e
		out.insertEdgeLocked(&cp)
	}
	atomic.StoreUint64(&out.nextEdgeID, atomic.LoadUint64(&g.nextEdgeID))

	return out
}

func copyMetadata(md map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(md))
	for k, v := range md {
		out[k] = v
	}

	return out
}
