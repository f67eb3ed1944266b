// File: methods_vertices.go
// Role: Vertex lifecycle and degree bookkeeping: AddVertex/HasVertex/Vertex/
//       Vertices/VertexCount/SetVertexMetadata, Degree/Degrees.
// Determinism:
//   - Vertices() returns IDs sorted ascending.
// Concurrency:
//   - Vertex catalog under muVert; degree scans under muEdgeAdj read lock.

package core

import (
	"fmt"
	"sort"
)

// DegreeRecord is the per-vertex degree bookkeeping of the current edge set.
//
// In and Out count directed non-loop edges, Undirected counts undirected
// non-loop edges, and Loops counts self-loops of either kind. Loops never
// influence parity or imbalance, so they are kept apart.
type DegreeRecord struct {
	In         int
	Out        int
	Undirected int
	Loops      int
}

// Total returns the degree of the vertex in the undirected traversal view,
// excluding self-loops.
func (d DegreeRecord) Total() int { return d.In + d.Out + d.Undirected }

// Odd reports whether Total is odd.
func (d DegreeRecord) Odd() bool { return d.Total()&1 == 1 }

// Imbalance returns out-degree minus in-degree over directed edges.
func (d DegreeRecord) Imbalance() int { return d.Out - d.In }

// AddVertex inserts a vertex with the given ID. Adding an existing ID is a no-op.
//
// Complexity: O(1).
func (g *Graph) AddVertex(id string) error {
	if id == "" {
		return ErrEmptyVertexID
	}
	g.muVert.Lock()
	defer g.muVert.Unlock()
	if _, ok := g.vertices[id]; !ok {
		g.vertices[id] = &Vertex{ID: id, Metadata: make(map[string]interface{})}
	}

	return nil
}

// SetVertexMetadata stores value under key on an existing vertex.
func (g *Graph) SetVertexMetadata(id, key string, value interface{}) error {
	g.muVert.Lock()
	defer g.muVert.Unlock()
	v, ok := g.vertices[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrVertexNotFound, id)
	}
	v.Metadata[key] = value

	return nil
}

// HasVertex reports whether the vertex exists.
func (g *Graph) HasVertex(id string) bool {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	_, ok := g.vertices[id]

	return ok
}

// Vertex returns a copy of the vertex with the given ID.
// The Metadata map is copied one level deep.
func (g *Graph) Vertex(id string) (Vertex, error) {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	v, ok := g.vertices[id]
	if !ok {
		return Vertex{}, fmt.Errorf("%w: %q", ErrVertexNotFound, id)
	}
	md := make(map[string]interface{}, len(v.Metadata))
	for k, val := range v.Metadata {
		md[k] = val
	}

	return Vertex{ID: v.ID, Metadata: md}, nil
}

// Vertices returns all vertex IDs in ascending order.
//
// Complexity: O(V log V).
func (g *Graph) Vertices() []string {
	g.muVert.RLock()
	ids := make([]string, 0, len(g.vertices))
	for id := range g.vertices {
		ids = append(ids, id)
	}
	g.muVert.RUnlock()
	sort.Strings(ids)

	return ids
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	return len(g.vertices)
}

// Degree returns the DegreeRecord of a single vertex.
//
// Complexity: O(deg(v)).
func (g *Graph) Degree(id string) (DegreeRecord, error) {
	if !g.HasVertex(id) {
		return DegreeRecord{}, fmt.Errorf("%w: %q", ErrVertexNotFound, id)
	}
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	var rec DegreeRecord
	for eid := range g.incident[id] {
		accumulateDegree(&rec, id, g.edges[eid])
	}

	return rec, nil
}

// Degrees computes the DegreeRecord of every vertex, isolated ones included.
// The result is a fresh map owned by the caller.
//
// Complexity: O(V + E).
func (g *Graph) Degrees() map[string]DegreeRecord {
	out := make(map[string]DegreeRecord, g.VertexCount())
	for _, id := range g.Vertices() {
		out[id] = DegreeRecord{}
	}
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	var rec DegreeRecord
	for _, e := range g.edges {
		if e.IsLoop() {
			rec = out[e.From]
			rec.Loops++
			out[e.From] = rec
			continue
		}
		rec = out[e.From]
		accumulateDegree(&rec, e.From, e)
		out[e.From] = rec
		rec = out[e.To]
		accumulateDegree(&rec, e.To, e)
		out[e.To] = rec
	}

	return out
}

// accumulateDegree adds the contribution of e to the record of vertex id.
func accumulateDegree(rec *DegreeRecord, id string, e *Edge) {
	switch {
	case e.IsLoop():
		rec.Loops++
	case !e.Directed:
		rec.Undirected++
	case e.From == id:
		rec.Out++
	default:
		rec.In++
	}
}
