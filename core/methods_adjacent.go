// File: methods_adjacent.go
// Role: Adjacency queries: Neighbors (traversable edges), IncidentEdges
//       (undirected view), plus the private index helpers.
// Determinism:
//   - All slices are returned in edge insertion order.
// Concurrency:
//   - Read queries under muEdgeAdj read lock.

package core

import "fmt"

// Neighbors returns copies of the edges that can be traversed when leaving id:
// outgoing directed edges and undirected incident edges. Self-loops appear once.
//
// Complexity: O(deg(v) log deg(v)).
func (g *Graph) Neighbors(id string) ([]*Edge, error) {
	if !g.HasVertex(id) {
		return nil, fmt.Errorf("%w: %q", ErrVertexNotFound, id)
	}
	g.muEdgeAdj.RLock()
	out := make([]*Edge, 0, len(g.incident[id]))
	var e *Edge
	for eid := range g.incident[id] {
		e = g.edges[eid]
		if e.Directed && e.From != id {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	g.muEdgeAdj.RUnlock()
	sortEdges(out)

	return out, nil
}

// IncidentEdges returns copies of all edges touching id regardless of
// direction. This is the adjacency of the undirected traversal view.
//
// Complexity: O(deg(v) log deg(v)).
func (g *Graph) IncidentEdges(id string) ([]*Edge, error) {
	if !g.HasVertex(id) {
		return nil, fmt.Errorf("%w: %q", ErrVertexNotFound, id)
	}
	g.muEdgeAdj.RLock()
	out := make([]*Edge, 0, len(g.incident[id]))
	for eid := range g.incident[id] {
		cp := *g.edges[eid]
		out = append(out, &cp)
	}
	g.muEdgeAdj.RUnlock()
	sortEdges(out)

	return out, nil
}

// ensureAdjacency lazily allocates adjacencyList[from][to]. Caller holds muEdgeAdj.
func ensureAdjacency(g *Graph, from, to string) {
	if g.adjacencyList[from] == nil {
		g.adjacencyList[from] = make(map[string]map[string]struct{})
	}
	if g.adjacencyList[from][to] == nil {
		g.adjacencyList[from][to] = make(map[string]struct{})
	}
}

// ensureIncident lazily allocates incident[id]. Caller holds muEdgeAdj.
func ensureIncident(g *Graph, id string) {
	if g.incident[id] == nil {
		g.incident[id] = make(map[string]struct{})
	}
}
