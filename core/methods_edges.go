// File: methods_edges.go
// Role: Edge lifecycle and queries: AddEdge/Edge/Edges/EdgeCount/EdgesBetween/
//       TotalWeight/HasUndirectedEdges, plus nextEdgeID().
// Determinism:
//   - Edges() and EdgesBetween() return edges in insertion order.
//   - nextEdgeID() is monotonic and stable ("e" + decimal).
// Concurrency:
//   - Mutations under muEdgeAdj write lock, queries under its read lock.

package core

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync/atomic"
)

// edgeIDPrefix is the textual prefix of generated edge identifiers.
const edgeIDPrefix = 'e'

// AddEdge creates a new edge from→to and returns its ID.
//
// Steps:
//  1. Validate IDs and weight (NaN or ±Inf ⇒ ErrBadWeight).
//  2. Ensure endpoints via AddVertex.
//  3. Build the Edge with the graph default direction, apply opts.
//  4. Register it in the catalog, adjacencyList and incident index.
//
// Negative weights are stored as given; the shortest-path stage rejects them.
//
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(from, to string, weight float64, opts ...EdgeOption) (string, error) {
	if from == "" || to == "" {
		return "", ErrEmptyVertexID
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return "", fmt.Errorf("%w: %s→%s weight=%v", ErrBadWeight, from, to, weight)
	}
	if err := g.AddVertex(from); err != nil {
		return "", err
	}
	if err := g.AddVertex(to); err != nil {
		return "", err
	}

	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	seq := atomic.AddUint64(&g.nextEdgeID, 1)
	e := &Edge{
		ID:       formatEdgeID(seq),
		From:     from,
		To:       to,
		Weight:   weight,
		Directed: g.directed,
		seq:      seq,
	}
	for _, opt := range opts {
		opt(e)
	}
	g.insertEdgeLocked(e)

	return e.ID, nil
}

// insertEdgeLocked registers e in every index. Caller holds muEdgeAdj.
func (g *Graph) insertEdgeLocked(e *Edge) {
	g.edges[e.ID] = e
	ensureAdjacency(g, e.From, e.To)
	g.adjacencyList[e.From][e.To][e.ID] = struct{}{}
	if !e.Directed && !e.IsLoop() {
		ensureAdjacency(g, e.To, e.From)
		g.adjacencyList[e.To][e.From][e.ID] = struct{}{}
	}
	ensureIncident(g, e.From)
	g.incident[e.From][e.ID] = struct{}{}
	ensureIncident(g, e.To)
	g.incident[e.To][e.ID] = struct{}{}
}

// Edge returns a copy of the edge with the given ID.
func (g *Graph) Edge(edgeID string) (Edge, error) {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	e, ok := g.edges[edgeID]
	if !ok {
		return Edge{}, fmt.Errorf("%w: %q", ErrEdgeNotFound, edgeID)
	}

	return *e, nil
}

// Edges returns copies of all edges in insertion order.
//
// Complexity: O(E log E).
func (g *Graph) Edges() []*Edge {
	g.muEdgeAdj.RLock()
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		cp := *e
		out = append(out, &cp)
	}
	g.muEdgeAdj.RUnlock()
	sortEdges(out)

	return out
}

// EdgeCount returns the number of edges, parallel copies included.
func (g *Graph) EdgeCount() int {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return len(g.edges)
}

// EdgesBetween returns copies of every edge usable to move from→to: directed
// edges from→to and undirected edges joining the pair. Insertion order.
func (g *Graph) EdgesBetween(from, to string) []*Edge {
	g.muEdgeAdj.RLock()
	ids := g.adjacencyList[from][to]
	out := make([]*Edge, 0, len(ids))
	for eid := range ids {
		cp := *g.edges[eid]
		out = append(out, &cp)
	}
	g.muEdgeAdj.RUnlock()
	sortEdges(out)

	return out
}

// TotalWeight returns the sum of all edge weights, parallel copies included.
func (g *Graph) TotalWeight() float64 {
	edges := g.Edges()
	var sum float64
	for _, e := range edges {
		sum += e.Weight
	}

	return sum
}

// HasUndirectedEdges reports whether at least one edge is bidirectional.
func (g *Graph) HasUndirectedEdges() bool {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	for _, e := range g.edges {
		if !e.Directed {
			return true
		}
	}

	return false
}

// sortEdges orders edges by insertion sequence.
func sortEdges(edges []*Edge) {
	sort.Slice(edges, func(i, j int) bool { return edges[i].seq < edges[j].seq })
}

// formatEdgeID renders "e<seq>" without fmt.
func formatEdgeID(seq uint64) string {
	buf := make([]byte, 0, 21)
	buf = append(buf, edgeIDPrefix)
	buf = strconv.AppendUint(buf, seq, 10)

	return string(buf)
}
