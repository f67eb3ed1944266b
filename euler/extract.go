// File: extract.go
// Role: ExtractCircuit over a core.Graph, producing a route.Route with the
//       traversed edge IDs.

package euler

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/route"
)

// ErrNilGraph indicates that a nil *core.Graph was passed.
var ErrNilGraph = errors.New("euler: graph is nil")

// Options configures ExtractCircuit.
type Options struct {
	// Traversal selects whether edge direction constrains the circuit.
	Traversal core.Traversal
}

// Option is a functional option for ExtractCircuit.
type Option func(*Options)

// WithTraversal sets the traversal policy. Default: core.TraversalUndirected.
func WithTraversal(t core.Traversal) Option {
	return func(o *Options) { o.Traversal = t }
}

// ExtractCircuit returns a circuit that starts and ends at start and uses
// every edge of g exactly once, parallel copies included.
//
// Preconditions (checked):
//   - undirected traversal: every vertex has even degree, self-loops aside;
//   - directed traversal: no undirected edges and out-degree == in-degree;
//   - all edges lie in the component of start.
//
// The route weight is the sum of all edge weights. A graph without edges
// yields the single-node route [start] of weight 0.
//
// Errors: ErrNilGraph, ErrNotEulerian, ErrUnreachableStart.
//
// Complexity: O(V log V + E log E).
func ExtractCircuit(g *core.Graph, start string, opts ...Option) (route.Route, error) {
	if g == nil {
		return route.Route{}, ErrNilGraph
	}
	cfg := Options{Traversal: core.TraversalUndirected}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !g.HasVertex(start) {
		return route.Route{}, fmt.Errorf("%w: %q is not in the graph", ErrUnreachableStart, start)
	}
	directed := cfg.Traversal == core.TraversalDirected

	edges := g.Edges()
	if err := checkBalanced(g, edges, directed); err != nil {
		return route.Route{}, err
	}

	ids := g.Vertices()
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	arcs := make([]Arc, len(edges))
	for k, e := range edges {
		arcs[k] = Arc{From: index[e.From], To: index[e.To]}
	}

	walk, err := Circuit(len(ids), arcs, index[start], directed)
	if err != nil {
		if errors.Is(err, ErrUnreachableStart) {
			return route.Route{}, fmt.Errorf("%w: %q", ErrUnreachableStart, start)
		}

		return route.Route{}, err
	}

	nodes := make([]string, len(walk.Vertices))
	for i, v := range walk.Vertices {
		nodes[i] = ids[v]
	}
	trail := make([]string, len(walk.Arcs))
	var weight float64
	for i, a := range walk.Arcs {
		trail[i] = edges[a].ID
		weight += edges[a].Weight
	}

	return route.NewWithEdges(nodes, trail, weight)
}

// checkBalanced verifies degree parity (undirected) or balance (directed)
// with vertex IDs in the error.
func checkBalanced(g *core.Graph, edges []*core.Edge, directed bool) error {
	if directed {
		for _, e := range edges {
			if !e.Directed {
				return fmt.Errorf("%w: undirected edge %s under directed traversal", ErrNotEulerian, e.ID)
			}
		}
	}
	deg := g.Degrees()
	for _, id := range g.Vertices() {
		rec := deg[id]
		if directed && rec.Imbalance() != 0 {
			return fmt.Errorf("%w: vertex %q has out-in=%d", ErrNotEulerian, id, rec.Imbalance())
		}
		if !directed && rec.Odd() {
			return fmt.Errorf("%w: vertex %q has odd degree %d", ErrNotEulerian, id, rec.Total())
		}
	}

	return nil
}
