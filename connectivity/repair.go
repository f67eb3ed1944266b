// File: repair.go
// Role: Repair: component detection via go-moremath's Tarjan SCC and
//       deterministic selection of the component to keep.
// Determinism:
//   - Vertices are indexed in sorted order and successors are emitted in
//     edge insertion order, so component membership and selection never
//     depend on map iteration.

package connectivity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aclements/go-moremath/graph/graphalg"

	"github.com/katalvlaran/streetroute/core"
)

var (
	// ErrNilGraph indicates that a nil *core.Graph was passed.
	ErrNilGraph = errors.New("connectivity: graph is nil")

	// ErrEmptyGraph indicates the graph has no vertices to keep.
	ErrEmptyGraph = errors.New("connectivity: graph has no vertices")
)

// Options configures Repair.
type Options struct {
	// Traversal selects strong (directed) or weak (undirected) components.
	Traversal core.Traversal
}

// Option is a functional option for Repair.
type Option func(*Options)

// WithTraversal sets the traversal policy. Default: core.TraversalDirected.
func WithTraversal(t core.Traversal) Option {
	return func(o *Options) { o.Traversal = t }
}

// Component is one strongly connected component.
type Component struct {
	Nodes  []string // sorted member IDs
	Weight float64  // total weight of edges with both endpoints inside
}

// Result is the outcome of Repair.
type Result struct {
	// Graph is the input graph itself when it was already connected,
	// otherwise the induced subgraph of Kept.
	Graph *core.Graph

	// WasDisconnected is true when components were dropped.
	WasDisconnected bool

	// Components lists every component, the kept one first.
	Components []Component

	// Dropped lists the removed vertex IDs in sorted order.
	Dropped []string
}

// Kept returns the node set of the retained component.
func (r *Result) Kept() []string {
	if len(r.Components) == 0 {
		return nil
	}

	return append([]string(nil), r.Components[0].Nodes...)
}

// Contains reports whether id survived the repair.
func (r *Result) Contains(id string) bool {
	if len(r.Components) == 0 {
		return false
	}
	nodes := r.Components[0].Nodes
	i := sort.SearchStrings(nodes, id)

	return i < len(nodes) && nodes[i] == id
}

// Repair returns the graph restricted to its largest connected component.
//
// Steps:
//  1. Index vertices in sorted order and build the successor lists.
//  2. Run Tarjan's algorithm (graphalg.SCC).
//  3. Order components by node count desc, edge weight desc, min ID asc.
//  4. With a single component return g unchanged; otherwise return the
//     induced subgraph of the first component and WasDisconnected = true.
//
// Errors: ErrNilGraph, ErrEmptyGraph.
//
// Complexity: O(V log V + E).
func Repair(g *core.Graph, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	cfg := Options{Traversal: core.TraversalDirected}
	for _, opt := range opts {
		opt(&cfg)
	}
	if g.VertexCount() == 0 {
		return nil, ErrEmptyGraph
	}

	adj, err := newAdapter(g, cfg.Traversal)
	if err != nil {
		return nil, fmt.Errorf("connectivity: %w", err)
	}
	sccs := graphalg.SCC(adj, graphalg.SCCSubnodeComponent)

	comps := make([]Component, sccs.NumNodes())
	for cid := range comps {
		members := sccs.Subnodes(cid)
		nodes := make([]string, len(members))
		for i, n := range members {
			nodes[i] = adj.ids[n]
		}
		sort.Strings(nodes)
		comps[cid].Nodes = nodes
	}
	for _, e := range g.Edges() {
		from, to := adj.index[e.From], adj.index[e.To]
		cf, ct := sccs.SubnodeComponent(from), sccs.SubnodeComponent(to)
		if cf == ct {
			comps[cf].Weight += e.Weight
		}
	}
	sortComponents(comps)

	res := &Result{Graph: g, Components: comps}
	if len(comps) == 1 {
		return res, nil
	}

	keep := make(map[string]bool, len(comps[0].Nodes))
	for _, id := range comps[0].Nodes {
		keep[id] = true
	}
	for _, c := range comps[1:] {
		res.Dropped = append(res.Dropped, c.Nodes...)
	}
	sort.Strings(res.Dropped)
	res.Graph = core.InducedSubgraph(g, keep)
	res.WasDisconnected = true

	return res, nil
}

// sortComponents orders by node count desc, weight desc, smallest ID asc.
func sortComponents(comps []Component) {
	sort.SliceStable(comps, func(i, j int) bool {
		a, b := comps[i], comps[j]
		if len(a.Nodes) != len(b.Nodes) {
			return len(a.Nodes) > len(b.Nodes)
		}
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}

		return a.Nodes[0] < b.Nodes[0]
	})
}
