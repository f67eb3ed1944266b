// SPDX-License-Identifier: MIT

// Package route defines Route, the immutable result of every routing stage:
// an ordered node sequence (revisits allowed) and its accumulated weight.
//
// A Route may also carry the IDs of the graph edges it traverses, one per hop,
// when the producing stage knows them (circuit extraction does, tour
// approximation over a distance matrix does not).
package route

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/streetroute/core"
)

var (
	// ErrEdgeCountMismatch indicates the edge trail does not have one entry per hop.
	ErrEdgeCountMismatch = errors.New("route: edge trail length must equal hop count")

	// ErrMissingHop indicates two consecutive nodes are not joined by any edge.
	ErrMissingHop = errors.New("route: consecutive nodes are not adjacent")
)

// Route is an ordered node sequence with its total weight.
// The zero value is the empty route.
type Route struct {
	nodes  []string
	edges  []string
	weight float64
}

// New builds a Route from a node sequence and its weight. The slice is copied.
func New(nodes []string, weight float64) Route {
	return Route{nodes: append([]string(nil), nodes...), weight: weight}
}

// NewWithEdges builds a Route that also records the traversed edge IDs.
// len(edges) must be len(nodes)-1 (or zero for routes with fewer than two nodes).
func NewWithEdges(nodes, edges []string, weight float64) (Route, error) {
	hops := len(nodes) - 1
	if hops < 0 {
		hops = 0
	}
	if len(edges) != hops {
		return Route{}, fmt.Errorf("%w: %d edges for %d hops", ErrEdgeCountMismatch, len(edges), hops)
	}
	r := New(nodes, weight)
	r.edges = append([]string(nil), edges...)

	return r, nil
}

// Nodes returns a copy of the node sequence.
func (r Route) Nodes() []string { return append([]string(nil), r.nodes...) }

// Edges returns a copy of the traversed edge IDs, nil when unknown.
func (r Route) Edges() []string {
	if r.edges == nil {
		return nil
	}

	return append([]string(nil), r.edges...)
}

// Weight returns the total accumulated weight.
func (r Route) Weight() float64 { return r.weight }

// Len returns the number of nodes in the sequence.
func (r Route) Len() int { return len(r.nodes) }

// Hops returns the number of traversed hops.
func (r Route) Hops() int {
	if len(r.nodes) < 2 {
		return 0
	}

	return len(r.nodes) - 1
}

// Start returns the first node, or "" for the empty route.
func (r Route) Start() string {
	if len(r.nodes) == 0 {
		return ""
	}

	return r.nodes[0]
}

// Closed reports whether the route ends where it starts.
func (r Route) Closed() bool {
	return len(r.nodes) > 0 && r.nodes[0] == r.nodes[len(r.nodes)-1]
}

// IsEmpty reports whether the route has no nodes.
func (r Route) IsEmpty() bool { return len(r.nodes) == 0 }

// String renders "A → B → C (w=3)".
func (r Route) String() string {
	return fmt.Sprintf("%s (w=%g)", strings.Join(r.nodes, " → "), r.weight)
}

// Weigh computes the weight of walking nodes over g, taking the cheapest
// usable edge for every hop. With undirected set, edge direction is ignored.
// A hop without any joining edge yields ErrMissingHop.
//
// Complexity: O(L · p) where p is the number of parallel edges per hop.
func Weigh(g *core.Graph, nodes []string, undirected bool) (float64, error) {
	var total float64
	for i := 0; i+1 < len(nodes); i++ {
		best, ok := cheapestHop(g, nodes[i], nodes[i+1], undirected)
		if !ok {
			return 0, fmt.Errorf("%w: %s→%s", ErrMissingHop, nodes[i], nodes[i+1])
		}
		total += best
	}

	return total, nil
}

func cheapestHop(g *core.Graph, u, v string, undirected bool) (float64, bool) {
	best := math.Inf(1)
	for _, e := range g.EdgesBetween(u, v) {
		best = math.Min(best, e.Weight)
	}
	if undirected {
		for _, e := range g.EdgesBetween(v, u) {
			best = math.Min(best, e.Weight)
		}
	}

	return best, !math.IsInf(best, 1)
}
