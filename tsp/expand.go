// File: expand.go
// Role: ExpandRoute and CollapseRoute between stop-level tours and
//       turn-by-turn routes.

package tsp

import (
	"fmt"

	"github.com/katalvlaran/streetroute/route"
	"github.com/katalvlaran/streetroute/shortestpath"
)

// Expansion is a turn-by-turn route with the positions of the original stops.
type Expansion struct {
	// Route visits every intermediate graph node and carries the traversed
	// edge IDs.
	Route route.Route

	// Waypoints[i] is the index in Route.Nodes() of the i-th stop of the
	// expanded tour. Intermediate nodes may coincide with stops, so the
	// positions cannot be recovered from node IDs alone.
	Waypoints []int
}

// Stops returns the stop sequence recorded by the waypoints.
func (x Expansion) Stops() []string {
	nodes := x.Route.Nodes()
	out := make([]string, len(x.Waypoints))
	for i, p := range x.Waypoints {
		out[i] = nodes[p]
	}

	return out
}

// ExpandRoute replaces each hop of tour with its full shortest path from m.
// The weight is the sum of the hop distances, equal to the tour weight when
// the tour was built from m.
//
// Errors: ErrNilMatrix, ErrNoNodes for an empty tour, ErrNotExpandable when a
// stop is missing from m, ErrDisconnectedNodeSet for an unreachable hop.
func ExpandRoute(tour route.Route, m *shortestpath.Matrix) (Expansion, error) {
	if m == nil {
		return Expansion{}, ErrNilMatrix
	}
	stops := tour.Nodes()
	if len(stops) == 0 {
		return Expansion{}, ErrNoNodes
	}
	if _, ok := m.Index(stops[0]); !ok {
		return Expansion{}, fmt.Errorf("%w: %q not in matrix", ErrNotExpandable, stops[0])
	}

	nodes := []string{stops[0]}
	edges := make([]string, 0, len(stops))
	waypoints := []int{0}
	var weight float64
	for i := 1; i < len(stops); i++ {
		entry, err := m.Lookup(stops[i-1], stops[i])
		if err != nil {
			return Expansion{}, fmt.Errorf("%w: %v", ErrNotExpandable, err)
		}
		if !entry.Reachable {
			return Expansion{}, fmt.Errorf("%w: no path %q → %q", ErrDisconnectedNodeSet, stops[i-1], stops[i])
		}
		nodes = append(nodes, entry.Nodes[1:]...)
		edges = append(edges, entry.Edges...)
		weight += entry.Distance
		waypoints = append(waypoints, len(nodes)-1)
	}

	r, err := route.NewWithEdges(nodes, edges, weight)
	if err != nil {
		return Expansion{}, fmt.Errorf("tsp: %w", err)
	}

	return Expansion{Route: r, Waypoints: waypoints}, nil
}

// CollapseRoute reduces an expansion to its stops, keeping the weight.
func CollapseRoute(x Expansion) (route.Route, error) {
	n := x.Route.Len()
	prev := -1
	for _, p := range x.Waypoints {
		if p < prev || p >= n {
			return route.Route{}, fmt.Errorf("%w: waypoint %d out of order or range", ErrNotExpandable, p)
		}
		prev = p
	}

	return route.New(x.Stops(), x.Route.Weight()), nil
}
