// File: tour.go
// Role: Build and ApproximateTour: node-set validation, matrix extraction,
//       construction, optional 2-opt and orientation.
// Determinism:
//   - Nodes are deduplicated and sorted; index order is the tie-break order.

package tsp

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/route"
	"github.com/katalvlaran/streetroute/shortestpath"
)

// Tour is a closed tour plus construction details.
type Tour struct {
	// Route starts and ends at the start node. Its weight is the sum of the
	// matrix distances between consecutive stops.
	Route route.Route

	// Algorithm is the construction that produced the tour.
	Algorithm Algorithm

	// SpanningTreeWeight and MatchingWeight are set for Christofides. Their
	// sum bounds the tour weight before 2-opt (symmetric distances).
	SpanningTreeWeight float64
	MatchingWeight     float64

	// TwoOptMoves counts accepted 2-opt moves.
	TwoOptMoves int

	// Reversed is true when the cycle was flipped to the cheaper direction.
	Reversed bool
}

// ApproximateTour returns a closed tour over nodes that starts and ends at
// start. start is added to nodes when missing. See Build.
func ApproximateTour(m *shortestpath.Matrix, nodes []string, start string, opts ...Option) (route.Route, error) {
	t, err := Build(m, nodes, start, opts...)
	if err != nil {
		return route.Route{}, err
	}

	return t.Route, nil
}

// Build constructs the tour and reports its construction details.
//
// Steps:
//  1. Deduplicate and sort nodes ∪ {start}; check each is in m.
//  2. Require every ordered pair to be reachable (ErrDisconnectedNodeSet).
//  3. Single node: return [start] with weight 0.
//  4. Build the order on the symmetric view of the distances.
//  5. Optionally run 2-opt.
//  6. On a directed matrix keep the cheaper orientation.
//
// Errors: ErrNilMatrix, ErrNoNodes, shortestpath.ErrUnknownNode,
// ErrDisconnectedNodeSet, ErrUnknownAlgorithm, ErrBadTwoOpt and matching
// errors from the Christofides pairing.
func Build(m *shortestpath.Matrix, nodes []string, start string, opts ...Option) (*Tour, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	cfg, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	if start == "" {
		return nil, fmt.Errorf("%w: start node is empty", ErrNoNodes)
	}
	ids, pos, err := resolveNodes(m, nodes, start)
	if err != nil {
		return nil, err
	}
	k := len(ids)
	if k == 1 {
		return &Tour{Route: route.New([]string{start}, 0), Algorithm: cfg.Algorithm}, nil
	}

	d, w, err := extract(m, ids, pos)
	if err != nil {
		return nil, err
	}
	s := sort.SearchStrings(ids, start)

	t := &Tour{Algorithm: cfg.Algorithm}
	var order []int
	switch cfg.Algorithm {
	case NearestNeighbor:
		order = nearestNeighbor(w, s)
	default:
		res, cErr := christofides(w, s, cfg.Matching)
		if cErr != nil {
			return nil, cErr
		}
		order = res.order
		t.SpanningTreeWeight, t.MatchingWeight = res.treeWeight, res.matchingWeight
	}
	order, t.TwoOptMoves = twoOpt(w, order, cfg.TwoOpt)

	if m.Traversal() == core.TraversalDirected {
		rev := reversedOrder(order)
		if cycleWeight(d, rev) < cycleWeight(d, order) {
			order, t.Reversed = rev, true
		}
	}

	stops := make([]string, 0, k+1)
	for _, i := range order {
		stops = append(stops, ids[i])
	}
	stops = append(stops, start)
	t.Route = route.New(stops, cycleWeight(d, order))

	return t, nil
}

// resolveNodes returns the sorted node set and each node's matrix index.
func resolveNodes(m *shortestpath.Matrix, nodes []string, start string) ([]string, []int, error) {
	seen := map[string]bool{start: true}
	ids := []string{start}
	for _, id := range nodes {
		if id == "" {
			return nil, nil, fmt.Errorf("%w: empty node ID", ErrNoNodes)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	pos := make([]int, len(ids))
	for i, id := range ids {
		p, ok := m.Index(id)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", shortestpath.ErrUnknownNode, id)
		}
		pos[i] = p
	}

	return ids, pos, nil
}

// extract copies the true distances d and their symmetric view w.
func extract(m *shortestpath.Matrix, ids []string, pos []int) (d, w [][]float64, err error) {
	k := len(ids)
	d = make([][]float64, k)
	for i := range d {
		d[i] = make([]float64, k)
		for j := range d[i] {
			dist, ok := m.DistanceAt(pos[i], pos[j])
			if !ok {
				return nil, nil, fmt.Errorf("%w: no path %q → %q", ErrDisconnectedNodeSet, ids[i], ids[j])
			}
			d[i][j] = dist
		}
	}
	w = make([][]float64, k)
	for i := range w {
		w[i] = make([]float64, k)
		for j := range w[i] {
			w[i][j] = (d[i][j] + d[j][i]) / 2
		}
	}

	return d, w, nil
}

// cycleWeight sums d along order and back to order[0].
func cycleWeight(d [][]float64, order []int) float64 {
	var sum float64
	for i := 1; i < len(order); i++ {
		sum += d[order[i-1]][order[i]]
	}
	if len(order) > 1 {
		sum += d[order[len(order)-1]][order[0]]
	}

	return sum
}

// reversedOrder walks the same cycle backwards, keeping order[0] first.
func reversedOrder(order []int) []int {
	out := make([]int, len(order))
	out[0] = order[0]
	for i := 1; i < len(order); i++ {
		out[i] = order[len(order)-i]
	}

	return out
}
