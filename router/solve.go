// File: solve.go
// Role: SolveEdgeCoverage, SolveNodeVisit, Solve and Expand.

package router

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/katalvlaran/streetroute/connectivity"
	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/euler"
	"github.com/katalvlaran/streetroute/eulerize"
	"github.com/katalvlaran/streetroute/shortestpath"
	"github.com/katalvlaran/streetroute/tsp"
)

// ErrNilGraph indicates that a nil *core.Graph was passed.
var ErrNilGraph = errors.New("router: graph is nil")

// Request bundles the inputs of Solve.
type Request struct {
	Mode  Mode
	Graph *core.Graph
	Start string

	// Nodes are the stops for ModeNodeVisit; empty means every node.
	// Ignored for ModeEdgeCoverage.
	Nodes []string

	Options []Option
}

// Solve dispatches req to the pipeline of req.Mode.
func Solve(req Request) (*Result, error) {
	switch req.Mode {
	case ModeEdgeCoverage:
		return SolveEdgeCoverage(req.Graph, req.Start, req.Options...)
	case ModeNodeVisit:
		return SolveNodeVisit(req.Graph, req.Nodes, req.Start, req.Options...)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(req.Mode))
	}
}

// SolveEdgeCoverage returns a closed route from start that uses every edge of
// the largest connected component at least once, at minimum total weight
// under the chosen traversal.
//
// Errors: ErrNilGraph, connectivity.ErrEmptyGraph,
// shortestpath.ErrNegativeWeight, matching.ErrNoMatching,
// eulerize.ErrUndirectedEdge, euler.ErrNotEulerian, euler.ErrUnreachableStart.
func SolveEdgeCoverage(g *core.Graph, start string, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if err := checkWeights(g); err != nil {
		return nil, err
	}
	began := time.Now()
	cfg := buildOptions(opts)
	res := &Result{Mode: ModeEdgeCoverage, Start: start}

	work, err := repair(g, cfg, res)
	if err != nil {
		return nil, err
	}

	balanced, plan, err := eulerize.Eulerize(work,
		eulerize.WithTraversal(cfg.Traversal),
		eulerize.WithMatching(cfg.Matching),
		eulerize.WithWorkers(cfg.Workers))
	if err != nil {
		return nil, err
	}
	res.Plan = plan

	r, err := euler.ExtractCircuit(balanced, res.Start, euler.WithTraversal(cfg.Traversal))
	if err != nil {
		return nil, err
	}
	res.Route = r
	res.Stats.Nodes = work.VertexCount()
	res.Stats.Edges = work.EdgeCount()
	res.Stats.UnbalancedNodes = len(plan.Unbalanced)
	res.Stats.DuplicatedEdges = plan.EdgeCount()
	res.Stats.DuplicatedWeight = plan.AddedWeight
	res.Stats.Hops = r.Hops()
	res.Stats.Elapsed = time.Since(began)

	return res, nil
}

// SolveNodeVisit returns a closed tour from start over nodes ∪ {start}. An
// empty node list means every node of the (repaired) graph.
//
// Errors: ErrNilGraph, connectivity.ErrEmptyGraph,
// shortestpath.ErrVertexNotFound for unknown stops,
// shortestpath.ErrNegativeWeight, tsp.ErrDisconnectedNodeSet.
func SolveNodeVisit(g *core.Graph, nodes []string, start string, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if g.VertexCount() == 0 {
		return nil, connectivity.ErrEmptyGraph
	}
	began := time.Now()
	cfg := buildOptions(opts)
	res := &Result{Mode: ModeNodeVisit, Start: start}

	work := g
	if cfg.RepairForNodeVisit {
		var err error
		if work, err = repair(g, cfg, res); err != nil {
			return nil, err
		}
	}
	if !work.HasVertex(res.Start) {
		return nil, fmt.Errorf("%w: start %q is not in the routable graph", tsp.ErrDisconnectedNodeSet, res.Start)
	}

	stops := stopSet(work, nodes, res)
	m, err := cfg.Matrix(work, stops,
		shortestpath.WithTraversal(cfg.Traversal),
		shortestpath.WithWorkers(cfg.Workers))
	if err != nil {
		return nil, err
	}
	res.Matrix = m

	tour, err := tsp.Build(m, stops, res.Start,
		tsp.WithAlgorithm(cfg.TourAlgorithm),
		tsp.WithMatching(cfg.Matching),
		tsp.WithTwoOpt(cfg.TwoOpt))
	if err != nil && cfg.NearestNeighborFallback && cfg.TourAlgorithm != tsp.NearestNeighbor &&
		!errors.Is(err, tsp.ErrDisconnectedNodeSet) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("tour construction failed (%v); used nearest neighbour", err))
		tour, err = tsp.Build(m, stops, res.Start,
			tsp.WithAlgorithm(tsp.NearestNeighbor),
			tsp.WithTwoOpt(cfg.TwoOpt))
	}
	if err != nil {
		return nil, err
	}
	res.Tour = tour
	res.Route = tour.Route
	res.Stats.Nodes = work.VertexCount()
	res.Stats.Edges = work.EdgeCount()
	res.Stats.Stops = len(stops)
	res.Stats.Hops = tour.Route.Hops()
	res.Stats.Elapsed = time.Since(began)

	return res, nil
}

// Expand turns a result into a turn-by-turn route. Node-visit tours are
// expanded along their shortest paths; edge-coverage circuits already are
// turn-by-turn and come back with one waypoint per node.
func Expand(res *Result) (tsp.Expansion, error) {
	if res == nil {
		return tsp.Expansion{}, tsp.ErrNoNodes
	}
	switch res.Mode {
	case ModeEdgeCoverage:
		way := make([]int, res.Route.Len())
		for i := range way {
			way[i] = i
		}

		return tsp.Expansion{Route: res.Route, Waypoints: way}, nil
	case ModeNodeVisit:
		return tsp.ExpandRoute(res.Route, res.Matrix)
	default:
		return tsp.Expansion{}, fmt.Errorf("%w: %d", ErrUnknownMode, int(res.Mode))
	}
}

// repair keeps the largest strongly connected component (weakly connected
// with WeakRepair) and relocates the start if allowed. Components follow the
// stated edge directions regardless of cfg.Traversal.
func repair(g *core.Graph, cfg Options, res *Result) (*core.Graph, error) {
	components := core.TraversalDirected
	if cfg.WeakRepair {
		components = core.TraversalUndirected
	}
	rep, err := connectivity.Repair(g, connectivity.WithTraversal(components))
	if err != nil {
		return nil, err
	}
	if !rep.WasDisconnected {
		return g, nil
	}
	res.WasDisconnected = true
	res.DroppedNodes = rep.Dropped
	res.Warnings = append(res.Warnings, fmt.Sprintf(
		"graph is not connected (%d components); kept %d of %d nodes",
		len(rep.Components), len(rep.Components[0].Nodes), g.VertexCount()))

	if cfg.RelocateStart && !rep.Contains(res.Start) {
		node, moved, relErr := connectivity.RelocateStart(g, rep, res.Start, cfg.Traversal)
		if relErr != nil {
			return nil, relErr
		}
		if moved {
			res.Warnings = append(res.Warnings, fmt.Sprintf("start %q is outside the kept component; using %q", res.Start, node))
			res.Start, res.StartRelocated = node, true
		}
	}

	return rep.Graph, nil
}

// stopSet returns the sorted stops (start included) and records stops that
// the repair removed.
func stopSet(work *core.Graph, nodes []string, res *Result) []string {
	if len(nodes) == 0 {
		return work.Vertices()
	}
	seen := map[string]bool{res.Start: true}
	out := []string{res.Start}
	for _, id := range nodes {
		if seen[id] {
			continue
		}
		seen[id] = true
		if res.WasDisconnected && !work.HasVertex(id) && contains(res.DroppedNodes, id) {
			res.DroppedStops = append(res.DroppedStops, id)
			continue
		}
		out = append(out, id)
	}
	sort.Strings(out)
	if len(res.DroppedStops) > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d requested stops are outside the kept component", len(res.DroppedStops)))
	}

	return out
}

// checkWeights rejects negative weights, including on graphs that need no
// balancing and therefore never reach a shortest-path run.
func checkWeights(g *core.Graph) error {
	for _, e := range g.Edges() {
		if e.Weight < 0 {
			return fmt.Errorf("%w: edge %s %s→%s weight=%g", shortestpath.ErrNegativeWeight, e.ID, e.From, e.To, e.Weight)
		}
	}

	return nil
}

func contains(sorted []string, id string) bool {
	i := sort.SearchStrings(sorted, id)

	return i < len(sorted) && sorted[i] == id
}
