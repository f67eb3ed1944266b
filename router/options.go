// File: options.go
// Role: Options for both pipelines and the distance-matrix hook.

package router

import (
	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/matching"
	"github.com/katalvlaran/streetroute/shortestpath"
	"github.com/katalvlaran/streetroute/tsp"
)

// MatrixFunc computes the distance matrix for the node-visit pipeline.
// The default is shortestpath.AllPairs; a cache may supply its own as long
// as it keys on the graph fingerprint, node set and traversal.
type MatrixFunc func(g *core.Graph, nodes []string, opts ...shortestpath.Option) (*shortestpath.Matrix, error)

// Options configures SolveEdgeCoverage and SolveNodeVisit.
type Options struct {
	// Traversal is the movement model for every stage. Default: undirected.
	Traversal core.Traversal

	// Matching is the pairing routine for eulerization and Christofides.
	Matching matching.Algorithm

	// Workers bounds shortest-path parallelism (0 = GOMAXPROCS).
	Workers int

	// RelocateStart moves a start node outside the kept component to the
	// nearest kept node instead of failing.
	RelocateStart bool

	// WeakRepair keeps the largest weakly connected component instead of
	// the largest strongly connected one, so one-way streets may be left
	// without a way back.
	WeakRepair bool

	// RepairForNodeVisit restricts node-visit routing to the largest
	// component, dropping requested nodes outside it.
	RepairForNodeVisit bool

	// TourAlgorithm selects the node-visit construction.
	TourAlgorithm tsp.Algorithm

	// TwoOpt caps 2-opt moves on node-visit tours; 0 disables.
	TwoOpt int

	// NearestNeighborFallback retries a failed Christofides run with the
	// nearest-neighbour construction.
	NearestNeighborFallback bool

	// Matrix overrides the distance-matrix computation.
	Matrix MatrixFunc
}

// Option is a functional option.
type Option func(*Options)

// DefaultOptions returns the defaults: undirected traversal, blossom
// matching, Christofides, no 2-opt, no relocation, strongly connected repair.
func DefaultOptions() Options {
	return Options{
		Traversal:     core.TraversalUndirected,
		Matching:      matching.Blossom,
		TourAlgorithm: tsp.Christofides,
		Matrix:        shortestpath.AllPairs,
	}
}

// WithTraversal sets the movement model.
func WithTraversal(t core.Traversal) Option { return func(o *Options) { o.Traversal = t } }

// WithMatching sets the pairing routine.
func WithMatching(a matching.Algorithm) Option { return func(o *Options) { o.Matching = a } }

// WithWorkers bounds shortest-path parallelism.
func WithWorkers(n int) Option { return func(o *Options) { o.Workers = n } }

// WithRelocateStart enables start relocation.
func WithRelocateStart(on bool) Option { return func(o *Options) { o.RelocateStart = on } }

// WithWeakRepair selects weakly connected components for the repair step.
func WithWeakRepair(on bool) Option { return func(o *Options) { o.WeakRepair = on } }

// WithRepairForNodeVisit enables component repair before node-visit routing.
func WithRepairForNodeVisit(on bool) Option { return func(o *Options) { o.RepairForNodeVisit = on } }

// WithTourAlgorithm selects the node-visit construction.
func WithTourAlgorithm(a tsp.Algorithm) Option { return func(o *Options) { o.TourAlgorithm = a } }

// WithTwoOpt caps 2-opt moves on node-visit tours.
func WithTwoOpt(maxMoves int) Option { return func(o *Options) { o.TwoOpt = maxMoves } }

// WithNearestNeighborFallback enables the fallback construction.
func WithNearestNeighborFallback(on bool) Option {
	return func(o *Options) { o.NearestNeighborFallback = on }
}

// WithMatrixFunc overrides the distance-matrix computation. nil restores
// shortestpath.AllPairs.
func WithMatrixFunc(f MatrixFunc) Option {
	return func(o *Options) {
		if f == nil {
			f = shortestpath.AllPairs
		}
		o.Matrix = f
	}
}

func buildOptions(opts []Option) Options {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
