// File: types.go
// Role: Options, the duplication Plan and sentinel errors.

package eulerize

import (
	"errors"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/matching"
)

var (
	// ErrNilGraph indicates that a nil *core.Graph was passed.
	ErrNilGraph = errors.New("eulerize: graph is nil")

	// ErrUndirectedEdge indicates an undirected edge under directed traversal.
	ErrUndirectedEdge = errors.New("eulerize: undirected edge under directed traversal")

	// ErrUnbalanced indicates the augmented graph still has unbalanced
	// vertices. It signals a broken invariant, never a user error.
	ErrUnbalanced = errors.New("eulerize: graph remains unbalanced")

	// ErrPlanMismatch indicates a Plan applied to a graph it was not built for.
	ErrPlanMismatch = errors.New("eulerize: plan does not match graph")
)

// Options configures BuildPlan and Eulerize.
type Options struct {
	// Traversal selects the balancing model.
	Traversal core.Traversal

	// Matching selects the pairing routine for undirected balancing.
	Matching matching.Algorithm

	// Workers bounds the shortest-path parallelism (0 = GOMAXPROCS).
	Workers int
}

// Option is a functional option for BuildPlan and Eulerize.
type Option func(*Options)

// WithTraversal sets the balancing model. Default: core.TraversalUndirected.
func WithTraversal(t core.Traversal) Option {
	return func(o *Options) { o.Traversal = t }
}

// WithMatching selects the pairing routine. Default: matching.Blossom.
func WithMatching(a matching.Algorithm) Option {
	return func(o *Options) { o.Matching = a }
}

// WithWorkers bounds the shortest-path parallelism.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

func buildOptions(opts []Option) Options {
	cfg := Options{Traversal: core.TraversalUndirected, Matching: matching.Blossom}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// Duplication is one shortest path whose edges are copied.
type Duplication struct {
	From   string   // path start
	To     string   // path end
	Nodes  []string // full node sequence From..To
	Edges  []string // original edge IDs along the path
	Weight float64  // sum of the copied edge weights
}

// Plan lists the copies that balance a graph.
type Plan struct {
	// Traversal is the model the plan was built for.
	Traversal core.Traversal

	// Unbalanced holds the vertices that needed correction: odd-degree
	// vertices (undirected) or vertices with out != in (directed), sorted.
	Unbalanced []string

	// Duplications holds one entry per matched pair or assigned unit.
	Duplications []Duplication

	// AddedWeight is the total weight of all copies.
	AddedWeight float64

	// fingerprint of the graph the plan was built on.
	fingerprint string
}

// Empty reports whether the graph was already balanced.
func (p *Plan) Empty() bool { return len(p.Duplications) == 0 }

// EdgeCount returns the number of edge copies the plan adds.
func (p *Plan) EdgeCount() int {
	var n int
	for _, d := range p.Duplications {
		n += len(d.Edges)
	}

	return n
}
