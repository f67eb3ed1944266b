// File: types.go
// Role: Configuration, sentinel errors and the matrix Entry type.
//
// Errors (sentinel):
//
//	– ErrNilGraph        if the provided graph pointer is nil.
//	– ErrEmptySource     if the provided source ID is empty.
//	– ErrVertexNotFound  if a source or requested node does not exist.
//	– ErrNegativeWeight  if a negative edge weight is detected in the graph.
//	– ErrUnknownNode     if a matrix lookup names a node outside the matrix.
//	– ErrBadWorkers      if WithWorkers receives a negative value.

package shortestpath

import (
	"errors"
	"runtime"

	"github.com/katalvlaran/streetroute/core"
)

var (
	// ErrNilGraph indicates that a nil *core.Graph was passed.
	ErrNilGraph = errors.New("shortestpath: graph is nil")

	// ErrEmptySource indicates that the provided source vertex ID is empty.
	ErrEmptySource = errors.New("shortestpath: source vertex ID is empty")

	// ErrVertexNotFound indicates a source or requested node is not in the graph.
	ErrVertexNotFound = errors.New("shortestpath: vertex not found in graph")

	// ErrNegativeWeight indicates that a negative edge weight was detected.
	ErrNegativeWeight = errors.New("shortestpath: negative edge weight encountered")

	// ErrUnknownNode indicates a lookup for a node the matrix was not built over.
	ErrUnknownNode = errors.New("shortestpath: node not in distance matrix")

	// ErrBadWorkers indicates a negative worker count.
	ErrBadWorkers = errors.New("shortestpath: workers must be non-negative")
)

// Options configures Dijkstra and AllPairs.
type Options struct {
	// Traversal selects whether edge direction constrains movement.
	Traversal core.Traversal

	// Workers bounds the number of concurrent single-source runs in AllPairs.
	// 0 means runtime.GOMAXPROCS(0); 1 runs sources sequentially.
	Workers int
}

// Option represents a functional option for configuring the service.
type Option func(*Options)

// WithTraversal sets the traversal policy. Default: core.TraversalUndirected.
func WithTraversal(t core.Traversal) Option {
	return func(o *Options) { o.Traversal = t }
}

// WithWorkers bounds AllPairs parallelism. Negative values make AllPairs
// return ErrBadWorkers.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// DefaultOptions returns undirected traversal with GOMAXPROCS workers.
func DefaultOptions() Options {
	return Options{Traversal: core.TraversalUndirected, Workers: 0}
}

func buildOptions(opts []Option) Options {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func (o Options) workerLimit(sources int) int {
	n := o.Workers
	if n == 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n > sources {
		n = sources
	}
	if n < 1 {
		n = 1
	}

	return n
}

// Entry is one cell of the distance matrix.
//
// Reachable is false when no path exists; Distance, Nodes and Edges are then
// zero values and must not be summed.
type Entry struct {
	Reachable bool
	Distance  float64
	Nodes     []string // full node sequence from source to target, both included
	Edges     []string // IDs of traversed edges, len(Nodes)-1 entries
}
