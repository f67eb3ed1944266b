// Package shortestpath is the shortest-path service of the routing core.
//
// Overview:
//
//   - Dijkstra computes the shortest-path tree of a single source in
//     O((V + E) log V) using a min-heap with lazy decrease-key.
//   - AllPairs runs one Dijkstra per requested node and assembles a Matrix of
//     ordered pairs (distance, node path, edge path). Sources run concurrently
//     on a bounded errgroup; rows are merged only after every source finished,
//     so a partially filled Matrix is never observable.
//   - Unreachable pairs are recorded with Entry.Reachable == false. No sentinel
//     distance is ever stored, so sums over a Matrix cannot silently absorb an
//     infinite value.
//
// Traversal policy:
//
//	core.TraversalUndirected (default) walks every edge both ways.
//	core.TraversalDirected honours one-way edges.
//
// Options:
//
//	WithTraversal(t)  // traversal policy
//	WithWorkers(n)    // concurrent sources in AllPairs (0 = GOMAXPROCS)
//
// Errors: ErrNilGraph, ErrEmptySource, ErrVertexNotFound, ErrNegativeWeight,
// ErrUnknownNode, ErrBadWorkers.
//
// Example:
//
//	m, err := shortestpath.AllPairs(g, []string{"A", "C"})
//	if err != nil {
//	    return err
//	}
//	if d, ok := m.Distance("A", "C"); ok {
//	    fmt.Println(d)
//	}
package shortestpath
