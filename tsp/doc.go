// Package tsp builds closed tours over a node set from a shortest-path
// distance matrix.
//
// Algorithms:
//
//   - Christofides (default): minimum spanning tree, minimum-weight perfect
//     matching on the odd-degree tree vertices, Eulerian circuit of the
//     union, then shortcutting of repeated vertices. With a true minimum
//     matching (matching.Blossom) and metric distances the tour is at most
//     1.5 times the optimum. Shortest-path distances over non-negative
//     weights are always metric.
//   - NearestNeighbor: from the start, repeatedly move to the closest
//     unvisited node. No quality bound; useful as a fallback.
//
// An optional first-improvement 2-opt pass (WithTwoOpt) only accepts moves
// that strictly shorten the tour, so it keeps every bound of the base tour.
//
// Directed matrices are symmetrized by averaging d(u,v) and d(v,u) while the
// tour is built; the finished cycle is then walked in whichever orientation
// is cheaper on the true directed distances, and its weight uses those.
//
// Tours are closed: the route starts and ends at the start node. A single
// node yields the route [start] of weight 0.
//
// ExpandRoute replaces every hop with its shortest path, producing a
// turn-by-turn route of the same weight. CollapseRoute inverts it.
//
// Determinism: all ties are broken by node order (node IDs sorted
// ascending), so equal inputs give equal tours.
package tsp
