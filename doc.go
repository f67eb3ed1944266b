// Package streetroute plans closed routes over weighted street networks.
//
// Two problems are solved:
//
//	Edge coverage (route inspection): a cheapest closed walk from a start
//	node that traverses every street at least once. The graph is reduced to
//	its largest connected component, made Eulerian by duplicating minimum
//	weight shortest paths between odd (or imbalanced) nodes, and an
//	Eulerian circuit is extracted.
//
//	Node visit (travelling salesman): a short closed tour from a start node
//	through a set of required nodes. All-pairs shortest paths are computed
//	over the set and a Christofides tour is built on them; the tour can be
//	expanded back into turn-by-turn street paths.
//
// Packages:
//
//	core/           the weighted multigraph (directed and undirected edges,
//	                parallel edges, self-loops) and its fingerprint
//	connectivity/   connected components and the largest-component repair
//	shortestpath/   Dijkstra and the concurrent all-pairs distance matrix
//	matching/       minimum-weight perfect matching (blossom) and greedy
//	eulerize/       balancing plans for undirected and directed graphs
//	euler/          Hierholzer circuit extraction
//	tsp/            Christofides, nearest neighbour, 2-opt and expansion
//	route/          the Route value shared by all solvers
//	router/         both pipelines behind one Solve entry point
//
// The internal/ tree carries the service around the solvers: configuration,
// logging, metrics, tracing, a distance-matrix cache, run history, the
// HTTP API and the streetroute command in cmd/streetroute.
//
// Quick ASCII example:
//
//	    A───B
//	    │ ╲ │
//	    D───C
//
// With unit sides and a 1.4 diagonal, A and C have odd degree; the cheapest
// closed walk from A covering every street repeats the diagonal and weighs
// 6.8.
package streetroute
