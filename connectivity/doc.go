// Package connectivity keeps the routable part of a street graph.
//
// Repair computes strongly connected components and, when the graph splits,
// returns the subgraph induced by the largest component. The choice is
// deterministic: most nodes first, then the larger total edge weight, then the
// lexicographically smallest member ID. Dropping components is a recovery, not
// an error, and is reported through Result.WasDisconnected.
//
// Under core.TraversalUndirected the components are computed on the
// undirected view of the graph (every edge usable both ways), which is the
// connectivity an undirected Eulerian circuit needs.
//
// RelocateStart maps a start node that fell outside the kept component to the
// nearest kept node reachable from it in the original graph.
package connectivity
