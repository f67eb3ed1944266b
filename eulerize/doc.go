// Package eulerize duplicates edges so that a street graph admits a single
// closed walk over every edge.
//
// Two traversal policies are supported, selected with WithTraversal:
//
//   - core.TraversalUndirected (default): edge direction is ignored. Vertices
//     of odd degree are paired by a minimum-weight perfect matching over their
//     shortest-path distances, and every edge on each matched path is copied.
//     Copying a path flips the parity of its two endpoints only.
//   - core.TraversalDirected: each vertex needs out-degree == in-degree.
//     Vertices with more incoming edges are joined to vertices with more
//     outgoing edges by a minimum-cost assignment over directed shortest
//     paths, and the path edges are copied in their stated direction.
//     Graphs carrying undirected edges are rejected.
//
// Self-loops add two to a vertex degree and never affect balance.
//
// The computation is split into BuildPlan, which is read-only, and Apply,
// which clones the graph and adds the copies. Eulerize runs both. The input
// graph is never mutated.
//
// Tie-breaking: among several minimum-weight pairings the one returned by the
// matching routine is used. It is deterministic for a given input but is not
// otherwise specified.
package eulerize
