// Package core provides the thread-safe in-memory street Graph used by every
// routing stage.
//
// The Graph G = (V,E) is a weighted multigraph:
//
//   - Directed and undirected edges may be mixed; WithDirected sets the default
//     and WithEdgeDirected overrides it per edge.
//   - Parallel edges and self-loops are always allowed. Every edge gets a unique
//     ID ("e1", "e2", ...) which doubles as its parallel-edge identifier.
//   - Weights are float64 and must be finite. Negative values are stored and
//     rejected later by the shortest-path stage.
//   - Separate sync.RWMutex for vertices (muVert) and edges+adjacency (muEdgeAdj).
//
// Degree bookkeeping:
//
//	Degrees() map[string]DegreeRecord  // In, Out, Undirected, Loops per vertex
//	DegreeRecord.Total()/Odd()         // undirected traversal view, loops excluded
//	DegreeRecord.Imbalance()           // out - in over directed edges
//
// Views and copies never mutate the receiver:
//
//	Clone(), CloneEmpty(), InducedSubgraph(g, keep)
//
// Deterministic iteration: Vertices() is sorted by ID, Edges(), Neighbors(),
// IncidentEdges() and EdgesBetween() follow insertion order.
//
// Quick example:
//
//	g := core.NewGraph(core.WithDirected(false))
//	_, _ = g.AddEdge("A", "B", 1)
//	_, _ = g.AddEdge("B", "C", 1)
//	_, _ = g.AddEdge("C", "A", 1)
//	deg := g.Degrees() // every vertex has Total() == 2
package core
