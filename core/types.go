// SPDX-License-Identifier: MIT

// Package core defines the street Graph, its Vertex and Edge types, and the
// per-vertex DegreeRecord used by the balancing and circuit stages.
//
// This file declares Vertex, Edge, Graph, GraphOption, EdgeOption,
// sentinel errors, and the NewGraph constructor.
//
// Errors:
//
//	ErrEmptyVertexID  - vertex ID is the empty string.
//	ErrVertexNotFound - requested vertex does not exist.
//	ErrEdgeNotFound   - requested edge does not exist.
//	ErrBadWeight      - weight is NaN or infinite.
package core

import (
	"errors"
	"sync"
)

// Sentinel errors for core graph operations.
var (
	// ErrEmptyVertexID indicates that the provided vertex ID is empty.
	ErrEmptyVertexID = errors.New("core: vertex ID is empty")

	// ErrVertexNotFound indicates an operation referenced a non-existent vertex.
	ErrVertexNotFound = errors.New("core: vertex not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrBadWeight indicates a NaN or infinite edge weight.
	ErrBadWeight = errors.New("core: edge weight must be finite")
)

// Vertex represents a node of the street graph.
//
// ID uniquely identifies this Vertex within its Graph.
// Metadata stores arbitrary key-value data (coordinates, labels) and is
// shallow-copied by Clone.
type Vertex struct {
	// ID is the unique identifier for this Vertex.
	ID string

	// Metadata stores arbitrary user data.
	Metadata map[string]interface{}
}

// Edge represents a weighted connection between two vertices.
//
// ID is assigned by the Graph and is unique within it, which makes it the
// parallel-edge identifier of the multigraph. Key is an optional caller label
// (for example the source way identifier) that need not be unique.
type Edge struct {
	// ID uniquely identifies this edge in the Graph ("e1", "e2", ...).
	ID string

	// Key is an optional caller-supplied parallel-edge label.
	Key string

	// From is the source vertex ID.
	From string

	// To is the destination vertex ID.
	To string

	// Weight is the traversal cost of the edge.
	Weight float64

	// Directed indicates this edge is one-way (true) or bidirectional (false).
	Directed bool

	// DuplicateOf is the ID of the edge this one copies, empty for originals.
	DuplicateOf string

	// seq orders edges by insertion; it backs the deterministic Edges() order.
	seq uint64
}

// IsLoop reports whether the edge starts and ends at the same vertex.
func (e *Edge) IsLoop() bool { return e.From == e.To }

// Other returns the endpoint opposite to id. For a self-loop it returns id.
func (e *Edge) Other(id string) string {
	if e.From == id {
		return e.To
	}

	return e.From
}

// Seq returns the insertion sequence number of the edge.
func (e *Edge) Seq() uint64 { return e.seq }

// GraphOption configures behavior of a Graph before creation.
type GraphOption func(g *Graph)

// WithDirected sets the default directedness for all new edges
// (true = directed, false = undirected).
func WithDirected(defaultDirected bool) GraphOption {
	return func(g *Graph) { g.directed = defaultDirected }
}

// EdgeOption configures properties of individual edges when added.
type EdgeOption func(*Edge)

// WithEdgeDirected overrides the Graph's default directedness for this edge.
func WithEdgeDirected(directed bool) EdgeOption {
	return func(e *Edge) { e.Directed = directed }
}

// WithEdgeKey attaches a caller label to the edge.
func WithEdgeKey(key string) EdgeOption {
	return func(e *Edge) { e.Key = key }
}

// WithDuplicateOf marks the edge as a parallel copy of an existing edge.
func WithDuplicateOf(edgeID string) EdgeOption {
	return func(e *Edge) { e.DuplicateOf = edgeID }
}

// Graph is a weighted multigraph of street segments.
//
// Parallel edges and self-loops are always permitted; a street network has
// both. Every edge is directed or undirected individually, the graph only
// supplies the default.
//
// muVert protects vertices; muEdgeAdj protects edges, adjacencyList and incident.
type Graph struct {
	muVert    sync.RWMutex // guards vertices
	muEdgeAdj sync.RWMutex // guards edges and adjacency

	directed bool // default directedness

	nextEdgeID uint64             // atomic edge ID generator
	vertices   map[string]*Vertex // vertex ID → Vertex
	edges      map[string]*Edge   // edge ID → Edge

	// adjacencyList[from][to][edgeID] holds every edge usable to move from→to.
	// Undirected edges are mirrored.
	adjacencyList map[string]map[string]map[string]struct{}

	// incident[v][edgeID] holds every edge touching v regardless of direction.
	incident map[string]map[string]struct{}
}

// NewGraph creates an empty Graph. By default edges are directed, matching
// one-way street semantics; pass WithDirected(false) for an undirected network.
//
// Complexity: O(1)
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		directed:      true,
		vertices:      make(map[string]*Vertex),
		edges:         make(map[string]*Edge),
		adjacencyList: make(map[string]map[string]map[string]struct{}),
		incident:      make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Directed reports the default directedness of new edges.
func (g *Graph) Directed() bool {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	return g.directed
}
