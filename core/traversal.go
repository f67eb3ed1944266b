// File: traversal.go
// Role: Traversal policy shared by the shortest-path, balancing and circuit
//       stages: whether edge direction constrains movement.

package core

import "fmt"

// Traversal selects how edge direction is interpreted while walking the graph.
type Traversal int

const (
	// TraversalUndirected ignores edge direction: every edge may be walked
	// both ways. Patrol and sweeping routes use this relaxation.
	TraversalUndirected Traversal = iota

	// TraversalDirected honours one-way edges; undirected edges remain two-way.
	TraversalDirected
)

// String implements fmt.Stringer.
func (t Traversal) String() string {
	switch t {
	case TraversalUndirected:
		return "undirected"
	case TraversalDirected:
		return "directed"
	default:
		return fmt.Sprintf("Traversal(%d)", int(t))
	}
}

// ParseTraversal maps "undirected" or "directed" to a Traversal.
func ParseTraversal(s string) (Traversal, error) {
	switch s {
	case "undirected", "":
		return TraversalUndirected, nil
	case "directed":
		return TraversalDirected, nil
	default:
		return 0, fmt.Errorf("core: unknown traversal %q", s)
	}
}

// Traversable returns the edges that can be walked when leaving id under t.
func (g *Graph) Traversable(id string, t Traversal) ([]*Edge, error) {
	if t == TraversalDirected {
		return g.Neighbors(id)
	}

	return g.IncidentEdges(id)
}
