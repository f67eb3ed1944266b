// Package euler extracts Eulerian circuits.
//
// Circuit works on an index-level multigraph (vertices 0..n-1, arcs given as
// endpoint pairs) and is shared by the graph-level ExtractCircuit and by the
// tour approximator, which runs it over a spanning tree plus matching edges.
//
// Algorithm: Hierholzer. Walk from the current vertex along any unused arc
// until stuck, backtrack while recording the walk, and splice sub-walks at
// shared vertices. Arcs at each vertex are tried in input order, so the
// result is a deterministic function of the input.
//
// Complexity: O(n + m) time and space for m arcs.
package euler

import (
	"errors"
	"fmt"
)

var (
	// ErrNotEulerian indicates a graph without an Eulerian circuit: an odd
	// (or unbalanced) vertex, or edges split across components.
	ErrNotEulerian = errors.New("euler: graph is not Eulerian")

	// ErrUnreachableStart indicates the start vertex touches no edge of a
	// non-empty graph, or does not exist.
	ErrUnreachableStart = errors.New("euler: start vertex has no incident edges")

	// ErrBadArc indicates an arc endpoint outside 0..n-1.
	ErrBadArc = errors.New("euler: arc endpoint out of range")
)

// Arc is an edge between vertex indices.
type Arc struct {
	From, To int
}

// Walk is an index-level circuit: Vertices[0] == Vertices[len-1] == start and
// Arcs[i] is the arc used from Vertices[i] to Vertices[i+1].
type Walk struct {
	Vertices []int
	Arcs     []int
}

// Circuit returns an Eulerian circuit of the multigraph over arcs, starting
// and ending at start. With directed false, arcs are walked in either
// direction.
//
// Preconditions are verified: every vertex must have even degree (directed:
// equal in/out degree), start must touch an arc when arcs is non-empty, and
// every arc must be reachable from start. Violations return ErrNotEulerian
// or ErrUnreachableStart. With no arcs the walk is just [start].
func Circuit(n int, arcs []Arc, start int, directed bool) (Walk, error) {
	if start < 0 || start >= n {
		return Walk{}, fmt.Errorf("%w: start %d outside [0,%d)", ErrUnreachableStart, start, n)
	}
	if len(arcs) == 0 {
		return Walk{Vertices: []int{start}, Arcs: []int{}}, nil
	}

	adj := make([][]int, n)
	balance := make([]int, n)
	for a, arc := range arcs {
		if arc.From < 0 || arc.From >= n || arc.To < 0 || arc.To >= n {
			return Walk{}, fmt.Errorf("%w: arc %d (%d,%d)", ErrBadArc, a, arc.From, arc.To)
		}
		adj[arc.From] = append(adj[arc.From], a)
		if arc.From == arc.To {
			continue
		}
		if directed {
			balance[arc.From]++
			balance[arc.To]--
		} else {
			adj[arc.To] = append(adj[arc.To], a)
			balance[arc.From]++
			balance[arc.To]++
		}
	}
	for v := 0; v < n; v++ {
		if directed && balance[v] != 0 {
			return Walk{}, fmt.Errorf("%w: vertex %d has out-in=%d", ErrNotEulerian, v, balance[v])
		}
		if !directed && balance[v]%2 != 0 {
			return Walk{}, fmt.Errorf("%w: vertex %d has odd degree %d", ErrNotEulerian, v, balance[v])
		}
	}
	if len(adj[start]) == 0 {
		return Walk{}, fmt.Errorf("%w: %d", ErrUnreachableStart, start)
	}

	walk := hierholzer(adj, arcs, start, directed)
	if len(walk.Arcs) != len(arcs) {
		return Walk{}, fmt.Errorf("%w: %d of %d edges reachable from start", ErrNotEulerian, len(walk.Arcs), len(arcs))
	}

	return walk, nil
}

// hierholzer runs the iterative splice walk. It consumes every arc reachable
// from start.
func hierholzer(adj [][]int, arcs []Arc, start int, directed bool) Walk {
	type frame struct {
		v   int // vertex reached
		arc int // arc used to reach v, -1 for start
	}
	used := make([]bool, len(arcs))
	next := make([]int, len(adj)) // next unexplored slot of adj[v]
	stack := []frame{{v: start, arc: -1}}
	popped := make([]frame, 0, len(arcs)+1)

	var (
		top frame
		a   int
		w   int
	)
	for len(stack) > 0 {
		top = stack[len(stack)-1]
		for next[top.v] < len(adj[top.v]) && used[adj[top.v][next[top.v]]] {
			next[top.v]++
		}
		if next[top.v] == len(adj[top.v]) {
			popped = append(popped, top)
			stack = stack[:len(stack)-1]
			continue
		}
		a = adj[top.v][next[top.v]]
		next[top.v]++
		used[a] = true
		w = arcs[a].To
		if !directed && arcs[a].To == top.v {
			w = arcs[a].From
		}
		stack = append(stack, frame{v: w, arc: a})
	}

	walk := Walk{Vertices: make([]int, len(popped)), Arcs: make([]int, 0, len(popped)-1)}
	for i := range popped {
		f := popped[len(popped)-1-i]
		walk.Vertices[i] = f.v
		if f.arc >= 0 {
			walk.Arcs = append(walk.Arcs, f.arc)
		}
	}

	return walk
}
