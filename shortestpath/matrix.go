// File: matrix.go
// Role: Immutable distance matrix over an ordered node set.
// Determinism:
//   - Nodes() is sorted ascending; index i of Nodes() is row/column i.
// Concurrency:
//   - A Matrix is read-only after AllPairs returns and safe for concurrent reads.

package shortestpath

import (
	"fmt"

	"github.com/katalvlaran/streetroute/core"
)

// Matrix maps ordered node pairs to shortest-path entries.
type Matrix struct {
	traversal core.Traversal
	nodes     []string
	index     map[string]int
	rows      [][]Entry
}

// Traversal returns the policy the matrix was computed under.
func (m *Matrix) Traversal() core.Traversal { return m.traversal }

// Nodes returns a copy of the node set in row order.
func (m *Matrix) Nodes() []string { return append([]string(nil), m.nodes...) }

// Size returns the number of nodes.
func (m *Matrix) Size() int { return len(m.nodes) }

// Index returns the row of id.
func (m *Matrix) Index(id string) (int, bool) {
	i, ok := m.index[id]

	return i, ok
}

// Lookup returns a copy of the entry for u→v.
func (m *Matrix) Lookup(u, v string) (Entry, error) {
	i, ok := m.index[u]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownNode, u)
	}
	j, ok := m.index[v]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownNode, v)
	}

	return m.At(i, j), nil
}

// At returns a copy of the entry at row i, column j. Indices must be in range.
func (m *Matrix) At(i, j int) Entry {
	e := m.rows[i][j]
	e.Nodes = append([]string(nil), e.Nodes...)
	e.Edges = append([]string(nil), e.Edges...)

	return e
}

// DistanceAt returns the distance at (i, j) and whether it is defined.
func (m *Matrix) DistanceAt(i, j int) (float64, bool) {
	e := m.rows[i][j]

	return e.Distance, e.Reachable
}

// Distance returns the distance u→v and whether it is defined. Unknown nodes
// report false.
func (m *Matrix) Distance(u, v string) (float64, bool) {
	i, ok := m.index[u]
	if !ok {
		return 0, false
	}
	j, ok := m.index[v]
	if !ok {
		return 0, false
	}

	return m.DistanceAt(i, j)
}

// Path returns the node sequence u→v and whether it is defined.
func (m *Matrix) Path(u, v string) ([]string, bool) {
	e, err := m.Lookup(u, v)
	if err != nil || !e.Reachable {
		return nil, false
	}

	return e.Nodes, true
}

// UnreachablePairs lists every ordered pair without a path, row-major.
func (m *Matrix) UnreachablePairs() [][2]string {
	var out [][2]string
	for i := range m.rows {
		for j := range m.rows[i] {
			if !m.rows[i][j].Reachable {
				out = append(out, [2]string{m.nodes[i], m.nodes[j]})
			}
		}
	}

	return out
}

// FullyReachable reports whether every ordered pair has a path.
func (m *Matrix) FullyReachable() bool {
	for i := range m.rows {
		for j := range m.rows[i] {
			if !m.rows[i][j].Reachable {
				return false
			}
		}
	}

	return true
}

// Symmetric reports whether d(u,v) == d(v,u) for every reachable pair and
// reachability itself is symmetric.
func (m *Matrix) Symmetric() bool {
	for i := range m.rows {
		for j := i + 1; j < len(m.rows); j++ {
			a, b := m.rows[i][j], m.rows[j][i]
			if a.Reachable != b.Reachable || a.Distance != b.Distance {
				return false
			}
		}
	}

	return true
}

// NewMatrix assembles a Matrix from precomputed rows. rows[i][j] is the entry
// nodes[i]→nodes[j]. It is used by cache layers to rebuild stored matrices.
func NewMatrix(t core.Traversal, nodes []string, rows [][]Entry) (*Matrix, error) {
	if len(rows) != len(nodes) {
		return nil, fmt.Errorf("shortestpath: %d rows for %d nodes", len(rows), len(nodes))
	}
	index := make(map[string]int, len(nodes))
	for i, id := range nodes {
		if len(rows[i]) != len(nodes) {
			return nil, fmt.Errorf("shortestpath: row %d has %d entries, want %d", i, len(rows[i]), len(nodes))
		}
		if _, dup := index[id]; dup {
			return nil, fmt.Errorf("shortestpath: duplicate node %q", id)
		}
		index[id] = i
	}

	return &Matrix{traversal: t, nodes: append([]string(nil), nodes...), index: index, rows: rows}, nil
}

// Rows returns a deep copy of all entries, row-major. Cache layers serialize it.
func (m *Matrix) Rows() [][]Entry {
	out := make([][]Entry, len(m.rows))
	for i := range m.rows {
		out[i] = make([]Entry, len(m.rows[i]))
		for j := range m.rows[i] {
			out[i][j] = m.At(i, j)
		}
	}

	return out
}
