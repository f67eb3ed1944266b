// File: api.go
// Role: Read-only summaries: Stats and Fingerprint.
// Determinism:
//   - Fingerprint depends only on vertices, edges and their attributes, never
//     on map iteration order or memory addresses.
// Concurrency:
//   - Read locks only.

package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// GraphStats is a snapshot of graph counts.
type GraphStats struct {
	VertexCount         int
	EdgeCount           int
	DirectedEdgeCount   int
	UndirectedEdgeCount int
	LoopCount           int
	DuplicateEdgeCount  int
	TotalWeight         float64
}

// Stats returns counts and the total weight of the current edge set.
//
// Complexity: O(V + E).
func (g *Graph) Stats() GraphStats {
	stats := GraphStats{VertexCount: g.VertexCount()}
	for _, e := range g.Edges() {
		stats.EdgeCount++
		if e.Directed {
			stats.DirectedEdgeCount++
		} else {
			stats.UndirectedEdgeCount++
		}
		if e.IsLoop() {
			stats.LoopCount++
		}
		if e.DuplicateOf != "" {
			stats.DuplicateEdgeCount++
		}
		stats.TotalWeight += e.Weight
	}

	return stats
}

// Fingerprint returns a hex SHA-256 digest identifying the graph snapshot.
// Two graphs with the same vertices and the same edges (ID, endpoints, weight,
// direction) share a fingerprint. Cache layers key distance matrices on it.
//
// Complexity: O(V log V + E log E).
func (g *Graph) Fingerprint() string {
	h := sha256.New()
	buf := make([]byte, 0, 128)
	for _, id := range g.Vertices() {
		buf = append(buf[:0], 'v', '|')
		buf = append(buf, id...)
		buf = append(buf, '\n')
		h.Write(buf)
	}
	for _, e := range g.Edges() {
		buf = append(buf[:0], 'e', '|')
		buf = append(buf, e.ID...)
		buf = append(buf, '|')
		buf = append(buf, e.From...)
		buf = append(buf, '|')
		buf = append(buf, e.To...)
		buf = append(buf, '|')
		buf = strconv.AppendFloat(buf, e.Weight, 'g', -1, 64)
		buf = append(buf, '|')
		buf = strconv.AppendBool(buf, e.Directed)
		buf = append(buf, '\n')
		h.Write(buf)
	}

	return hex.EncodeToString(h.Sum(nil))
}
