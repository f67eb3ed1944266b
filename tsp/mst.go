package tsp

import (
	"math"

	"github.com/katalvlaran/streetroute/euler"
)

// minimumSpanningTree computes a minimum spanning tree of the complete graph
// given by the dense symmetric matrix w, using Prim's algorithm from vertex 0.
// It returns the tree edges as arcs (parent→child in insertion order) and the
// total tree weight. Every entry of w must be finite.
//
// Ties go to the lowest vertex index, both for the next vertex and its parent.
//
// Time:  O(n²).
// Space: O(n).
func minimumSpanningTree(w [][]float64) ([]euler.Arc, float64) {
	n := len(w)
	if n == 0 {
		return nil, 0
	}
	inTree := make([]bool, n)
	bestCost := make([]float64, n)
	parent := make([]int, n)
	for v := range bestCost {
		bestCost[v] = math.Inf(1)
		parent[v] = -1
	}
	bestCost[0] = 0

	arcs := make([]euler.Arc, 0, n-1)
	var total float64
	for it := 0; it < n; it++ {
		// Closest vertex not yet in the tree.
		u, minW := -1, math.Inf(1)
		for v := 0; v < n; v++ {
			if !inTree[v] && bestCost[v] < minW {
				minW, u = bestCost[v], v
			}
		}
		inTree[u] = true
		if parent[u] >= 0 {
			arcs = append(arcs, euler.Arc{From: parent[u], To: u})
			total += w[parent[u]][u]
		}
		for v := 0; v < n; v++ {
			if !inTree[v] && w[u][v] < bestCost[v] {
				bestCost[v] = w[u][v]
				parent[v] = u
			}
		}
	}

	return arcs, total
}
