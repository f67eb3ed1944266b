// File: christofides.go
// Role: Index-level tour constructions: Christofides and nearest neighbour.
// Contracts:
//   - w is a dense, symmetric, finite n×n matrix with n ≥ 2.
//   - Returned orders are permutations of 0..n-1 beginning with start.

package tsp

import (
	"fmt"

	"github.com/katalvlaran/streetroute/euler"
	"github.com/katalvlaran/streetroute/matching"
)

// christofidesResult carries the order plus the weights of its two
// ingredients, which bound the tour from above.
type christofidesResult struct {
	order          []int
	treeWeight     float64
	matchingWeight float64
}

// christofides runs tree, matching, circuit and shortcut.
func christofides(w [][]float64, start int, algo matching.Algorithm) (christofidesResult, error) {
	n := len(w)
	arcs, treeWeight := minimumSpanningTree(w)

	degree := make([]int, n)
	for _, a := range arcs {
		degree[a.From]++
		degree[a.To]++
	}
	odd := make([]int, 0, n)
	for v := 0; v < n; v++ {
		if degree[v]&1 == 1 {
			odd = append(odd, v)
		}
	}

	res, err := matching.Match(algo, len(odd), func(i, j int) (float64, bool) {
		return w[odd[i]][odd[j]], true
	})
	if err != nil {
		return christofidesResult{}, fmt.Errorf("tsp: matching %d odd tree vertices: %w", len(odd), err)
	}
	for _, p := range res.Pairs {
		arcs = append(arcs, euler.Arc{From: odd[p.I], To: odd[p.J]})
	}

	walk, err := euler.Circuit(n, arcs, start, false)
	if err != nil {
		return christofidesResult{}, fmt.Errorf("tsp: circuit over tree and matching: %w", err)
	}

	return christofidesResult{
		order:          shortcut(walk.Vertices, n),
		treeWeight:     treeWeight,
		matchingWeight: res.Cost,
	}, nil
}

// shortcut keeps the first occurrence of every vertex of a closed walk.
func shortcut(walk []int, n int) []int {
	seen := make([]bool, n)
	order := make([]int, 0, n)
	for _, v := range walk {
		if !seen[v] {
			seen[v] = true
			order = append(order, v)
		}
	}

	return order
}

// nearestNeighbor extends the tour from start with the closest unvisited
// vertex until all are visited.
//
// Complexity: O(n²).
func nearestNeighbor(w [][]float64, start int) []int {
	n := len(w)
	visited := make([]bool, n)
	order := make([]int, 0, n)
	cur := start
	for {
		visited[cur] = true
		order = append(order, cur)
		next := -1
		for v := 0; v < n; v++ {
			if visited[v] {
				continue
			}
			if next < 0 || w[cur][v] < w[cur][next] {
				next = v
			}
		}
		if next < 0 {
			return order
		}
		cur = next
	}
}
