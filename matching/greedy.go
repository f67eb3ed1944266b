package matching

import (
	"fmt"
	"math"
)

// GreedyPerfect repeatedly takes the lowest unmatched index and pairs it with
// its cheapest available unmatched partner (ties: lowest index).
//
// It can fail with ErrNoMatching even when a perfect matching exists, because
// an early greedy choice may strand a vertex whose only partners are taken.
//
// Complexity: O(n²).
func GreedyPerfect(n int, cost CostFunc) (Result, error) {
	if err := checkSize(n); err != nil {
		return Result{}, err
	}
	matched := make([]bool, n)
	res := Result{Pairs: make([]Pair, 0, n/2)}
	var (
		u, v, best int
		bestCost   float64
		c          float64
		ok         bool
	)
	for u = 0; u < n; u++ {
		if matched[u] {
			continue
		}
		best, bestCost = -1, math.Inf(1)
		for v = u + 1; v < n; v++ {
			if matched[v] {
				continue
			}
			c, ok = cost(u, v)
			if !ok {
				continue
			}
			if err := checkCost(u, v, c); err != nil {
				return Result{}, err
			}
			if c < bestCost {
				best, bestCost = v, c
			}
		}
		if best < 0 {
			return Result{}, fmt.Errorf("%w: vertex %d has no free partner", ErrNoMatching, u)
		}
		matched[u], matched[best] = true, true
		res.Pairs = append(res.Pairs, Pair{I: u, J: best})
		res.Cost += bestCost
	}

	return res, nil
}

func checkSize(n int) error {
	if n < 0 {
		return ErrNegativeSize
	}
	if n%2 != 0 {
		return fmt.Errorf("%w: n=%d", ErrOddCount, n)
	}

	return nil
}

func checkCost(i, j int, c float64) error {
	if c < 0 || math.IsNaN(c) || math.IsInf(c, 0) {
		return fmt.Errorf("%w: (%d,%d)=%v", ErrBadCost, i, j, c)
	}

	return nil
}
