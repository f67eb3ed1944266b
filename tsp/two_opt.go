// File: two_opt.go
// Role: Deterministic first-improvement 2-opt on a symmetric matrix.
//
// For cut points 1 ≤ i < k ≤ n−1 of the closed tour T (len n+1) with
// a=T[i−1], b=T[i], c=T[k], d=T[k+1], reversing T[i..k] changes the length by
//
//	Δ = w(a,c) + w(b,d) − w(a,b) − w(c,d).
//
// A move is taken when Δ < −eps; the scan then restarts from the beginning.
// T[0] never moves, so the start is preserved.

package tsp

// twoOptEps absorbs float noise so equal-length swaps never loop.
const twoOptEps = 1e-12

// twoOpt improves order (an open permutation starting at the start vertex)
// and returns the new order and the number of accepted moves.
func twoOpt(w [][]float64, order []int, maxMoves int) ([]int, int) {
	n := len(order)
	if n < 4 || maxMoves <= 0 {
		return order, 0
	}
	cur := make([]int, n+1)
	copy(cur, order)
	cur[n] = order[0]

	var (
		accepted   int
		a, b, c, d int
		i, k       int
		delta      float64
		improved   bool
	)
	for accepted < maxMoves {
		improved = false
		for i = 1; i <= n-2 && !improved; i++ {
			for k = i + 1; k <= n-1; k++ {
				a, b, c, d = cur[i-1], cur[i], cur[k], cur[k+1]
				delta = (w[a][c] + w[b][d]) - (w[a][b] + w[c][d])
				if delta < -twoOptEps {
					reverseInts(cur[i : k+1])
					accepted++
					improved = true

					break
				}
			}
		}
		if !improved {
			break
		}
	}

	return cur[:n], accepted
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
