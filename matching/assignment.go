package matching

import (
	"fmt"
	"math"
)

// Assignment maps every row to a distinct column.
type Assignment struct {
	Cols []int   // Cols[i] is the column assigned to row i
	Cost float64 // sum of original cell costs
}

// MinCostAssignment solves the n×n assignment problem: pick one column per
// row, all distinct, minimising the total cost. cost(i, j) gives the cell of
// row i and column j; false marks a forbidden cell.
//
// Implementation: Hungarian algorithm with row/column potentials (Kuhn-Munkres
// in the shortest augmenting path form). Forbidden cells get a penalty larger
// than any assignment over allowed cells; if the optimum still uses one, no
// feasible assignment exists and ErrNoMatching is returned.
//
// Complexity: O(n³) time, O(n²) space.
func MinCostAssignment(n int, cost CostFunc) (Assignment, error) {
	if n < 0 {
		return Assignment{}, ErrNegativeSize
	}
	if n == 0 {
		return Assignment{Cols: []int{}}, nil
	}

	// Dense copy with penalties; 1-based potentials follow the classic layout.
	a := make([][]float64, n)
	allowed := make([][]bool, n)
	var maxCost float64
	for i := 0; i < n; i++ {
		a[i] = make([]float64, n)
		allowed[i] = make([]bool, n)
		for j := 0; j < n; j++ {
			c, ok := cost(i, j)
			if !ok {
				continue
			}
			if err := checkCost(i, j, c); err != nil {
				return Assignment{}, err
			}
			a[i][j], allowed[i][j] = c, true
			maxCost = math.Max(maxCost, c)
		}
	}
	penalty := (maxCost + 1) * float64(n+1)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if !allowed[i][j] {
				a[i][j] = penalty
			}
		}
	}

	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)   // p[j] is the row matched to column j (1-based, 0 = none)
	way := make([]int, n+1) // way[j] is the previous column on the augmenting path
	minv := make([]float64, n+1)
	used := make([]bool, n+1)
	var (
		i, j, j0, j1, i0 int
		delta, cur       float64
	)
	for i = 1; i <= n; i++ {
		p[0] = i
		j0 = 0
		for j = 0; j <= n; j++ {
			minv[j] = math.Inf(1)
			used[j] = false
		}
		for {
			used[j0] = true
			i0 = p[j0]
			delta = math.Inf(1)
			j1 = 0
			for j = 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur = a[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j = 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for {
			j1 = way[j0]
			p[j0] = p[j1]
			j0 = j1
			if j0 == 0 {
				break
			}
		}
	}

	res := Assignment{Cols: make([]int, n)}
	for j = 1; j <= n; j++ {
		row, col := p[j]-1, j-1
		if !allowed[row][col] {
			return Assignment{}, fmt.Errorf("%w: row %d has no feasible column", ErrNoMatching, row)
		}
		res.Cols[row] = col
	}
	for i = 0; i < n; i++ {
		res.Cost += a[i][res.Cols[i]]
	}

	return res, nil
}
