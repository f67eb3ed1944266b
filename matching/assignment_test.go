package matching_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/streetroute/matching"
)

// bruteAssignment enumerates all permutations; +Inf when none is feasible.
func bruteAssignment(c [][]float64) float64 {
	n := len(c)
	best := math.Inf(1)
	perm := make([]int, n)
	usedCol := make([]bool, n)
	var rec func(row int, acc float64)
	rec = func(row int, acc float64) {
		if row == n {
			best = math.Min(best, acc)
			return
		}
		for col := 0; col < n; col++ {
			if usedCol[col] || math.IsInf(c[row][col], 1) {
				continue
			}
			usedCol[col] = true
			perm[row] = col
			rec(row+1, acc+c[row][col])
			usedCol[col] = false
		}
	}
	rec(0, 0)

	return best
}

func TestMinCostAssignment_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(7)
		c := make([][]float64, n)
		for i := range c {
			c[i] = make([]float64, n)
			for j := range c[i] {
				c[i][j] = float64(rng.Intn(20))
				if trial%3 == 0 && rng.Float64() < 0.35 {
					c[i][j] = math.Inf(1)
				}
			}
		}
		want := bruteAssignment(c)
		got, err := matching.MinCostAssignment(n, func(i, j int) (float64, bool) {
			return c[i][j], !math.IsInf(c[i][j], 1)
		})
		if math.IsInf(want, 1) {
			require.ErrorIs(t, err, matching.ErrNoMatching, "trial %d", trial)
			continue
		}
		require.NoError(t, err, "trial %d", trial)
		assert.Equal(t, want, got.Cost, "trial %d", trial)

		seen := make(map[int]bool, n)
		for _, col := range got.Cols {
			assert.False(t, seen[col])
			seen[col] = true
		}
	}
}

func TestMinCostAssignment_Edges(t *testing.T) {
	empty, err := matching.MinCostAssignment(0, nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Cols)

	_, err = matching.MinCostAssignment(-1, nil)
	assert.ErrorIs(t, err, matching.ErrNegativeSize)

	_, err = matching.MinCostAssignment(1, func(i, j int) (float64, bool) { return math.NaN(), true })
	assert.ErrorIs(t, err, matching.ErrBadCost)
}
