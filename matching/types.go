// Package matching computes minimum-weight perfect matchings on small
// complete graphs given by a cost function over vertex indices 0..n-1.
//
// Two algorithms are provided:
//
//   - Blossom: Edmonds' weighted blossom algorithm with primal-dual updates,
//     O(n³). Returns an optimal matching.
//   - Greedy: pairs the lowest remaining index with its cheapest free partner,
//     O(n²). Fast, not optimal; kept for very large odd sets and comparison.
//
// Cost functions may mark pairs as unavailable (for example unreachable
// nodes). When no perfect matching exists over the available pairs the call
// fails with ErrNoMatching.
//
// Tie-breaking: when several matchings share the minimum cost, Blossom returns
// the first one its search reaches. Pairs are enumerated in (i, j) order and
// the search is deterministic, so repeated calls agree, but which optimum is
// chosen is an artifact of the search order and must not be relied upon.
//
// Precision: Blossom runs on costs scaled to integers (see scaleFor), so
// matchings whose costs differ by less than the scale resolution are
// considered equal. Result.Cost is always summed from the original costs.
package matching

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatching indicates that no perfect matching exists over the available pairs.
	ErrNoMatching = errors.New("matching: no perfect matching exists")

	// ErrOddCount indicates an odd number of vertices.
	ErrOddCount = errors.New("matching: vertex count must be even")

	// ErrBadCost indicates a negative, NaN or infinite pair cost.
	ErrBadCost = errors.New("matching: pair cost must be finite and non-negative")

	// ErrNegativeSize indicates n < 0.
	ErrNegativeSize = errors.New("matching: vertex count must be non-negative")

	// ErrUnknownAlgorithm indicates an Algorithm value outside the enum.
	ErrUnknownAlgorithm = errors.New("matching: unknown algorithm")
)

// CostFunc returns the cost of pairing i and j (i < j) and false when the
// pair is unavailable.
type CostFunc func(i, j int) (float64, bool)

// Pair is a matched pair of indices with I < J.
type Pair struct {
	I, J int
}

// Result is a perfect matching and its total cost.
type Result struct {
	Pairs []Pair  // sorted by I
	Cost  float64 // sum of original pair costs
}

// Algorithm selects the matching strategy.
type Algorithm int

const (
	// Blossom is the exact O(n³) weighted blossom algorithm (default).
	Blossom Algorithm = iota

	// Greedy is the O(n²) nearest-partner heuristic.
	Greedy
)

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	switch a {
	case Blossom:
		return "blossom"
	case Greedy:
		return "greedy"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ParseAlgorithm maps "blossom" or "greedy" to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "blossom", "":
		return Blossom, nil
	case "greedy":
		return Greedy, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// Match dispatches to MinWeightPerfect or GreedyPerfect.
func Match(algo Algorithm, n int, cost CostFunc) (Result, error) {
	switch algo {
	case Blossom:
		return MinWeightPerfect(n, cost)
	case Greedy:
		return GreedyPerfect(n, cost)
	default:
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(algo))
	}
}
