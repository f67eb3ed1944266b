// File: types.go
// Role: Algorithm selection, Options and sentinel errors.

package tsp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/streetroute/matching"
)

var (
	// ErrDisconnectedNodeSet indicates that some requested pair has no path.
	ErrDisconnectedNodeSet = errors.New("tsp: node set is not mutually reachable")

	// ErrNoNodes indicates an empty node set.
	ErrNoNodes = errors.New("tsp: node set is empty")

	// ErrNilMatrix indicates that a nil distance matrix was passed.
	ErrNilMatrix = errors.New("tsp: distance matrix is nil")

	// ErrUnknownAlgorithm indicates an Algorithm value outside the enum.
	ErrUnknownAlgorithm = errors.New("tsp: unknown algorithm")

	// ErrBadTwoOpt indicates a negative 2-opt iteration cap.
	ErrBadTwoOpt = errors.New("tsp: 2-opt iterations must be non-negative")

	// ErrNotExpandable indicates a route whose hops are not all in the matrix.
	ErrNotExpandable = errors.New("tsp: route cannot be expanded")
)

// Algorithm selects the tour construction.
type Algorithm int

const (
	// Christofides is the spanning-tree and matching construction.
	Christofides Algorithm = iota

	// NearestNeighbor is the greedy closest-next construction.
	NearestNeighbor
)

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	switch a {
	case Christofides:
		return "christofides"
	case NearestNeighbor:
		return "nearest_neighbor"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ParseAlgorithm maps a name to an Algorithm. Matching is case-insensitive.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(s) {
	case "christofides", "":
		return Christofides, nil
	case "nearest_neighbor", "nearest-neighbor", "nn":
		return NearestNeighbor, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// Options configures Build and ApproximateTour.
type Options struct {
	Algorithm Algorithm          // tour construction
	Matching  matching.Algorithm // pairing routine for Christofides
	TwoOpt    int                // 2-opt accepted-move cap; 0 disables
}

// Option is a functional option.
type Option func(*Options)

// WithAlgorithm selects the construction. Default: Christofides.
func WithAlgorithm(a Algorithm) Option {
	return func(o *Options) { o.Algorithm = a }
}

// WithMatching selects the pairing routine. Default: matching.Blossom.
// matching.Greedy voids the 1.5 bound.
func WithMatching(a matching.Algorithm) Option {
	return func(o *Options) { o.Matching = a }
}

// WithTwoOpt enables 2-opt with at most maxMoves accepted moves.
func WithTwoOpt(maxMoves int) Option {
	return func(o *Options) { o.TwoOpt = maxMoves }
}

func buildOptions(opts []Option) (Options, error) {
	cfg := Options{Algorithm: Christofides, Matching: matching.Blossom}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Algorithm != Christofides && cfg.Algorithm != NearestNeighbor {
		return cfg, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(cfg.Algorithm))
	}
	if cfg.TwoOpt < 0 {
		return cfg, ErrBadTwoOpt
	}

	return cfg, nil
}
