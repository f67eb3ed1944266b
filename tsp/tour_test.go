package tsp_test

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/matching"
	"github.com/katalvlaran/streetroute/shortestpath"
	"github.com/katalvlaran/streetroute/tsp"
)

// euclidean builds a complete undirected graph over random points in the
// unit square and its all-pairs matrix.
func euclidean(t *testing.T, rng *rand.Rand, n int) (*core.Graph, *shortestpath.Matrix, []string) {
	t.Helper()
	g := core.NewGraph(core.WithDirected(false))
	xs, ys := make([]float64, n), make([]float64, n)
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		xs[i], ys[i] = rng.Float64(), rng.Float64()
		ids[i] = fmt.Sprintf("n%d", i)
		require.NoError(t, g.AddVertex(ids[i]))
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			_, err := g.AddEdge(ids[i], ids[j], math.Hypot(xs[i]-xs[j], ys[i]-ys[j]))
			require.NoError(t, err)
		}
	}
	m, err := shortestpath.AllPairs(g, ids)
	require.NoError(t, err)

	return g, m, ids
}

// optimum enumerates every tour from ids[0].
func optimum(m *shortestpath.Matrix, ids []string) float64 {
	best := math.Inf(1)
	rest := append([]string(nil), ids[1:]...)
	var rec func(k int)
	rec = func(k int) {
		if k == len(rest) {
			prev, sum := ids[0], 0.0
			for _, v := range rest {
				d, _ := m.Distance(prev, v)
				sum += d
				prev = v
			}
			d, _ := m.Distance(prev, ids[0])
			best = math.Min(best, sum+d)
			return
		}
		for i := k; i < len(rest); i++ {
			rest[k], rest[i] = rest[i], rest[k]
			rec(k + 1)
			rest[k], rest[i] = rest[i], rest[k]
		}
	}
	rec(0)

	return best
}

func assertVisitsOnce(t *testing.T, stops []string, ids []string, start string) {
	t.Helper()
	require.Len(t, stops, len(ids)+1)
	assert.Equal(t, start, stops[0])
	assert.Equal(t, start, stops[len(stops)-1])
	assert.ElementsMatch(t, ids, stops[:len(stops)-1])
}

func TestApproximateTour_Triangle(t *testing.T) {
	g := core.NewGraph(core.WithDirected(false))
	for _, e := range [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}} {
		_, err := g.AddEdge(e[0], e[1], 1)
		require.NoError(t, err)
	}
	m, err := shortestpath.AllPairs(g, []string{"A", "B", "C"})
	require.NoError(t, err)

	r, err := tsp.ApproximateTour(m, []string{"A", "B", "C"}, "B")
	require.NoError(t, err)
	assert.Equal(t, 3.0, r.Weight())
	assertVisitsOnce(t, r.Nodes(), []string{"A", "B", "C"}, "B")
}

func TestApproximateTour_SingleAndPair(t *testing.T) {
	g := core.NewGraph(core.WithDirected(false))
	_, _ = g.AddEdge("A", "B", 2.5)
	m, err := shortestpath.AllPairs(g, []string{"A", "B"})
	require.NoError(t, err)

	single, err := tsp.ApproximateTour(m, nil, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, single.Nodes())
	assert.Equal(t, 0.0, single.Weight())

	pair, err := tsp.ApproximateTour(m, []string{"B"}, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "A"}, pair.Nodes())
	assert.Equal(t, 5.0, pair.Weight())
}

func TestBuild_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for trial := 0; trial < 40; trial++ {
		n := 3 + rng.Intn(6)
		_, m, ids := euclidean(t, rng, n)
		opt := optimum(m, ids)

		tour, err := tsp.Build(m, ids, ids[0])
		require.NoError(t, err, "trial %d", trial)
		assertVisitsOnce(t, tour.Route.Nodes(), ids, ids[0])
		w := tour.Route.Weight()
		assert.LessOrEqual(t, w, 1.5*opt+1e-9, "trial %d: 1.5 bound", trial)
		assert.LessOrEqual(t, w, tour.SpanningTreeWeight+tour.MatchingWeight+1e-9, "trial %d", trial)
		assert.LessOrEqual(t, tour.SpanningTreeWeight, opt+1e-9)

		improved, err := tsp.Build(m, ids, ids[0], tsp.WithTwoOpt(100))
		require.NoError(t, err)
		assert.LessOrEqual(t, improved.Route.Weight(), w+1e-9, "trial %d: 2-opt", trial)
		assertVisitsOnce(t, improved.Route.Nodes(), ids, ids[0])
	}
}

func TestBuild_NearestNeighborAndGreedy(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	_, m, ids := euclidean(t, rng, 9)

	nn, err := tsp.Build(m, ids, "n3", tsp.WithAlgorithm(tsp.NearestNeighbor))
	require.NoError(t, err)
	assert.Equal(t, tsp.NearestNeighbor, nn.Algorithm)
	assert.Zero(t, nn.SpanningTreeWeight)
	assertVisitsOnce(t, nn.Route.Nodes(), ids, "n3")

	gr, err := tsp.Build(m, ids, "n3", tsp.WithMatching(matching.Greedy))
	require.NoError(t, err)
	assertVisitsOnce(t, gr.Route.Nodes(), ids, "n3")
}

func TestBuild_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	_, m, ids := euclidean(t, rng, 12)
	first, err := tsp.ApproximateTour(m, ids, "n5", tsp.WithTwoOpt(50))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := tsp.ApproximateTour(m, ids, "n5", tsp.WithTwoOpt(50))
		require.NoError(t, err)
		if diff := cmp.Diff(first.Nodes(), again.Nodes()); diff != "" {
			t.Fatalf("tour changed (-first +again):\n%s", diff)
		}
		assert.Equal(t, first.Weight(), again.Weight())
	}
}

func TestBuild_DirectedOrientation(t *testing.T) {
	g := core.NewGraph()
	for _, e := range [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}} {
		_, _ = g.AddEdge(e[0], e[1], 1)
		_, _ = g.AddEdge(e[1], e[0], 10)
	}
	m, err := shortestpath.AllPairs(g, g.Vertices(), shortestpath.WithTraversal(core.TraversalDirected))
	require.NoError(t, err)

	tour, err := tsp.Build(m, g.Vertices(), "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "A"}, tour.Route.Nodes())
	assert.Equal(t, 3.0, tour.Route.Weight())
}

func TestBuild_Errors(t *testing.T) {
	g := core.NewGraph()
	_, _ = g.AddEdge("A", "B", 1)
	m, err := shortestpath.AllPairs(g, []string{"A", "B"}, shortestpath.WithTraversal(core.TraversalDirected))
	require.NoError(t, err)

	_, err = tsp.ApproximateTour(m, []string{"B"}, "A")
	assert.ErrorIs(t, err, tsp.ErrDisconnectedNodeSet)

	_, err = tsp.ApproximateTour(m, []string{"Z"}, "A")
	assert.ErrorIs(t, err, shortestpath.ErrUnknownNode)

	_, err = tsp.ApproximateTour(nil, nil, "A")
	assert.ErrorIs(t, err, tsp.ErrNilMatrix)

	_, err = tsp.ApproximateTour(m, nil, "")
	assert.ErrorIs(t, err, tsp.ErrNoNodes)

	_, err = tsp.ApproximateTour(m, nil, "A", tsp.WithTwoOpt(-1))
	assert.ErrorIs(t, err, tsp.ErrBadTwoOpt)

	_, err = tsp.ApproximateTour(m, nil, "A", tsp.WithAlgorithm(tsp.Algorithm(7)))
	assert.ErrorIs(t, err, tsp.ErrUnknownAlgorithm)
}

func TestParseAlgorithm(t *testing.T) {
	a, err := tsp.ParseAlgorithm("NN")
	require.NoError(t, err)
	assert.Equal(t, tsp.NearestNeighbor, a)
	assert.Equal(t, "christofides", tsp.Christofides.String())
	_, err = tsp.ParseAlgorithm("held-karp")
	assert.ErrorIs(t, err, tsp.ErrUnknownAlgorithm)
}
