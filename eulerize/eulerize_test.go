package eulerize_test

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/euler"
	"github.com/katalvlaran/streetroute/eulerize"
	"github.com/katalvlaran/streetroute/matching"
)

// squareWithDiagonal is the unit square A-B-C-D-A plus the diagonal A-C (1.4).
func squareWithDiagonal(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewGraph(core.WithDirected(false))
	for _, e := range [][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}, {"D", "A"}} {
		_, err := g.AddEdge(e[0], e[1], 1)
		require.NoError(t, err)
	}
	_, err := g.AddEdge("A", "C", 1.4)
	require.NoError(t, err)

	return g
}

func TestEulerize_DuplicatesDiagonal(t *testing.T) {
	g := squareWithDiagonal(t)
	assert.Equal(t, []string{"A", "C"}, eulerize.OddNodes(g))

	out, plan, err := eulerize.Eulerize(g)
	require.NoError(t, err)
	require.Len(t, plan.Duplications, 1)
	d := plan.Duplications[0]
	assert.Equal(t, "A", d.From)
	assert.Equal(t, "C", d.To)
	assert.Equal(t, []string{"e5"}, d.Edges)
	assert.InDelta(t, 1.4, plan.AddedWeight, 1e-12)
	assert.Equal(t, []string{"A", "C"}, plan.Unbalanced)
	assert.Equal(t, 1, plan.EdgeCount())

	assert.InDelta(t, 5.4, g.TotalWeight(), 1e-12)
	assert.InDelta(t, 6.8, out.TotalWeight(), 1e-12)
	assert.Empty(t, eulerize.OddNodes(out))
	assert.Equal(t, 5, g.EdgeCount(), "input untouched")

	copies := out.EdgesBetween("A", "C")
	require.Len(t, copies, 2)
	assert.Equal(t, "e5", copies[1].DuplicateOf)
}

func TestEulerize_Idempotent(t *testing.T) {
	once, _, err := eulerize.Eulerize(squareWithDiagonal(t))
	require.NoError(t, err)
	twice, plan, err := eulerize.Eulerize(once)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
	assert.Same(t, once, twice)
	assert.Equal(t, once.Fingerprint(), twice.Fingerprint())
}

func TestEulerize_RandomGraphsNeverRemoveEdges(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	for trial := 0; trial < 40; trial++ {
		g := core.NewGraph(core.WithDirected(false))
		n := 3 + rng.Intn(10)
		// Spanning path keeps the graph connected.
		for i := 1; i < n; i++ {
			_, err := g.AddEdge(strconv.Itoa(i-1), strconv.Itoa(i), float64(1+rng.Intn(9)))
			require.NoError(t, err)
		}
		for k := 0; k < rng.Intn(2*n); k++ {
			_, err := g.AddEdge(strconv.Itoa(rng.Intn(n)), strconv.Itoa(rng.Intn(n)), float64(1+rng.Intn(9)))
			require.NoError(t, err)
		}

		for _, algo := range []matching.Algorithm{matching.Blossom, matching.Greedy} {
			out, plan, err := eulerize.Eulerize(g, eulerize.WithMatching(algo), eulerize.WithWorkers(2))
			require.NoError(t, err, "trial %d %s", trial, algo)
			assert.Empty(t, eulerize.OddNodes(out))
			assert.Equal(t, g.EdgeCount()+plan.EdgeCount(), out.EdgeCount())
			assert.InDelta(t, g.TotalWeight()+plan.AddedWeight, out.TotalWeight(), 1e-9)
			for _, e := range g.Edges() {
				kept, err := out.Edge(e.ID)
				require.NoError(t, err)
				assert.Equal(t, *e, kept)
			}

			r, err := euler.ExtractCircuit(out, "0")
			require.NoError(t, err, "trial %d %s", trial, algo)
			assert.InDelta(t, out.TotalWeight(), r.Weight(), 1e-9)
		}
	}
}

func TestEulerize_BlossomNoWorseThanGreedy(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	for trial := 0; trial < 20; trial++ {
		g := core.NewGraph(core.WithDirected(false))
		n := 6 + rng.Intn(8)
		for i := 1; i < n; i++ {
			_, _ = g.AddEdge(strconv.Itoa(rng.Intn(i)), strconv.Itoa(i), float64(1+rng.Intn(20)))
		}
		opt, err := eulerize.BuildPlan(g)
		require.NoError(t, err)
		greedy, err := eulerize.BuildPlan(g, eulerize.WithMatching(matching.Greedy))
		require.NoError(t, err)
		assert.LessOrEqual(t, opt.AddedWeight, greedy.AddedWeight+1e-9, "trial %d", trial)
	}
}

func TestEulerize_Directed(t *testing.T) {
	g := core.NewGraph()
	for _, e := range [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}, {"A", "C"}} {
		_, err := g.AddEdge(e[0], e[1], 2)
		require.NoError(t, err)
	}
	assert.Equal(t, map[string]int{"A": 1, "C": -1}, eulerize.Imbalances(g))

	out, plan, err := eulerize.Eulerize(g, eulerize.WithTraversal(core.TraversalDirected))
	require.NoError(t, err)
	require.Len(t, plan.Duplications, 1)
	assert.Equal(t, "C", plan.Duplications[0].From)
	assert.Equal(t, "A", plan.Duplications[0].To)
	assert.Equal(t, []string{"e3"}, plan.Duplications[0].Edges)
	assert.Empty(t, eulerize.Imbalances(out))

	r, err := euler.ExtractCircuit(out, "A", euler.WithTraversal(core.TraversalDirected))
	require.NoError(t, err)
	assert.Equal(t, 5, r.Hops())
	assert.Equal(t, 10.0, r.Weight())
}

func TestEulerize_Errors(t *testing.T) {
	_, _, err := eulerize.Eulerize(nil)
	assert.ErrorIs(t, err, eulerize.ErrNilGraph)

	mixed := core.NewGraph()
	_, _ = mixed.AddEdge("A", "B", 1)
	_, _ = mixed.AddEdge("B", "A", 1, core.WithEdgeDirected(false))
	_, err = eulerize.BuildPlan(mixed, eulerize.WithTraversal(core.TraversalDirected))
	assert.ErrorIs(t, err, eulerize.ErrUndirectedEdge)

	// B can never get back to A.
	oneWay := core.NewGraph()
	_, _ = oneWay.AddEdge("A", "B", 1)
	_, err = eulerize.BuildPlan(oneWay, eulerize.WithTraversal(core.TraversalDirected))
	assert.ErrorIs(t, err, matching.ErrNoMatching)

	g := squareWithDiagonal(t)
	plan, err := eulerize.BuildPlan(g)
	require.NoError(t, err)
	_, _ = g.AddEdge("B", "D", 1.4)
	_, err = eulerize.Apply(g, plan)
	assert.ErrorIs(t, err, eulerize.ErrPlanMismatch)
}
