package shortestpath_test

import (
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/route"
	"github.com/katalvlaran/streetroute/shortestpath"
)

func TestAllPairs_UnreachableIsExplicit(t *testing.T) {
	g := buildChain(t)
	m, err := shortestpath.AllPairs(g, []string{"D", "A", "A"}, shortestpath.WithTraversal(core.TraversalDirected))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "D"}, m.Nodes(), "deduped and sorted")
	d, ok := m.Distance("A", "D")
	require.True(t, ok)
	assert.Equal(t, 6.0, d)

	_, ok = m.Distance("D", "A")
	assert.False(t, ok)
	e, err := m.Lookup("D", "A")
	require.NoError(t, err)
	assert.False(t, e.Reachable)
	assert.Zero(t, e.Distance)
	assert.Equal(t, [][2]string{{"D", "A"}}, m.UnreachablePairs())
	assert.False(t, m.FullyReachable())

	self, err := m.Lookup("A", "A")
	require.NoError(t, err)
	assert.True(t, self.Reachable)
	assert.Zero(t, self.Distance)

	_, err = m.Lookup("A", "Q")
	assert.ErrorIs(t, err, shortestpath.ErrUnknownNode)
}

func TestAllPairs_Validation(t *testing.T) {
	g := buildChain(t)
	_, err := shortestpath.AllPairs(g, []string{"A"}, shortestpath.WithWorkers(-1))
	assert.ErrorIs(t, err, shortestpath.ErrBadWorkers)

	_, err = shortestpath.AllPairs(g, []string{"A", "nope"})
	assert.ErrorIs(t, err, shortestpath.ErrVertexNotFound)

	_, _ = g.AddEdge("A", "C", -0.5)
	_, err = shortestpath.AllPairs(g, []string{"A"})
	assert.ErrorIs(t, err, shortestpath.ErrNegativeWeight)

	m, err := shortestpath.AllPairs(core.NewGraph(), nil)
	require.NoError(t, err)
	assert.Zero(t, m.Size())
}

// TestAllPairs_MatchesGonum cross-checks distances against gonum's Dijkstra
// on random sparse directed graphs, sequentially and in parallel.
func TestAllPairs_MatchesGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 10; trial++ {
		const n = 25
		g := core.NewGraph()
		ref := simple.NewWeightedDirectedGraph(0, math.Inf(1))
		ids := make([]string, n)
		for i := 0; i < n; i++ {
			ids[i] = "n" + strconv.Itoa(i)
			require.NoError(t, g.AddVertex(ids[i]))
			ref.AddNode(simple.Node(i))
		}
		for k := 0; k < 3*n; k++ {
			u, v := rng.Intn(n), rng.Intn(n)
			if u == v || ref.HasEdgeFromTo(int64(u), int64(v)) {
				continue
			}
			w := float64(1 + rng.Intn(20))
			_, err := g.AddEdge(ids[u], ids[v], w)
			require.NoError(t, err)
			ref.SetWeightedEdge(ref.NewWeightedEdge(simple.Node(u), simple.Node(v), w))
		}

		for _, workers := range []int{1, 4} {
			m, err := shortestpath.AllPairs(g, ids,
				shortestpath.WithTraversal(core.TraversalDirected), shortestpath.WithWorkers(workers))
			require.NoError(t, err)
			for u := 0; u < n; u++ {
				sp := path.DijkstraFrom(simple.Node(u), ref)
				for v := 0; v < n; v++ {
					want := sp.WeightTo(int64(v))
					got, ok := m.Distance(ids[u], ids[v])
					if math.IsInf(want, 1) {
						assert.False(t, ok, "%d→%d", u, v)
						continue
					}
					require.True(t, ok, "%d→%d", u, v)
					assert.InDelta(t, want, got, 1e-9, "%d→%d", u, v)

					nodes, _ := m.Path(ids[u], ids[v])
					w, err := route.Weigh(g, nodes, false)
					require.NoError(t, err)
					assert.InDelta(t, got, w, 1e-9, "path weight equals distance")
				}
			}
		}
	}
}

func TestAllPairs_UndirectedIsSymmetric(t *testing.T) {
	g := buildChain(t)
	_, _ = g.AddEdge("A", "D", 4)
	m, err := shortestpath.AllPairs(g, g.Vertices())
	require.NoError(t, err)
	assert.True(t, m.Symmetric())
	assert.True(t, m.FullyReachable())
	d, _ := m.Distance("A", "C")
	assert.Equal(t, 3.0, d)
}
