package shortestpath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/shortestpath"
)

// buildChain returns the directed chain A→B→C→D with weights 1,2,3.
func buildChain(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewGraph()
	for _, e := range []struct {
		u, v string
		w    float64
	}{{"A", "B", 1}, {"B", "C", 2}, {"C", "D", 3}} {
		_, err := g.AddEdge(e.u, e.v, e.w)
		require.NoError(t, err)
	}

	return g
}

func TestDijkstra_Validation(t *testing.T) {
	_, err := shortestpath.Dijkstra(nil, "A")
	assert.ErrorIs(t, err, shortestpath.ErrNilGraph)

	g := buildChain(t)
	_, err = shortestpath.Dijkstra(g, "")
	assert.ErrorIs(t, err, shortestpath.ErrEmptySource)

	_, err = shortestpath.Dijkstra(g, "Z")
	assert.ErrorIs(t, err, shortestpath.ErrVertexNotFound)

	_, _ = g.AddEdge("D", "A", -1)
	_, err = shortestpath.Dijkstra(g, "A")
	assert.ErrorIs(t, err, shortestpath.ErrNegativeWeight)
}

func TestDijkstra_DirectedVsUndirected(t *testing.T) {
	g := buildChain(t)

	directed, err := shortestpath.Dijkstra(g, "D", shortestpath.WithTraversal(core.TraversalDirected))
	require.NoError(t, err)
	_, ok := directed.Distance("A")
	assert.False(t, ok, "A is upstream of D on one-way edges")

	undirected, err := shortestpath.Dijkstra(g, "D")
	require.NoError(t, err)
	d, ok := undirected.Distance("A")
	require.True(t, ok)
	assert.Equal(t, 6.0, d)

	nodes, edges, ok := undirected.PathTo("A")
	require.True(t, ok)
	assert.Equal(t, []string{"D", "C", "B", "A"}, nodes)
	assert.Equal(t, []string{"e3", "e2", "e1"}, edges)
}

func TestDijkstra_ParallelEdgesPickCheapest(t *testing.T) {
	g := core.NewGraph()
	_, _ = g.AddEdge("A", "B", 5)
	cheap, _ := g.AddEdge("A", "B", 2)

	tree, err := shortestpath.Dijkstra(g, "A", shortestpath.WithTraversal(core.TraversalDirected))
	require.NoError(t, err)
	_, edges, ok := tree.PathTo("B")
	require.True(t, ok)
	assert.Equal(t, []string{cheap}, edges)

	nodes, edges, ok := tree.PathTo("A")
	require.True(t, ok)
	assert.Equal(t, []string{"A"}, nodes)
	assert.Empty(t, edges)
}
