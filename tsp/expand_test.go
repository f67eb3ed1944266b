package tsp_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/route"
	"github.com/katalvlaran/streetroute/shortestpath"
	"github.com/katalvlaran/streetroute/tsp"
)

// grid builds an undirected w×h lattice with unit weights.
func grid(t *testing.T, w, h int) *core.Graph {
	t.Helper()
	g := core.NewGraph(core.WithDirected(false))
	id := func(x, y int) string { return fmt.Sprintf("%d_%d", x, y) }
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x+1 < w {
				_, err := g.AddEdge(id(x, y), id(x+1, y), 1)
				require.NoError(t, err)
			}
			if y+1 < h {
				_, err := g.AddEdge(id(x, y), id(x, y+1), 1)
				require.NoError(t, err)
			}
		}
	}

	return g
}

func TestExpandRoute_RoundTrip(t *testing.T) {
	g := grid(t, 5, 4)
	stops := []string{"0_0", "4_0", "2_2", "4_3", "0_3", "1_1"}
	m, err := shortestpath.AllPairs(g, stops)
	require.NoError(t, err)

	tour, err := tsp.ApproximateTour(m, stops, "0_0")
	require.NoError(t, err)

	x, err := tsp.ExpandRoute(tour, m)
	require.NoError(t, err)
	assert.Equal(t, tour.Weight(), x.Route.Weight())
	assert.Len(t, x.Route.Edges(), x.Route.Len()-1)
	assert.Equal(t, tour.Nodes(), x.Stops())

	w, err := route.Weigh(g, x.Route.Nodes(), true)
	require.NoError(t, err, "every expanded hop is a graph edge")
	assert.Equal(t, tour.Weight(), w)

	back, err := tsp.CollapseRoute(x)
	require.NoError(t, err)
	assert.Equal(t, tour.Nodes(), back.Nodes())
	assert.Equal(t, tour.Weight(), back.Weight())
}

func TestExpandRoute_StopsOnIntermediatePaths(t *testing.T) {
	g := core.NewGraph(core.WithDirected(false))
	_, _ = g.AddEdge("A", "B", 1)
	_, _ = g.AddEdge("B", "C", 1)
	m, err := shortestpath.AllPairs(g, []string{"A", "B", "C"})
	require.NoError(t, err)

	tour := route.New([]string{"A", "C", "B", "A"}, 4)
	x, err := tsp.ExpandRoute(tour, m)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "B", "A"}, x.Route.Nodes())
	assert.Equal(t, []int{0, 2, 3, 4}, x.Waypoints)

	back, err := tsp.CollapseRoute(x)
	require.NoError(t, err)
	assert.Equal(t, tour.Nodes(), back.Nodes())
}

func TestExpandRoute_Errors(t *testing.T) {
	g := core.NewGraph()
	_, _ = g.AddEdge("A", "B", 1)
	m, err := shortestpath.AllPairs(g, []string{"A", "B"}, shortestpath.WithTraversal(core.TraversalDirected))
	require.NoError(t, err)

	_, err = tsp.ExpandRoute(route.New([]string{"A", "B", "A"}, 2), m)
	assert.ErrorIs(t, err, tsp.ErrDisconnectedNodeSet)

	_, err = tsp.ExpandRoute(route.New([]string{"A", "Q"}, 1), m)
	assert.ErrorIs(t, err, tsp.ErrNotExpandable)

	_, err = tsp.ExpandRoute(route.Route{}, m)
	assert.ErrorIs(t, err, tsp.ErrNoNodes)

	single, err := tsp.ExpandRoute(route.New([]string{"A"}, 0), m)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, single.Route.Nodes())

	_, err = tsp.CollapseRoute(tsp.Expansion{Route: single.Route, Waypoints: []int{3}})
	assert.ErrorIs(t, err, tsp.ErrNotExpandable)
}
