package router_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/streetroute/connectivity"
	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/euler"
	"github.com/katalvlaran/streetroute/router"
	"github.com/katalvlaran/streetroute/shortestpath"
	"github.com/katalvlaran/streetroute/tsp"
)

func square(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewGraph(core.WithDirected(false))
	for _, e := range [][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}, {"D", "A"}} {
		_, err := g.AddEdge(e[0], e[1], 1)
		require.NoError(t, err)
	}

	return g
}

func TestSolveEdgeCoverage_Square(t *testing.T) {
	res, err := router.SolveEdgeCoverage(square(t), "A")
	require.NoError(t, err)
	nodes := res.Route.Nodes()
	require.Len(t, nodes, 5)
	assert.Equal(t, "A", nodes[0])
	assert.Equal(t, "A", nodes[4])
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, nodes[:4])
	assert.Equal(t, 4.0, res.Weight())
	assert.False(t, res.WasDisconnected)
	assert.True(t, res.Plan.Empty())
	assert.Equal(t, 4, res.Stats.Hops)
}

func TestSolveEdgeCoverage_Diagonal(t *testing.T) {
	g := square(t)
	_, _ = g.AddEdge("A", "C", 1.4)

	res, err := router.SolveEdgeCoverage(g, "B")
	require.NoError(t, err)
	assert.InDelta(t, 6.8, res.Weight(), 1e-12)
	assert.Equal(t, 1, res.Stats.DuplicatedEdges)
	assert.InDelta(t, 1.4, res.Stats.DuplicatedWeight, 1e-12)
	assert.Equal(t, 2, res.Stats.UnbalancedNodes)
	assert.Equal(t, 6, res.Stats.Hops)
	assert.Equal(t, 5, g.EdgeCount(), "input untouched")
}

func TestSolveEdgeCoverage_Disconnected(t *testing.T) {
	g := square(t)
	_, _ = g.AddEdge("X", "Y", 7)

	res, err := router.SolveEdgeCoverage(g, "A")
	require.NoError(t, err)
	assert.True(t, res.WasDisconnected)
	assert.Equal(t, []string{"X", "Y"}, res.DroppedNodes)
	assert.NotEmpty(t, res.Warnings)
	assert.NotContains(t, res.Route.Nodes(), "X")
	assert.Equal(t, 4.0, res.Weight())

	_, err = router.SolveEdgeCoverage(g, "X")
	assert.ErrorIs(t, err, euler.ErrUnreachableStart)

	moved, err := router.SolveEdgeCoverage(g, "X", router.WithRelocateStart(true))
	require.NoError(t, err)
	assert.True(t, moved.StartRelocated)
	assert.Equal(t, "A", moved.Start)
	assert.Equal(t, "A", moved.Route.Start())
}

func TestSolveEdgeCoverage_OneWaySpur(t *testing.T) {
	// A→B→C→A is a loop; C→D leaves it with no way back.
	g := core.NewGraph()
	for _, e := range [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}, {"C", "D"}} {
		_, err := g.AddEdge(e[0], e[1], 1)
		require.NoError(t, err)
	}

	res, err := router.SolveEdgeCoverage(g, "A")
	require.NoError(t, err)
	assert.True(t, res.WasDisconnected)
	assert.Equal(t, []string{"D"}, res.DroppedNodes)
	assert.NotContains(t, res.Route.Nodes(), "D")
	assert.Equal(t, 3.0, res.Weight())
	assert.Equal(t, 3, res.Stats.Hops)

	weak, err := router.SolveEdgeCoverage(g, "A", router.WithWeakRepair(true))
	require.NoError(t, err)
	assert.False(t, weak.WasDisconnected)
	assert.Contains(t, weak.Route.Nodes(), "D")
	assert.Equal(t, 5.0, weak.Weight())
}

func TestSolveEdgeCoverage_Directed(t *testing.T) {
	g := core.NewGraph()
	for _, e := range [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}, {"A", "C"}} {
		_, _ = g.AddEdge(e[0], e[1], 1)
	}
	res, err := router.SolveEdgeCoverage(g, "A", router.WithTraversal(core.TraversalDirected))
	require.NoError(t, err)
	assert.Equal(t, 5.0, res.Weight())

	for i, n := 0, res.Route.Len()-1; i < n; i++ {
		u, v := res.Route.Nodes()[i], res.Route.Nodes()[i+1]
		assert.NotEmpty(t, g.EdgesBetween(u, v), "hop %s→%s must follow a one-way edge", u, v)
	}
}

func TestSolveEdgeCoverage_Errors(t *testing.T) {
	_, err := router.SolveEdgeCoverage(nil, "A")
	assert.ErrorIs(t, err, router.ErrNilGraph)

	_, err = router.SolveEdgeCoverage(core.NewGraph(), "A")
	assert.ErrorIs(t, err, connectivity.ErrEmptyGraph)

	neg := core.NewGraph(core.WithDirected(false))
	_, _ = neg.AddEdge("A", "B", -1)
	_, _ = neg.AddEdge("B", "C", 1)
	_, err = router.SolveEdgeCoverage(neg, "A")
	assert.ErrorIs(t, err, shortestpath.ErrNegativeWeight)
}

func TestSolveNodeVisit_Triangle(t *testing.T) {
	g := core.NewGraph(core.WithDirected(false))
	for _, e := range [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}} {
		_, _ = g.AddEdge(e[0], e[1], 1)
	}
	res, err := router.SolveNodeVisit(g, nil, "A")
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.Weight())
	assert.Equal(t, 3, res.Stats.Stops)
	require.NotNil(t, res.Tour)

	x, err := router.Expand(res)
	require.NoError(t, err)
	assert.Equal(t, res.Weight(), x.Route.Weight())
}

func TestSolveNodeVisit_RepairDropsStops(t *testing.T) {
	g := square(t)
	_, _ = g.AddEdge("X", "Y", 1)

	_, err := router.SolveNodeVisit(g, []string{"C", "X"}, "A")
	assert.ErrorIs(t, err, tsp.ErrDisconnectedNodeSet)

	res, err := router.SolveNodeVisit(g, []string{"C", "X"}, "A", router.WithRepairForNodeVisit(true))
	require.NoError(t, err)
	assert.True(t, res.WasDisconnected)
	assert.Equal(t, []string{"X"}, res.DroppedStops)
	assert.Equal(t, []string{"A", "C", "A"}, res.Route.Nodes())
	assert.Equal(t, 4.0, res.Weight())

	_, err = router.SolveNodeVisit(g, []string{"nowhere"}, "A")
	assert.ErrorIs(t, err, shortestpath.ErrVertexNotFound)
}

func TestSolveNodeVisit_MatrixFunc(t *testing.T) {
	calls := 0
	counting := func(g *core.Graph, nodes []string, opts ...shortestpath.Option) (*shortestpath.Matrix, error) {
		calls++

		return shortestpath.AllPairs(g, nodes, opts...)
	}
	_, err := router.SolveNodeVisit(square(t), []string{"C"}, "A", router.WithMatrixFunc(counting))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSolve_Deterministic(t *testing.T) {
	g := core.NewGraph(core.WithDirected(false))
	id := func(x, y int) string { return fmt.Sprintf("%d_%d", x, y) }
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x+1 < 4 {
				_, _ = g.AddEdge(id(x, y), id(x+1, y), float64(1+(x*y)%3))
			}
			if y+1 < 4 {
				_, _ = g.AddEdge(id(x, y), id(x, y+1), float64(1+(x+y)%2))
			}
		}
	}

	for _, mode := range router.Modes() {
		req := router.Request{
			Mode:    mode,
			Graph:   g,
			Start:   "0_0",
			Options: []router.Option{router.WithWorkers(4), router.WithTwoOpt(20)},
		}
		first, err := router.Solve(req)
		require.NoError(t, err, mode.String())
		for i := 0; i < 4; i++ {
			again, err := router.Solve(req)
			require.NoError(t, err)
			if diff := cmp.Diff(first.Route.Nodes(), again.Route.Nodes()); diff != "" {
				t.Fatalf("%s route changed (-first +again):\n%s", mode, diff)
			}
			assert.Equal(t, first.Weight(), again.Weight())
		}
	}

	_, err := router.Solve(router.Request{Mode: router.Mode(42), Graph: g})
	assert.ErrorIs(t, err, router.ErrUnknownMode)
}

func TestExpand_EdgeCoverage(t *testing.T) {
	res, err := router.SolveEdgeCoverage(square(t), "A")
	require.NoError(t, err)
	x, err := router.Expand(res)
	require.NoError(t, err)
	assert.Equal(t, res.Route.Nodes(), x.Route.Nodes())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, x.Waypoints)
}

func TestDescribe(t *testing.T) {
	all := router.DescribeAll()
	require.Len(t, all, 2)
	assert.Equal(t, "edge_coverage", all[0].Key)
	assert.NotEmpty(t, all[1].UseCases)

	_, err := router.Describe(router.Mode(-1))
	assert.ErrorIs(t, err, router.ErrUnknownMode)

	m, err := router.ParseMode("tsp")
	require.NoError(t, err)
	assert.Equal(t, router.ModeNodeVisit, m)
	m, err = router.ParseMode("edge-coverage")
	require.NoError(t, err)
	assert.Equal(t, router.ModeEdgeCoverage, m)
}
