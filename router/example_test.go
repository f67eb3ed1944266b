package router_test

import (
	"fmt"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/router"
)

// blockWithDiagonal returns four unit streets around a block plus a 1.4 diagonal:
//
//	A───B
//	│ ╲ │
//	D───C
func blockWithDiagonal() *core.Graph {
	g := core.NewGraph(core.WithDirected(false))
	_, _ = g.AddEdge("A", "B", 1)
	_, _ = g.AddEdge("B", "C", 1)
	_, _ = g.AddEdge("C", "D", 1)
	_, _ = g.AddEdge("D", "A", 1)
	_, _ = g.AddEdge("A", "C", 1.4)

	return g
}

// ExampleSolveEdgeCoverage sweeps every street of the block. A and C have
// odd degree, so the diagonal is driven twice.
func ExampleSolveEdgeCoverage() {
	res, err := router.SolveEdgeCoverage(blockWithDiagonal(), "A")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("weight=%.1f hops=%d duplicated=%d closed=%v\n",
		res.Weight(), res.Stats.Hops, res.Stats.DuplicatedEdges, res.Route.Closed())
	// Output: weight=6.8 hops=6 duplicated=1 closed=true
}

// ExampleSolveNodeVisit delivers to C from a depot at A and expands the
// tour into streets.
func ExampleSolveNodeVisit() {
	res, err := router.SolveNodeVisit(blockWithDiagonal(), []string{"C"}, "A")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Route.Nodes(), res.Weight())

	x, err := router.Expand(res)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(x.Stops(), x.Route.Len())
	// Output:
	// [A C A] 2.8
	// [A C A] 3
}
