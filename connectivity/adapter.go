// File: adapter.go
// Role: Integer-indexed view of a core.Graph satisfying go-moremath's
//       graph.Graph (NumNodes, Out).

package connectivity

import (
	"github.com/aclements/go-moremath/graph"

	"github.com/katalvlaran/streetroute/core"
)

// adapter exposes successor lists by vertex index.
type adapter struct {
	ids   []string       // index → vertex ID, sorted
	index map[string]int // vertex ID → index
	out   [][]int        // successor indices, may repeat for parallel edges
}

var _ graph.Graph = (*adapter)(nil)

func newAdapter(g *core.Graph, t core.Traversal) (*adapter, error) {
	ids := g.Vertices()
	a := &adapter{
		ids:   ids,
		index: make(map[string]int, len(ids)),
		out:   make([][]int, len(ids)),
	}
	for i, id := range ids {
		a.index[id] = i
	}
	for i, id := range ids {
		edges, err := g.Traversable(id, t)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			a.out[i] = append(a.out[i], a.index[e.Other(id)])
		}
	}

	return a, nil
}

// NumNodes implements graph.Graph.
func (a *adapter) NumNodes() int { return len(a.ids) }

// Out implements graph.Graph.
func (a *adapter) Out(node int) []int { return a.out[node] }
