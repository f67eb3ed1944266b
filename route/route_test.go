package route_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/route"
)

func TestRoute_Immutable(t *testing.T) {
	in := []string{"A", "B", "A"}
	r := route.New(in, 2)
	in[1] = "X"
	out := r.Nodes()
	out[0] = "Y"

	assert.Equal(t, []string{"A", "B", "A"}, r.Nodes())
	assert.Equal(t, "A", r.Start())
	assert.True(t, r.Closed())
	assert.Equal(t, 2, r.Hops())
	assert.Nil(t, r.Edges())
	assert.Equal(t, "A → B → A (w=2)", r.String())
}

func TestNewWithEdges(t *testing.T) {
	r, err := route.NewWithEdges([]string{"A", "B", "C"}, []string{"e1", "e2"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, r.Edges())

	_, err = route.NewWithEdges([]string{"A", "B"}, nil, 1)
	assert.ErrorIs(t, err, route.ErrEdgeCountMismatch)

	single, err := route.NewWithEdges([]string{"A"}, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, single.Hops())
	assert.True(t, route.Route{}.IsEmpty())
}

func TestWeigh(t *testing.T) {
	g := core.NewGraph()
	_, _ = g.AddEdge("A", "B", 5)
	_, _ = g.AddEdge("A", "B", 2)
	_, _ = g.AddEdge("B", "C", 1)

	w, err := route.Weigh(g, []string{"A", "B", "C"}, false)
	require.NoError(t, err)
	assert.Equal(t, 3.0, w, "cheapest parallel edge wins")

	_, err = route.Weigh(g, []string{"C", "B"}, false)
	assert.ErrorIs(t, err, route.ErrMissingHop)

	w, err = route.Weigh(g, []string{"C", "B", "A"}, true)
	require.NoError(t, err)
	assert.Equal(t, 3.0, w)
}
