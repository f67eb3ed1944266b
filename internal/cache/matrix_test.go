package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/shortestpath"
)

type countingObserver struct{ hits, misses atomic.Int64 }

func (o *countingObserver) CacheHit()  { o.hits.Add(1) }
func (o *countingObserver) CacheMiss() { o.misses.Add(1) }

func squareGraph(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewGraph(core.WithDirected(false))
	for _, e := range []struct {
		u, v string
		w    float64
	}{{"A", "B", 1}, {"B", "C", 1}, {"C", "D", 1}, {"D", "A", 1}, {"A", "C", 1.4}} {
		_, err := g.AddEdge(e.u, e.v, e.w)
		require.NoError(t, err)
	}

	return g
}

func countingCompute(calls *atomic.Int64) func(*core.Graph, []string, ...shortestpath.Option) (*shortestpath.Matrix, error) {
	return func(g *core.Graph, nodes []string, opts ...shortestpath.Option) (*shortestpath.Matrix, error) {
		calls.Add(1)

		return shortestpath.AllPairs(g, nodes, opts...)
	}
}

func TestKey_Normalised(t *testing.T) {
	g := squareGraph(t)
	k1 := Key(g, []string{"C", "A", "A"}, core.TraversalUndirected)
	k2 := Key(g, []string{"A", "C"}, core.TraversalUndirected)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, Key(g, []string{"A", "C"}, core.TraversalDirected))
	assert.NotEqual(t, k1, Key(g, []string{"A", "B"}, core.TraversalUndirected))

	other := g.Clone()
	_, _ = other.AddEdge("B", "D", 9)
	assert.NotEqual(t, k1, Key(other, []string{"A", "C"}, core.TraversalUndirected))
	assert.Contains(t, k1, keyPrefix)
}

func TestMatrixCache_MissThenHit(t *testing.T) {
	ctx := context.Background()
	g := squareGraph(t)
	var calls atomic.Int64
	obs := &countingObserver{}
	mc := NewMatrixCache(NewMemoryCache(DefaultOptions()), time.Minute,
		WithCompute(countingCompute(&calls)), WithObserver(obs))

	first, hit, err := mc.Get(ctx, g, []string{"A", "B", "C", "D"})
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := mc.Get(ctx, g, []string{"D", "C", "B", "A"})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, int64(1), obs.hits.Load())
	assert.Equal(t, int64(1), obs.misses.Load())

	assert.Equal(t, first.Nodes(), second.Nodes())
	assert.Equal(t, first.Rows(), second.Rows())
	assert.Equal(t, first.Traversal(), second.Traversal())
	d, ok := second.Distance("A", "C")
	require.True(t, ok)
	assert.Equal(t, 1.4, d)
}

func TestMatrixCache_TraversalSeparatesEntries(t *testing.T) {
	ctx := context.Background()
	g := squareGraph(t)
	var calls atomic.Int64
	mc := NewMatrixCache(NewMemoryCache(DefaultOptions()), 0, WithCompute(countingCompute(&calls)))

	_, _, err := mc.Get(ctx, g, []string{"A", "C"})
	require.NoError(t, err)
	m, hit, err := mc.Get(ctx, g, []string{"A", "C"}, shortestpath.WithTraversal(core.TraversalDirected))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, core.TraversalDirected, m.Traversal())
	assert.Equal(t, int64(2), calls.Load())
}

func TestMatrixCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	g := squareGraph(t)
	h := g.Clone()
	_, _ = h.AddEdge("B", "D", 2)
	var calls atomic.Int64
	mc := NewMatrixCache(NewMemoryCache(DefaultOptions()), 0, WithCompute(countingCompute(&calls)))

	for _, gr := range []*core.Graph{g, h} {
		_, _, err := mc.Get(ctx, gr, []string{"A", "C"})
		require.NoError(t, err)
		_, _, err = mc.Get(ctx, gr, []string{"B", "D"})
		require.NoError(t, err)
	}
	n, err := mc.Invalidate(ctx, g)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, hit, err := mc.Get(ctx, h, []string{"A", "C"})
	require.NoError(t, err)
	assert.True(t, hit, "other graphs keep their entries")

	n, err = mc.InvalidateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMatrixCache_CorruptEntryRecomputed(t *testing.T) {
	ctx := context.Background()
	g := squareGraph(t)
	store := NewMemoryCache(DefaultOptions())
	require.NoError(t, store.Set(ctx, Key(g, []string{"A", "B"}, core.TraversalUndirected), []byte("{not json"), 0))

	mc := NewMatrixCache(store, 0)
	m, hit, err := mc.Get(ctx, g, []string{"A", "B"})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, m.Size())
}

func TestMatrixCache_ConcurrentCallers(t *testing.T) {
	ctx := context.Background()
	g := squareGraph(t)
	var calls atomic.Int64
	mc := NewMatrixCache(NewMemoryCache(DefaultOptions()), 0, WithCompute(countingCompute(&calls)))
	f := mc.MatrixFunc(ctx)

	var wg sync.WaitGroup
	results := make([]*shortestpath.Matrix, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := f(g, []string{"A", "B", "C", "D"})
			assert.NoError(t, err)
			results[i] = m
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int64(len(results)))
	for _, m := range results {
		require.NotNil(t, m)
		assert.Equal(t, results[0].Rows(), m.Rows())
	}
}

func TestMatrixCache_ComputeError(t *testing.T) {
	mc := NewMatrixCache(NewMemoryCache(DefaultOptions()), 0)
	_, _, err := mc.Get(context.Background(), squareGraph(t), []string{"A", "Z"})
	assert.ErrorIs(t, err, shortestpath.ErrVertexNotFound)

	_, _, err = mc.Get(context.Background(), nil, nil)
	assert.ErrorIs(t, err, shortestpath.ErrNilGraph)
}
