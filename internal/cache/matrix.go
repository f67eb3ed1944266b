package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/internal/logger"
	"github.com/katalvlaran/streetroute/router"
	"github.com/katalvlaran/streetroute/shortestpath"
)

const keyPrefix = "streetroute:matrix:"

// Observer receives hit and miss notifications; *metrics.Metrics
// implements it.
type Observer interface {
	CacheHit()
	CacheMiss()
}

// MatrixCache memoises shortestpath.AllPairs results keyed by graph
// fingerprint, node set and traversal. Concurrent misses for one key share
// a single computation.
type MatrixCache struct {
	store    Cache
	ttl      time.Duration
	compute  router.MatrixFunc
	observer Observer
	group    singleflight.Group
}

// MatrixCacheOption configures a MatrixCache.
type MatrixCacheOption func(*MatrixCache)

// WithObserver reports hits and misses to o.
func WithObserver(o Observer) MatrixCacheOption {
	return func(c *MatrixCache) { c.observer = o }
}

// WithCompute replaces shortestpath.AllPairs as the miss path.
func WithCompute(f router.MatrixFunc) MatrixCacheOption {
	return func(c *MatrixCache) { c.compute = f }
}

// NewMatrixCache wraps store. ttl <= 0 defers to the backend default.
func NewMatrixCache(store Cache, ttl time.Duration, opts ...MatrixCacheOption) *MatrixCache {
	c := &MatrixCache{store: store, ttl: ttl, compute: shortestpath.AllPairs}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Key returns the cache key for (g, nodes, traversal). Node order and
// duplicates do not affect it.
func Key(g *core.Graph, nodes []string, t core.Traversal) string {
	set := append([]string(nil), nodes...)
	sort.Strings(set)
	set = dedupSorted(set)

	h := sha256.New()
	h.Write([]byte(t.String()))
	h.Write([]byte{0})
	for _, id := range set {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}

	return graphPrefix(g) + hex.EncodeToString(h.Sum(nil)[:16])
}

func graphPrefix(g *core.Graph) string {
	sum := sha256.Sum256([]byte(g.Fingerprint()))

	return keyPrefix + hex.EncodeToString(sum[:16]) + ":"
}

func dedupSorted(s []string) []string {
	out := s[:0]
	for i, v := range s {
		if i == 0 || v != s[i-1] {
			out = append(out, v)
		}
	}

	return out
}

// Get returns the matrix for (g, nodes), computing and storing it on a
// miss. hit reports whether the store served it. Store failures are logged
// and fall through to computation.
func (c *MatrixCache) Get(ctx context.Context, g *core.Graph, nodes []string, opts ...shortestpath.Option) (m *shortestpath.Matrix, hit bool, err error) {
	if g == nil {
		return nil, false, shortestpath.ErrNilGraph
	}
	cfg := shortestpath.DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	key := Key(g, nodes, cfg.Traversal)
	log := logger.FromContext(ctx)

	data, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		if m, err = decodeMatrix(data); err == nil {
			c.notify(true)

			return m, true, nil
		}
		log.Warn("discarding corrupt matrix cache entry", slog.String("key", key), slog.Any("error", err))
		_ = c.store.Delete(ctx, key)
	case !errors.Is(err, ErrKeyNotFound):
		log.Warn("matrix cache read failed", slog.String("key", key), slog.Any("error", err))
	}
	c.notify(false)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		computed, cerr := c.compute(g, nodes, opts...)
		if cerr != nil {
			return nil, cerr
		}
		payload, eerr := encodeMatrix(computed)
		if eerr != nil {
			return nil, eerr
		}
		if serr := c.store.Set(ctx, key, payload, c.ttl); serr != nil {
			log.Warn("matrix cache write failed", slog.String("key", key), slog.Any("error", serr))
		}

		return computed, nil
	})
	if err != nil {
		return nil, false, err
	}

	return v.(*shortestpath.Matrix), false, nil
}

// MatrixFunc adapts the cache to router.WithMatrixFunc for one request.
func (c *MatrixCache) MatrixFunc(ctx context.Context) router.MatrixFunc {
	return func(g *core.Graph, nodes []string, opts ...shortestpath.Option) (*shortestpath.Matrix, error) {
		m, _, err := c.Get(ctx, g, nodes, opts...)

		return m, err
	}
}

// Invalidate drops every matrix cached for g.
func (c *MatrixCache) Invalidate(ctx context.Context, g *core.Graph) (int64, error) {
	if g == nil {
		return 0, shortestpath.ErrNilGraph
	}

	return c.store.DeletePrefix(ctx, graphPrefix(g))
}

// InvalidateAll drops every cached matrix.
func (c *MatrixCache) InvalidateAll(ctx context.Context) (int64, error) {
	return c.store.DeletePrefix(ctx, keyPrefix)
}

func (c *MatrixCache) notify(hit bool) {
	if c.observer == nil {
		return
	}
	if hit {
		c.observer.CacheHit()
	} else {
		c.observer.CacheMiss()
	}
}

type matrixDoc struct {
	Traversal string       `json:"traversal"`
	Nodes     []string     `json:"nodes"`
	Rows      [][]entryDoc `json:"rows"`
}

type entryDoc struct {
	Reachable bool     `json:"r"`
	Distance  float64  `json:"d,omitempty"`
	Nodes     []string `json:"n,omitempty"`
	Edges     []string `json:"e,omitempty"`
}

func encodeMatrix(m *shortestpath.Matrix) ([]byte, error) {
	rows := m.Rows()
	doc := matrixDoc{Traversal: m.Traversal().String(), Nodes: m.Nodes(), Rows: make([][]entryDoc, len(rows))}
	for i, row := range rows {
		doc.Rows[i] = make([]entryDoc, len(row))
		for j, e := range row {
			doc.Rows[i][j] = entryDoc{Reachable: e.Reachable, Distance: e.Distance, Nodes: e.Nodes, Edges: e.Edges}
		}
	}

	return json.Marshal(doc)
}

func decodeMatrix(data []byte) (*shortestpath.Matrix, error) {
	var doc matrixDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("cache: decode matrix: %w", err)
	}
	t, err := core.ParseTraversal(strings.TrimSpace(doc.Traversal))
	if err != nil {
		return nil, err
	}
	rows := make([][]shortestpath.Entry, len(doc.Rows))
	for i, row := range doc.Rows {
		rows[i] = make([]shortestpath.Entry, len(row))
		for j, e := range row {
			entry := shortestpath.Entry{Reachable: e.Reachable, Distance: e.Distance, Nodes: e.Nodes, Edges: e.Edges}
			if entry.Reachable && entry.Edges == nil {
				entry.Edges = []string{}
			}
			rows[i][j] = entry
		}
	}

	return shortestpath.NewMatrix(t, doc.Nodes, rows)
}
