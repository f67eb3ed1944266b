// File: dijkstra.go
// Role: Single-source Dijkstra with lazy decrease-key and path reconstruction.
// Determinism:
//   - Equal distances are popped in vertex ID order and neighbours are scanned
//     in edge insertion order, so predecessor choices are reproducible.

package shortestpath

import (
	"container/heap"
	"fmt"

	"github.com/katalvlaran/streetroute/core"
)

// Tree is the shortest-path tree rooted at Source.
type Tree struct {
	Source    string
	Traversal core.Traversal

	dist     map[string]float64
	prev     map[string]string // prev[v] is the predecessor of v
	prevEdge map[string]string // prevEdge[v] is the edge used to reach v
}

// Distance returns the shortest distance to v and whether v is reachable.
func (t *Tree) Distance(v string) (float64, bool) {
	d, ok := t.dist[v]

	return d, ok
}

// PathTo reconstructs the node and edge sequences from Source to v.
// ok is false when v is unreachable.
//
// Complexity: O(L) where L is the path length.
func (t *Tree) PathTo(v string) (nodes []string, edges []string, ok bool) {
	if _, reached := t.dist[v]; !reached {
		return nil, nil, false
	}
	for cur := v; cur != t.Source; cur = t.prev[cur] {
		nodes = append(nodes, cur)
		edges = append(edges, t.prevEdge[cur])
	}
	nodes = append(nodes, t.Source)
	reverseStrings(nodes)
	reverseStrings(edges)
	if edges == nil {
		edges = []string{}
	}

	return nodes, edges, true
}

// Dijkstra computes the shortest-path tree from source over g.
//
// Preconditions and validation (in order):
//  1. g must be non-nil (ErrNilGraph).
//  2. source must be non-empty (ErrEmptySource) and present (ErrVertexNotFound).
//  3. No edge in g may have a negative weight (ErrNegativeWeight).
func Dijkstra(g *core.Graph, source string, opts ...Option) (*Tree, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if source == "" {
		return nil, ErrEmptySource
	}
	if !g.HasVertex(source) {
		return nil, fmt.Errorf("%w: %q", ErrVertexNotFound, source)
	}
	if err := checkWeights(g); err != nil {
		return nil, err
	}

	return run(g, source, buildOptions(opts))
}

// checkWeights rejects any negative edge weight.
func checkWeights(g *core.Graph) error {
	for _, e := range g.Edges() {
		if e.Weight < 0 {
			return fmt.Errorf("%w: edge %s %s→%s weight=%g", ErrNegativeWeight, e.ID, e.From, e.To, e.Weight)
		}
	}

	return nil
}

// run executes Dijkstra without re-validating the graph. AllPairs validates
// once and then calls run per source.
func run(g *core.Graph, source string, cfg Options) (*Tree, error) {
	r := &runner{
		g:         g,
		traversal: cfg.Traversal,
		tree: &Tree{
			Source:    source,
			Traversal: cfg.Traversal,
			dist:      map[string]float64{source: 0},
			prev:      make(map[string]string),
			prevEdge:  make(map[string]string),
		},
		visited: make(map[string]bool),
	}
	heap.Push(&r.pq, &nodeItem{id: source, dist: 0})
	if err := r.process(); err != nil {
		return nil, err
	}

	return r.tree, nil
}

// runner holds the mutable state for a single Dijkstra execution.
type runner struct {
	g         *core.Graph
	traversal core.Traversal
	tree      *Tree
	visited   map[string]bool
	pq        nodePQ
}

// process pops the closest unvisited vertex and relaxes its edges until the
// heap is empty.
func (r *runner) process() error {
	var item *nodeItem
	for r.pq.Len() > 0 {
		item = heap.Pop(&r.pq).(*nodeItem)
		if r.visited[item.id] {
			continue
		}
		r.visited[item.id] = true
		if err := r.relax(item.id); err != nil {
			return err
		}
	}

	return nil
}

// relax improves distances to the neighbours of u. Assumes dist[u] is final.
func (r *runner) relax(u string) error {
	edges, err := r.g.Traversable(u, r.traversal)
	if err != nil {
		return fmt.Errorf("shortestpath: neighbors of %q: %w", u, err)
	}
	var (
		e       *core.Edge
		v       string
		cur     float64
		known   bool
		newDist float64
	)
	for _, e = range edges {
		v = e.Other(u)
		if e.Weight < 0 {
			return fmt.Errorf("%w: edge %s %s→%s weight=%g", ErrNegativeWeight, e.ID, e.From, e.To, e.Weight)
		}
		newDist = r.tree.dist[u] + e.Weight
		cur, known = r.tree.dist[v]
		if known && newDist >= cur {
			continue
		}
		r.tree.dist[v] = newDist
		r.tree.prev[v] = u
		r.tree.prevEdge[v] = e.ID
		heap.Push(&r.pq, &nodeItem{id: v, dist: newDist})
	}

	return nil
}

// nodeItem represents a vertex and its tentative distance from the source.
type nodeItem struct {
	id   string
	dist float64
}

// nodePQ is a min-heap of *nodeItem ordered by (dist, id).
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}

	return pq[i].id < pq[j].id
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]

	return item
}

func reverseStrings(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
