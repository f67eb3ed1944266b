// File: allpairs.go
// Role: AllPairs: one Dijkstra per requested node, run on a bounded errgroup.
// Concurrency:
//   - Each worker writes only its own row slot; the Matrix is assembled after
//     Wait returns, so no partial result is exposed.
//   - The graph is read-only for the whole call.

package shortestpath

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/streetroute/core"
)

// AllPairs computes shortest paths for every ordered pair of nodes.
//
// Steps:
//  1. Validate graph, workers and node IDs; dedupe and sort nodes.
//  2. Scan all edges once for negative weights (ErrNegativeWeight).
//  3. Run Dijkstra from every node concurrently, at most Workers at a time.
//  4. Convert each tree into a row of Entries; unreachable targets get
//     Reachable == false.
//
// An empty node set yields an empty Matrix.
//
// Complexity: O(k·(V + E) log V) time, O(k²·L) space for k nodes and paths of length L.
func AllPairs(g *core.Graph, nodes []string, opts ...Option) (*Matrix, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	cfg := buildOptions(opts)
	if cfg.Workers < 0 {
		return nil, ErrBadWorkers
	}
	ordered, err := normalizeNodes(g, nodes)
	if err != nil {
		return nil, err
	}
	if err = checkWeights(g); err != nil {
		return nil, err
	}

	rows := make([][]Entry, len(ordered))
	var eg errgroup.Group
	eg.SetLimit(cfg.workerLimit(len(ordered)))
	for i := range ordered {
		eg.Go(func() error {
			tree, runErr := run(g, ordered[i], cfg)
			if runErr != nil {
				return runErr
			}
			rows[i] = rowFromTree(tree, ordered)

			return nil
		})
	}
	if err = eg.Wait(); err != nil {
		return nil, err
	}

	return NewMatrix(cfg.Traversal, ordered, rows)
}

// normalizeNodes validates, dedupes and sorts the requested node IDs.
func normalizeNodes(g *core.Graph, nodes []string) ([]string, error) {
	seen := make(map[string]bool, len(nodes))
	out := make([]string, 0, len(nodes))
	for _, id := range nodes {
		if id == "" {
			return nil, ErrEmptySource
		}
		if seen[id] {
			continue
		}
		if !g.HasVertex(id) {
			return nil, fmt.Errorf("%w: %q", ErrVertexNotFound, id)
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)

	return out, nil
}

// rowFromTree extracts the entries source→target for every target.
func rowFromTree(t *Tree, targets []string) []Entry {
	row := make([]Entry, len(targets))
	for j, v := range targets {
		d, ok := t.Distance(v)
		if !ok {
			continue
		}
		nodes, edges, _ := t.PathTo(v)
		row[j] = Entry{Reachable: true, Distance: d, Nodes: nodes, Edges: edges}
	}

	return row
}
