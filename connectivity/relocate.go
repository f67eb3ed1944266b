// File: relocate.go
// Role: RelocateStart: pick a replacement start inside the kept component.

package connectivity

import (
	"fmt"
	"math"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/shortestpath"
)

// RelocateStart returns start itself when it survived the repair. Otherwise
// it returns the kept node closest to start in original (shortest-path
// distance under t, ties by ID). When no kept node is reachable from start,
// or start is not in original at all, the smallest kept ID is used.
//
// relocated reports whether the returned node differs from start.
func RelocateStart(original *core.Graph, res *Result, start string, t core.Traversal) (node string, relocated bool, err error) {
	if original == nil || res == nil {
		return "", false, ErrNilGraph
	}
	kept := res.Kept()
	if len(kept) == 0 {
		return "", false, ErrEmptyGraph
	}
	if res.Contains(start) {
		return start, false, nil
	}
	if !original.HasVertex(start) {
		return kept[0], true, nil
	}

	tree, err := shortestpath.Dijkstra(original, start, shortestpath.WithTraversal(t))
	if err != nil {
		return "", false, fmt.Errorf("connectivity: relocate %q: %w", start, err)
	}
	best, bestDist := "", math.Inf(1)
	for _, id := range kept {
		d, ok := tree.Distance(id)
		if ok && d < bestDist {
			best, bestDist = id, d
		}
	}
	if best == "" {
		best = kept[0]
	}

	return best, true, nil
}
