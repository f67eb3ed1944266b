// File: eulerize.go
// Role: OddNodes, Imbalances, BuildPlan, Apply and Eulerize.
// Determinism:
//   - Unbalanced vertices are processed in sorted order and the matching
//     routines are deterministic, so equal inputs give equal plans.
// Concurrency:
//   - Only the shortest-path stage runs in parallel; see shortestpath.AllPairs.

package eulerize

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/matching"
	"github.com/katalvlaran/streetroute/shortestpath"
)

// OddNodes returns the vertices of odd undirected degree, sorted.
// Self-loops are ignored.
func OddNodes(g *core.Graph) []string {
	deg := g.Degrees()
	out := make([]string, 0)
	for id, rec := range deg {
		if rec.Odd() {
			out = append(out, id)
		}
	}
	sort.Strings(out)

	return out
}

// Imbalances returns out-degree minus in-degree for every vertex where it is
// non-zero. Undirected edges and self-loops do not contribute.
func Imbalances(g *core.Graph) map[string]int {
	out := make(map[string]int)
	for id, rec := range g.Degrees() {
		if d := rec.Imbalance(); d != 0 {
			out[id] = d
		}
	}

	return out
}

// BuildPlan computes the minimum-weight set of edge copies that balances g
// under the configured traversal. g is not modified.
//
// Errors:
//   - ErrNilGraph.
//   - ErrUndirectedEdge under directed traversal.
//   - shortestpath.ErrNegativeWeight for negative edge weights.
//   - matching.ErrNoMatching when unbalanced vertices cannot all be paired
//     by reachable paths; the graph was not connected.
func BuildPlan(g *core.Graph, opts ...Option) (*Plan, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	cfg := buildOptions(opts)
	plan := &Plan{Traversal: cfg.Traversal, fingerprint: g.Fingerprint()}

	var err error
	if cfg.Traversal == core.TraversalDirected {
		err = planDirected(g, cfg, plan)
	} else {
		err = planUndirected(g, cfg, plan)
	}
	if err != nil {
		return nil, err
	}
	for _, d := range plan.Duplications {
		plan.AddedWeight += d.Weight
	}

	return plan, nil
}

// planUndirected pairs odd vertices by minimum total shortest-path distance.
func planUndirected(g *core.Graph, cfg Options, plan *Plan) error {
	odd := OddNodes(g)
	plan.Unbalanced = odd
	if len(odd) == 0 {
		return nil
	}

	m, err := shortestpath.AllPairs(g, odd,
		shortestpath.WithTraversal(core.TraversalUndirected),
		shortestpath.WithWorkers(cfg.Workers))
	if err != nil {
		return fmt.Errorf("eulerize: %w", err)
	}
	res, err := matching.Match(cfg.Matching, m.Size(), func(i, j int) (float64, bool) {
		return m.DistanceAt(i, j)
	})
	if err != nil {
		return fmt.Errorf("eulerize: pairing %d odd vertices: %w", len(odd), err)
	}

	nodes := m.Nodes()
	for _, p := range res.Pairs {
		plan.Duplications = append(plan.Duplications, duplicationFrom(m.At(p.I, p.J), nodes[p.I], nodes[p.J]))
	}

	return nil
}

// planDirected assigns every missing out-edge unit to a missing in-edge unit.
func planDirected(g *core.Graph, cfg Options, plan *Plan) error {
	for _, e := range g.Edges() {
		if !e.Directed {
			return fmt.Errorf("%w: %s (%s-%s)", ErrUndirectedEdge, e.ID, e.From, e.To)
		}
	}

	imb := Imbalances(g)
	if len(imb) == 0 {
		return nil
	}
	// sources need extra outgoing edges, sinks extra incoming ones.
	var sources, sinks, unbalanced []string
	for id := range imb {
		unbalanced = append(unbalanced, id)
	}
	sort.Strings(unbalanced)
	plan.Unbalanced = unbalanced
	for _, id := range unbalanced {
		d := imb[id]
		for ; d < 0; d++ {
			sources = append(sources, id)
		}
		for ; d > 0; d-- {
			sinks = append(sinks, id)
		}
	}
	if len(sources) != len(sinks) {
		return fmt.Errorf("%w: %d surplus and %d deficit units", ErrUnbalanced, len(sinks), len(sources))
	}

	m, err := shortestpath.AllPairs(g, unbalanced,
		shortestpath.WithTraversal(core.TraversalDirected),
		shortestpath.WithWorkers(cfg.Workers))
	if err != nil {
		return fmt.Errorf("eulerize: %w", err)
	}
	asg, err := matching.MinCostAssignment(len(sources), func(i, j int) (float64, bool) {
		return m.Distance(sources[i], sinks[j])
	})
	if err != nil {
		return fmt.Errorf("eulerize: assigning %d imbalance units: %w", len(sources), err)
	}

	for i, j := range asg.Cols {
		entry, lookupErr := m.Lookup(sources[i], sinks[j])
		if lookupErr != nil {
			return fmt.Errorf("eulerize: %w", lookupErr)
		}
		plan.Duplications = append(plan.Duplications, duplicationFrom(entry, sources[i], sinks[j]))
	}

	return nil
}

func duplicationFrom(e shortestpath.Entry, from, to string) Duplication {
	return Duplication{From: from, To: to, Nodes: e.Nodes, Edges: e.Edges, Weight: e.Distance}
}

// Apply returns a clone of g with every planned copy added. Copies keep the
// weight, key and directedness of their original and carry its ID in
// Edge.DuplicateOf. The result is verified to be balanced.
//
// Errors: ErrNilGraph, ErrPlanMismatch when g changed since BuildPlan,
// ErrUnbalanced if verification fails.
func Apply(g *core.Graph, plan *Plan) (*core.Graph, error) {
	if g == nil || plan == nil {
		return nil, ErrNilGraph
	}
	if plan.fingerprint != g.Fingerprint() {
		return nil, ErrPlanMismatch
	}

	out := g.Clone()
	for _, d := range plan.Duplications {
		for _, id := range d.Edges {
			e, err := g.Edge(id)
			if err != nil {
				return nil, fmt.Errorf("eulerize: %w", err)
			}
			if _, err = out.AddEdge(e.From, e.To, e.Weight,
				core.WithEdgeDirected(e.Directed),
				core.WithEdgeKey(e.Key),
				core.WithDuplicateOf(e.ID),
			); err != nil {
				return nil, fmt.Errorf("eulerize: copy %s: %w", id, err)
			}
		}
	}
	if err := verify(out, plan.Traversal); err != nil {
		return nil, err
	}

	return out, nil
}

// Eulerize plans and applies the balancing copies. When g is already
// balanced it is returned as is together with an empty plan.
func Eulerize(g *core.Graph, opts ...Option) (*core.Graph, *Plan, error) {
	plan, err := BuildPlan(g, opts...)
	if err != nil {
		return nil, nil, err
	}
	if plan.Empty() {
		return g, plan, nil
	}
	out, err := Apply(g, plan)
	if err != nil {
		return nil, nil, err
	}

	return out, plan, nil
}

func verify(g *core.Graph, t core.Traversal) error {
	if t == core.TraversalDirected {
		if imb := Imbalances(g); len(imb) > 0 {
			return fmt.Errorf("%w: %d vertices with out != in", ErrUnbalanced, len(imb))
		}

		return nil
	}
	if odd := OddNodes(g); len(odd) > 0 {
		return fmt.Errorf("%w: odd vertices %v", ErrUnbalanced, odd)
	}

	return nil
}
