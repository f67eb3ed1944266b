package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/streetroute/internal/graphio"
	"github.com/katalvlaran/streetroute/internal/service"
	"github.com/katalvlaran/streetroute/router"
)

// solveFlags are shared by both solve subcommands.
type solveFlags struct {
	graph  string
	start  string
	nodes  []string
	expand bool
	format string
	output string

	traversal string
	matching  string
	tour      string
	twoOpt    int
	relocate  bool
	weak      bool
	repair    bool
	fallback  bool
}

func (c *CLI) solveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Plan a closed route over a graph file",
	}
	cmd.AddCommand(c.solveModeCommand(router.ModeEdgeCoverage))
	cmd.AddCommand(c.solveModeCommand(router.ModeNodeVisit))

	return cmd
}

func (c *CLI) solveModeCommand(mode router.Mode) *cobra.Command {
	var f solveFlags
	info, _ := router.Describe(mode)

	cmd := &cobra.Command{
		Use:   strings.ReplaceAll(mode.String(), "_", "-"),
		Short: info.Description,
		Example: fmt.Sprintf(`  # Read the start from the graph file
  streetroute solve %[1]s -g city.yaml

  # Override the start, print JSON
  streetroute solve %[1]s -g city.json --start depot -f json`, strings.ReplaceAll(mode.String(), "_", "-")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := f.params(cmd)

			return c.runSolve(cmd.Context(), mode, f, params)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.graph, "graph", "g", "", "graph file (.json, .yaml, .toml; - for JSON on stdin)")
	fl.StringVar(&f.start, "start", "", "start node (default: the graph file's start)")
	fl.BoolVar(&f.expand, "expand", false, "include the turn-by-turn expansion")
	fl.StringVarP(&f.format, "format", "f", "text", "output format: text, json, yaml")
	fl.StringVarP(&f.output, "output", "o", "", "output file (stdout if empty)")
	fl.StringVar(&f.traversal, "traversal", "", "movement model: undirected, directed")
	fl.StringVar(&f.matching, "matching", "", "matching algorithm: blossom, greedy")
	fl.BoolVar(&f.relocate, "relocate-start", false, "move a start outside the kept component to the closest kept node")
	fl.BoolVar(&f.weak, "weak-repair", false, "keep the largest weakly connected component (one-way dead ends stay in)")
	if mode == router.ModeNodeVisit {
		fl.StringSliceVar(&f.nodes, "nodes", nil, "nodes to visit (default: the graph file's visit list, else all)")
		fl.StringVar(&f.tour, "tour", "", "tour construction: christofides, nearest_neighbor")
		fl.IntVar(&f.twoOpt, "two-opt", 0, "maximum 2-opt improvement moves")
		fl.BoolVar(&f.repair, "repair", false, "drop nodes outside the largest component first")
		fl.BoolVar(&f.fallback, "nn-fallback", false, "fall back to nearest neighbour when the tour cannot be built")
	}
	_ = cmd.MarkFlagRequired("graph")

	return cmd
}

// params turns the flags the user set into per-request overrides, leaving
// configured values alone otherwise.
func (f *solveFlags) params(cmd *cobra.Command) service.Params {
	var p service.Params
	changed := cmd.Flags().Changed
	if changed("traversal") {
		p.Traversal = &f.traversal
	}
	if changed("matching") {
		p.Matching = &f.matching
	}
	if changed("tour") {
		p.Tour = &f.tour
	}
	if changed("two-opt") {
		p.TwoOpt = &f.twoOpt
	}
	if changed("relocate-start") {
		p.RelocateStart = &f.relocate
	}
	if changed("weak-repair") {
		p.WeakRepair = &f.weak
	}
	if changed("repair") {
		p.RepairForNodeVisit = &f.repair
	}
	if changed("nn-fallback") {
		p.NearestNeighborFallback = &f.fallback
	}

	return p
}

func (c *CLI) runSolve(ctx context.Context, mode router.Mode, f solveFlags, params service.Params) error {
	doc, err := graphio.ReadFile(f.graph)
	if err != nil {
		return fmt.Errorf("read graph: %w", err)
	}
	g, err := doc.Build()
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}
	start := f.start
	if start == "" {
		start = doc.Start
	}
	if start == "" {
		return fmt.Errorf("no start node: pass --start or set start in %s", f.graph)
	}
	nodes := f.nodes
	if len(nodes) == 0 {
		nodes = doc.Visit
	}

	st, err := c.buildStack(ctx, false)
	if err != nil {
		return err
	}
	defer st.Close(context.WithoutCancel(ctx))

	out, err := st.svc.Solve(ctx, service.Request{
		Mode:   mode,
		Graph:  g,
		Start:  start,
		Nodes:  nodes,
		Params: params,
		Expand: f.expand,
	})
	if err != nil {
		return err
	}

	return c.emit(f.format, f.output, out)
}
