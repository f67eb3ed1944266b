package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/internal/graphio"
	"github.com/katalvlaran/streetroute/internal/server"
	"github.com/katalvlaran/streetroute/internal/service"
)

func (c *CLI) expandCommand() *cobra.Command {
	var (
		graph     string
		stops     []string
		traversal string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Expand a stop sequence into a turn-by-turn route",
		Example: `  streetroute expand -g city.yaml --stops depot,a,b,depot`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(stops) == 0 {
				return fmt.Errorf("at least one stop is required")
			}
			t, err := core.ParseTraversal(traversal)
			if err != nil {
				return err
			}
			doc, err := graphio.ReadFile(graph)
			if err != nil {
				return fmt.Errorf("read graph: %w", err)
			}
			g, err := doc.Build()
			if err != nil {
				return fmt.Errorf("build graph: %w", err)
			}

			st, err := c.buildStack(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			x, err := st.svc.ExpandStops(cmd.Context(), service.ExpandRequest{Graph: g, Stops: stops, Traversal: t})
			if err != nil {
				return err
			}
			view := server.NewExpansionView(x)

			switch format {
			case "json":
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")

				return enc.Encode(view)
			case "yaml":
				return writeYAML(c.out, view)
			default:
				fmt.Fprintf(c.out, "%s %s\n", styleTitle.Render(iconSuccess), styleTitle.Render("expanded route"))
				fmt.Fprintf(c.out, "  %s %s\n", styleKey.Render("Weight"), styleValue.Render(fmt.Sprintf("%g", view.Weight)))
				fmt.Fprintf(c.out, "  %s %s\n", styleKey.Render("Route"), styleValue.Render(strings.Join(view.Route, iconArrow)))

				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&graph, "graph", "g", "", "graph file (.json, .yaml, .toml)")
	cmd.Flags().StringSliceVar(&stops, "stops", nil, "stop sequence")
	cmd.Flags().StringVar(&traversal, "traversal", "undirected", "movement model: undirected, directed")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, yaml")
	_ = cmd.MarkFlagRequired("graph")

	return cmd
}
