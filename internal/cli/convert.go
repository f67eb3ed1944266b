package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/streetroute/internal/graphio"
)

// convertCommand rewrites a graph file. Weights derived from coordinates
// are written out explicitly.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		graph  string
		to     string
		output string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a graph file between JSON, YAML and TOML",
		Example: `  streetroute convert -g city.yaml --to toml -o city.toml`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := graphio.ReadFile(graph)
			if err != nil {
				return fmt.Errorf("read graph: %w", err)
			}
			g, err := doc.Build()
			if err != nil {
				return fmt.Errorf("build graph: %w", err)
			}

			format := graphio.FormatJSON
			switch {
			case to != "":
				format, err = graphio.ParseFormat(to)
			case output != "":
				format, err = graphio.FormatFromPath(output)
			}
			if err != nil {
				return err
			}

			out := graphio.FromGraph(g)
			out.Start, out.Visit = doc.Start, doc.Visit

			w := c.out
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}

			return graphio.Encode(w, out, format)
		},
	}

	cmd.Flags().StringVarP(&graph, "graph", "g", "", "input graph file")
	cmd.Flags().StringVar(&to, "to", "", "output format: json, yaml, toml (default: from --output, else json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	_ = cmd.MarkFlagRequired("graph")

	return cmd
}
