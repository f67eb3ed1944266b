package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/streetroute/router"
)

func (c *CLI) solversCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "solvers",
		Short: "Describe the routing modes",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			infos := router.DescribeAll()
			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")

				return enc.Encode(infos)
			}
			for _, info := range infos {
				fmt.Fprintf(c.out, "%s %s\n", styleTitle.Render(info.Name), styleKey.Render("("+info.Key+")"))
				fmt.Fprintf(c.out, "  %s\n", info.Description)
				fmt.Fprintf(c.out, "  %s %s\n", styleKey.Render("Algorithm"), styleValue.Render(info.Algorithm))
				fmt.Fprintf(c.out, "  %s %s\n\n", styleKey.Render("Use cases"), styleValue.Render(strings.Join(info.UseCases, "; ")))
			}

			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}
