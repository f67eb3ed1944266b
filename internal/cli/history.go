package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/streetroute/internal/history"
	"github.com/katalvlaran/streetroute/router"
)

var errHistoryDisabled = errors.New("run history is disabled (set history.enabled and history.dsn)")

func (c *CLI) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply run-history database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !c.cfg.History.Enabled {
				return errHistoryDisabled
			}
			pool, err := history.Open(cmd.Context(), c.cfg.History)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := history.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s %s\n", styleTitle.Render(iconSuccess), "migrations applied")

			return nil
		},
	}
}

func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded solve runs",
	}
	cmd.AddCommand(c.runsListCommand(), c.runsGetCommand())

	return cmd
}

func (c *CLI) runsListCommand() *cobra.Command {
	var opts history.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Mode != "" {
				m, err := router.ParseMode(opts.Mode)
				if err != nil {
					return err
				}
				opts.Mode = m.String()
			}
			repo, err := c.historyRepo(cmd)
			if err != nil {
				return err
			}
			defer repo.Close()

			runs, total, err := repo.List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Fprintf(c.out, "%s  %-13s %-9s %10.3f  %s\n",
					r.ID, r.Mode, r.Status, r.Weight, r.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			fmt.Fprintf(c.out, "%d of %d runs\n", len(runs), total)

			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "filter by mode")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "page size (max 100)")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "page offset")

	return cmd
}

func (c *CLI) runsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <run-id>",
		Short: "Show one run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := c.historyRepo(cmd)
			if err != nil {
				return err
			}
			defer repo.Close()

			run, err := repo.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(c.out)
			enc.SetIndent("", "  ")

			return enc.Encode(run)
		},
	}
}

func (c *CLI) historyRepo(cmd *cobra.Command) (*history.Repository, error) {
	if !c.cfg.History.Enabled {
		return nil, errHistoryDisabled
	}

	return c.openHistory(cmd.Context())
}
