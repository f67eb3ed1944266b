package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/streetroute/internal/logger"
	"github.com/katalvlaran/streetroute/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if addr != "" {
				c.cfg.HTTP.Addr = addr
			}
			log := logger.FromContext(ctx)
			log.Info("starting streetroute",
				slog.String("version", version),
				slog.String("environment", c.cfg.App.Environment),
				slog.String("addr", c.cfg.HTTP.Addr))

			st, err := c.buildStack(ctx, true)
			if err != nil {
				return err
			}
			defer func() {
				if err := st.Close(context.WithoutCancel(ctx)); err != nil {
					log.Warn("shutdown incomplete", slog.Any("error", err))
				}
			}()

			var opts []server.Option
			if st.metrics != nil {
				opts = append(opts, server.WithMetrics(st.metrics, c.cfg.Metrics.Path))
			}
			if st.runs != nil {
				opts = append(opts, server.WithRuns(st.runs))
			}

			return server.New(c.cfg.HTTP, st.svc, opts...).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}
