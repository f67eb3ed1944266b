// Package cli implements the streetroute command-line interface.
//
// # Commands
//
//   - solve edge-coverage: cover every street of a graph file and return
//   - solve node-visit: visit a set of nodes and return
//   - expand: expand a stop sequence into a turn-by-turn route
//   - convert: rewrite a graph file in another format
//   - solvers: describe the routing modes
//   - serve: run the HTTP API
//   - migrate, runs: manage the run history
//
// Configuration is read by internal/config; --config names a file and
// STREETROUTE_* variables override it. --verbose lowers the log level to
// debug.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/streetroute/internal/config"
	"github.com/katalvlaran/streetroute/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the build information shown by --version. main passes
// values injected with -ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds state shared by all commands.
type CLI struct {
	out    io.Writer
	errOut io.Writer

	configFile string
	verbose    bool
	logFormat  string

	cfg *config.Config
}

// New creates a CLI writing results to out and logs to errOut.
func New(out, errOut io.Writer) *CLI {
	return &CLI{out: out, errOut: errOut}
}

// Execute runs the streetroute CLI with the process arguments.
func Execute(ctx context.Context) error {
	return New(os.Stdout, os.Stderr).RootCommand().ExecuteContext(ctx)
}

// RootCommand creates the root command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "streetroute",
		Short: "streetroute plans closed routes over street networks",
		Long: `streetroute plans closed routes over weighted street graphs: routes that
traverse every street at least once (edge coverage) and tours that visit a
chosen set of intersections (node visit).`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	root.SetVersionTemplate(fmt.Sprintf("streetroute %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	root.PersistentFlags().StringVarP(&c.configFile, "config", "c", "", "config file (YAML)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&c.logFormat, "log-format", "", "log format: json, text, pretty (default from config)")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.expandCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.solversCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.migrateCommand())
	root.AddCommand(c.runsCommand())

	return root
}

// setup loads the configuration and installs the logger.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	var opts []config.LoaderOption
	if c.configFile != "" {
		opts = append(opts, config.WithConfigFile(c.configFile))
	}
	cfg, err := config.NewLoader(opts...).Load()
	if err != nil {
		return err
	}
	if c.verbose {
		cfg.Log.Level = "debug"
	}
	if c.logFormat != "" {
		cfg.Log.Format = c.logFormat
	}
	c.cfg = cfg

	var log *slog.Logger
	if cfg.Log.Output == "file" {
		log = logger.Init(cfg.Log)
	} else {
		log = logger.New(cfg.Log, c.errOut)
		logger.Log = log
		slog.SetDefault(log)
	}
	cmd.SetContext(logger.WithContext(cmd.Context(), log))

	return nil
}
