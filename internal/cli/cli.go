// Package cli wires the harness commands onto a cobra root.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"uiHarness/internal/cli/commands"
	"uiHarness/internal/config"
	"uiHarness/internal/database"
	"uiHarness/internal/logger"
	"uiHarness/internal/runner"
)

var errNoDatabase = errors.New("results database not configured (set DB_HOST)")

type CLI struct {
	cfg *config.Cfg
	log *logger.Zap
	db  *database.DB
	out io.Writer

	runHandler *commands.RunHandler
	exitCode   int
}

// New takes a nil db when no results database is configured.
func New(cfg *config.Cfg, log *logger.Zap, db *database.DB) *CLI {
	return &CLI{
		cfg:        cfg,
		log:        log,
		db:         db,
		out:        os.Stdout,
		runHandler: commands.NewRunHandler(cfg, log, db, os.Stdout),
	}
}

// Execute runs the command line in args and returns the process exit code.
func (c *CLI) Execute(ctx context.Context, args []string) int {
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(c.out)
	if err := root.ExecuteContext(ctx); err != nil {
		if c.exitCode == runner.ExitPassed {
			c.exitCode = runner.ExitFailed
		}
	}
	return c.exitCode
}

func (c *CLI) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "uiharness",
		Short:        "Browser UI test harness for feature-file scenarios",
		SilenceUsage: true,
	}
	root.AddCommand(c.runCommand(), c.historyCommand(), c.installCommand())
	return root
}

func (c *CLI) runCommand() *cobra.Command {
	var flags commands.RunFlags
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run feature files",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Paths = args
			c.exitCode = c.runHandler.Run(cmd.Context(), flags)
			return nil
		},
	}
	cmd.Flags().StringVarP(&flags.Env, "env", "e", "", "environment from env_config.json (default qa)")
	cmd.Flags().BoolVar(&flags.Headed, "headed", false, "show the browser window")
	cmd.Flags().StringVarP(&flags.Tags, "tags", "t", "", "tag expression, e.g. \"@smoke && ~@wip\"")
	cmd.Flags().IntVarP(&flags.Workers, "workers", "w", 0, "parallel scenarios (default parallel_workers)")
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "pretty", "godog formatter")
	return cmd
}

func (c *CLI) historyCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs, or show one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.db == nil {
				return errNoDatabase
			}
			h := commands.NewHistoryHandler(database.NewRunRepository(c.db.DB), c.log.Logger, cmd.OutOrStdout())
			if len(args) == 1 {
				return h.Show(cmd.Context(), args[0])
			}
			return h.List(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list")
	return cmd
}

func (c *CLI) installCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install [chromium|firefox|webkit...]",
		Short: "Install the playwright driver and browsers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.NewInstallHandler(c.log.Logger, cmd.OutOrStdout()).Install(args)
		},
	}
}
