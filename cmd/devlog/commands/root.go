package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Sumatoshi-tech/devlog/pkg/rollup"
	"github.com/Sumatoshi-tech/devlog/pkg/version"
)

// NewRootCommand creates the devlog command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	app := &App{now: time.Now}
	for _, opt := range opts {
		opt(app)
	}

	rootCmd := &cobra.Command{
		Use:   "devlog",
		Short: "Daily Jira progress log with monthly rollovers",
		Long: `devlog keeps a markdown progress log inside a notes vault.

Commands:
  daily     Append today's in-progress Jira issues to the log
  summary   Roll a month of entries into a summary document
  show      Render a summary or the log in the terminal
  stats     Print a month's aggregate without writing
  status    Describe the log and recent rollovers
  mcp       Serve the log as read-only MCP tools`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default .devlog.yaml in CWD or $HOME)")
	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&app.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newDailyCommand(app),
		newSummaryCommand(app),
		newShowCommand(app),
		newStatsCommand(app),
		newStatusCommand(app),
		newMCPCommand(app),
		newVersionCommand(),
	)

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())

			return err
		},
	}
}

// periodFlags selects a month the way every month-scoped command does.
type periodFlags struct {
	month int
	year  int
	auto  bool
}

func (p *periodFlags) register(flags *pflag.FlagSet, withAuto bool) {
	flags.IntVar(&p.month, "month", 0, "month 1-12 (default: current month)")
	flags.IntVar(&p.year, "year", 0, "year (default: current year)")

	if withAuto {
		flags.BoolVar(&p.auto, "auto", false, "target the previous month, as the end-of-month rollover does")
	}
}

func (p *periodFlags) resolve(now time.Time) (rollup.Period, error) {
	return rollup.ResolvePeriod(now, p.month, p.year, p.auto)
}
