package commands

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/devlog/pkg/dailylog"
	"github.com/Sumatoshi-tech/devlog/pkg/observability"
	"github.com/Sumatoshi-tech/devlog/pkg/persist"
	"github.com/Sumatoshi-tech/devlog/pkg/plot"
	"github.com/Sumatoshi-tech/devlog/pkg/rollup"
)

type summaryOptions struct {
	period periodFlags
	force  bool
	dryRun bool
	plot   string
}

func newSummaryCommand(app *App) *cobra.Command {
	var opts summaryOptions

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Roll a month of daily entries into a summary document",
		Long: `Aggregate one month of the daily log into a summary document and remove
that month's entries from the log. An existing summary is kept unless
--force is given; the month's entries are removed either way.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.run(cmd, "summary", observability.ModeCLI, func(ctx context.Context, env *runEnv) error {
				return runSummary(ctx, env, opts)
			})
		},
	}

	opts.period.register(cmd.Flags(), true)
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "regenerate an existing summary")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the summary and log diff without writing")
	cmd.Flags().StringVar(&opts.plot, "plot", "", "also write an HTML chart page of the month to this file")

	return cmd
}

func runSummary(ctx context.Context, env *runEnv, opts summaryOptions) error {
	period, err := opts.period.resolve(env.now())
	if err != nil {
		return err
	}

	ctrl, err := env.controller()
	if err != nil {
		return err
	}

	outcome, err := ctrl.Run(ctx, rollup.Request{Period: period, Force: opts.force, DryRun: opts.dryRun})
	if err != nil {
		return err
	}

	env.countRolled(ctx, outcome)

	out := &errWriter{w: env.out}

	if opts.dryRun {
		writeDryRun(out, outcome)
	} else {
		writeOutcome(out, env, outcome)
	}

	if opts.plot != "" {
		writePlot(out, env, outcome, opts.plot)
	}

	return out.err
}

func writeOutcome(out *errWriter, env *runEnv, outcome rollup.Outcome) {
	path := env.vault.SummaryPath(outcome.Period)

	switch outcome.Status {
	case rollup.StatusNothingToSummarize:
		out.colorf(color.New(color.FgYellow), "No entries found for %s\n", outcome.Period)

		return
	case rollup.StatusSkipped:
		out.colorf(color.New(color.FgYellow), "Summary for %s already exists: %s (use --force to regenerate)\n",
			outcome.Period, path)
	case rollup.StatusGenerated, rollup.StatusRegenerated:
		out.colorf(color.New(color.FgGreen), "Summary %s: %s\n", outcome.Status, path)
	}

	if outcome.LogRewritten {
		out.printf("Removed %d entries from the daily log (%d kept)\n", outcome.Removed, outcome.Kept)
	}

	if outcome.Archived {
		out.printf("Archived removed entries to %s\n", env.vault.NewArchiver().Path(outcome.Period))
	}

	if outcome.Unparsable > 0 {
		out.colorf(color.New(color.FgYellow), "Kept %d entries with unreadable dates\n", outcome.Unparsable)
	}
}

func writeDryRun(out *errWriter, outcome rollup.Outcome) {
	if outcome.Status == rollup.StatusNothingToSummarize {
		out.colorf(color.New(color.FgYellow), "No entries found for %s\n", outcome.Period)

		return
	}

	bold := color.New(color.Bold)

	out.colorf(bold, "Summary (%s):\n\n", outcome.Status)
	out.printf("%s\n", outcome.Summary)
	out.colorf(bold, "Daily log changes (%d removed, %d kept):\n\n", outcome.Removed, outcome.Kept)

	if outcome.OldLog == outcome.NewLog {
		out.printf("  (no changes)\n")
	} else {
		writeLineDiff(out, outcome.OldLog, outcome.NewLog)
	}

	out.colorf(color.New(color.FgCyan), "\nDry run: nothing was written\n")
}

func writePlot(out *errWriter, env *runEnv, outcome rollup.Outcome, path string) {
	if out.err != nil {
		return
	}

	agg := outcome.Aggregate
	if agg == nil {
		agg, _ = rollup.Aggregate(dailylog.Parse(outcome.OldLog), outcome.Period, env.cfg.UniquePolicy())
	}

	if agg == nil || len(agg.Days) == 0 {
		out.colorf(color.New(color.FgYellow), "Nothing to plot for %s\n", outcome.Period)

		return
	}

	var buf bytes.Buffer

	err := plot.Render(&buf, agg)
	if err == nil {
		err = persist.WriteFileAtomic(path, buf.Bytes())
	}

	if err != nil {
		out.err = fmt.Errorf("write plot: %w", err)

		return
	}

	out.printf("Chart written to %s\n", path)
}
