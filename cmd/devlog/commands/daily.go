package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/devlog/pkg/dailylog"
	"github.com/Sumatoshi-tech/devlog/pkg/jira"
	"github.com/Sumatoshi-tech/devlog/pkg/observability"
	"github.com/Sumatoshi-tech/devlog/pkg/rollup"
)

type dailyOptions struct {
	force  bool
	dryRun bool
	date   string
}

func newDailyCommand(app *App) *cobra.Command {
	var opts dailyOptions

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Append today's in-progress Jira issues to the daily log",
		Long: `Fetch the issues matching the configured JQL and append a dated entry to
the daily log. Weekends are skipped unless --force is given or
daily.skip_weekends is false. With rollover.auto set, the previous month is
rolled over first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.run(cmd, "daily", observability.ModeCLI, func(ctx context.Context, env *runEnv) error {
				return runDaily(ctx, env, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "run on weekends too")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the entry instead of appending it")
	cmd.Flags().StringVar(&opts.date, "date", "", "entry date as YYYY-MM-DD (default: today)")

	return cmd
}

func runDaily(ctx context.Context, env *runEnv, opts dailyOptions) error {
	out := &errWriter{w: env.out}

	date, err := entryDate(env.now(), opts.date)
	if err != nil {
		return err
	}

	if isWeekend(date) && env.cfg.Daily.SkipWeekends {
		if !opts.force {
			out.colorf(color.New(color.FgYellow), "Skipping report generation on weekends (%s)\n", date.Weekday())
			out.printf("Tip: use --force or -f to run manually on weekends\n")

			return out.err
		}

		out.printf("Force run enabled, generating report on %s\n", date.Weekday())
	}

	if env.cfg.Rollover.Auto {
		err = autoRollover(ctx, env, out, date, opts.dryRun)
		if err != nil {
			return err
		}
	}

	client, err := jira.NewClient(jira.Config{
		Domain:     env.cfg.Jira.Domain,
		Email:      env.cfg.Jira.Email,
		APIToken:   env.cfg.Jira.APIToken,
		JQL:        env.cfg.Jira.JQL,
		MaxResults: env.cfg.Jira.MaxResults,
		Timeout:    env.cfg.Jira.Timeout,
	}, observability.NewTransport(nil, env.tracer, env.metrics), env.logger)
	if err != nil {
		return err
	}

	issues, err := client.FetchInProgress(ctx)
	if err != nil {
		return err
	}

	entry := dailylog.RenderEntry(jira.Records(issues), jira.Labels(issues), date)

	if opts.dryRun {
		out.printf("%s", entry)

		return out.err
	}

	err = env.vault.AppendLog(ctx, entry)
	if err != nil {
		return err
	}

	env.logger.InfoContext(ctx, "daily entry appended", "date", dailylog.FormatDate(date), "issues", len(issues))

	suffix := ""
	if len(issues) == 0 {
		suffix = " (no tasks found)"
	}

	out.colorf(color.New(color.FgGreen), "Report saved to: %s%s\n", env.vault.LogPath(), suffix)

	return out.err
}

// autoRollover summarises the month before date unless its summary exists.
func autoRollover(ctx context.Context, env *runEnv, out *errWriter, date time.Time, dryRun bool) error {
	ctrl, err := env.controller()
	if err != nil {
		return err
	}

	outcome, err := ctrl.Run(ctx, rollup.Request{
		Period: rollup.PeriodOf(date).Previous(),
		DryRun: dryRun,
	})
	if err != nil {
		return fmt.Errorf("auto rollover: %w", err)
	}

	env.countRolled(ctx, outcome)

	if outcome.Status == rollup.StatusGenerated {
		out.colorf(color.New(color.FgCyan), "Rolled over %s: %d entries moved to %s\n",
			outcome.Period, outcome.Removed, env.vault.SummaryPath(outcome.Period))
	}

	return out.err
}

func entryDate(now time.Time, flag string) (time.Time, error) {
	if flag == "" {
		return now, nil
	}

	date, err := time.ParseInLocation(time.DateOnly, flag, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: %w", flag, err)
	}

	return date, nil
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}
