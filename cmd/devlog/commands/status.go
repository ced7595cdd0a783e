package commands

import (
	"cmp"
	"context"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/devlog/pkg/dailylog"
	"github.com/Sumatoshi-tech/devlog/pkg/observability"
	"github.com/Sumatoshi-tech/devlog/pkg/rollup"
	"github.com/Sumatoshi-tech/devlog/pkg/textutil"
)

const defaultRecentRollovers = 5

func newStatusCommand(app *App) *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Describe the daily log and recent rollovers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.run(cmd, "status", observability.ModeCLI, func(ctx context.Context, env *runEnv) error {
				return runStatus(ctx, env, recent)
			})
		},
	}

	cmd.Flags().IntVar(&recent, "recent", defaultRecentRollovers, "number of recent rollovers to list")

	return cmd
}

type monthCount struct {
	period  rollup.Period
	entries int
}

func runStatus(ctx context.Context, env *runEnv, recent int) error {
	text, err := env.vault.ReadLog(ctx)
	if err != nil {
		return err
	}

	out := &errWriter{w: env.out}
	warn := color.New(color.FgYellow)

	entries := dailylog.Parse(text)

	out.colorf(color.New(color.Bold), "Daily log: %s\n", env.vault.LogPath())
	out.printf("Size:      %s, %d lines, %d entries\n\n",
		humanize.Bytes(uint64(len(text))), textutil.CountLines(text), len(entries))

	if textutil.IsBinary([]byte(text)) {
		out.colorf(warn, "Warning: the log contains binary data\n\n")
	}

	months, unreadable := countByMonth(entries)

	if len(months) > 0 {
		tbl := newTable()
		tbl.AppendHeader(table.Row{"Month", "Entries", "Summary"})

		for _, mc := range months {
			_, exists, readErr := env.vault.ReadSummary(ctx, mc.period)
			if readErr != nil {
				return readErr
			}

			summary := "-"
			if exists {
				summary = "exists"
			}

			tbl.AppendRow(table.Row{mc.period.String(), mc.entries, summary})
		}

		out.printf("%s\n\n", tbl.Render())
	}

	if len(unreadable) > 0 {
		out.colorf(warn, "Entries with unreadable dates (kept by every rollover):\n")

		for _, heading := range unreadable {
			out.printf("  - %s\n", heading)
		}

		out.printf("\n")
	}

	writeRecentRollovers(out, env, recent)

	return out.err
}

// countByMonth groups dated entries by calendar month in chronological
// order and collects the headings of undated ones.
func countByMonth(entries []dailylog.Entry) ([]monthCount, []string) {
	index := make(map[rollup.Period]int)

	var (
		months     []monthCount
		unreadable []string
	)

	for _, entry := range entries {
		date, ok := entry.Date()
		if !ok {
			unreadable = append(unreadable, entry.Heading)

			continue
		}

		p := rollup.PeriodOf(date)

		i, seen := index[p]
		if !seen {
			i = len(months)
			index[p] = i
			months = append(months, monthCount{period: p})
		}

		months[i].entries++
	}

	slices.SortFunc(months, func(a, b monthCount) int {
		return cmp.Compare(a.period.Key(), b.period.Key())
	})

	return months, unreadable
}

func writeRecentRollovers(out *errWriter, env *runEnv, n int) {
	records, err := env.ledger().Recent(n)
	if err != nil {
		env.logger.Warn("cannot read rollover history", "error", err)

		return
	}

	if len(records) == 0 {
		out.printf("No rollovers recorded yet\n")

		return
	}

	now := env.now()

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Period", "Status", "Removed", "Kept", "When"})

	for _, rec := range records {
		tbl.AppendRow(table.Row{
			rec.Period, rec.Status, rec.Removed, rec.Kept,
			humanize.RelTime(rec.At, now, "ago", "from now"),
		})
	}

	out.printf("Recent rollovers:\n%s\n", tbl.Render())
}
