package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/devlog/pkg/dailylog"
	"github.com/Sumatoshi-tech/devlog/pkg/observability"
	"github.com/Sumatoshi-tech/devlog/pkg/persist"
	"github.com/Sumatoshi-tech/devlog/pkg/rollup"
)

// Output formats for stats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown output format")

type statsOptions struct {
	period periodFlags
	format string
}

func newStatsCommand(app *App) *cobra.Command {
	var opts statsOptions

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print a month's aggregate without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.run(cmd, "stats", observability.ModeCLI, func(ctx context.Context, env *runEnv) error {
				return runStats(ctx, env, opts)
			})
		},
	}

	opts.period.register(cmd.Flags(), true)
	cmd.Flags().StringVarP(&opts.format, "format", "o", FormatText, "output format: text, json, yaml")

	return cmd
}

func runStats(ctx context.Context, env *runEnv, opts statsOptions) error {
	var codec persist.Codec

	switch opts.format {
	case FormatText:
	case FormatJSON:
		codec = persist.NewJSONCodec()
	case FormatYAML:
		codec = persist.NewYAMLCodec()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.format)
	}

	period, err := opts.period.resolve(env.now())
	if err != nil {
		return err
	}

	text, err := env.vault.ReadLog(ctx)
	if err != nil {
		return err
	}

	agg, ok := rollup.Aggregate(dailylog.Parse(text), period, env.cfg.UniquePolicy())
	if !ok {
		agg = &rollup.MonthlyAggregate{Period: period, Labels: dailylog.LabelSet{}}
	}

	if codec != nil {
		return codec.Encode(env.out, agg.Stats())
	}

	out := &errWriter{w: env.out}
	writeStatsText(out, agg)

	return out.err
}

func writeStatsText(out *errWriter, agg *rollup.MonthlyAggregate) {
	stats := agg.Stats()

	out.colorf(color.New(color.Bold), "%s\n\n", stats.Period)

	if stats.DaysWorked == 0 {
		out.colorf(color.New(color.FgYellow), "No entries found for %s\n", stats.Period)

		return
	}

	labels := strings.Join(stats.Labels, ", ")
	if labels == "" {
		labels = "None"
	}

	out.printf("Days worked:    %d\n", stats.DaysWorked)
	out.printf("Total issues:   %d\n", stats.TotalIssues)
	out.printf("Unique issues:  %d\n", stats.UniqueIssues)
	out.printf("Modules:        %s\n\n", labels)

	statuses := newTable()
	statuses.AppendHeader(table.Row{"Status", "Count"})

	for _, sc := range stats.Statuses {
		statuses.AppendRow(table.Row{sc.Status, sc.Count})
	}

	out.printf("%s\n\n", statuses.Render())

	days := newTable()
	days.AppendHeader(table.Row{"Date", "Modules", "Issues"})

	for _, day := range stats.Days {
		keys := make([]string, 0, len(day.Issues))
		for _, issue := range day.Issues {
			keys = append(keys, issue.Key)
		}

		days.AppendRow(table.Row{day.Date, strings.Join(day.Labels, ", "), strings.Join(keys, " ")})
	}

	days.AppendFooter(table.Row{fmt.Sprintf("Total: %d days", len(stats.Days))})

	out.printf("%s\n", days.Render())
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false

	return tbl
}
