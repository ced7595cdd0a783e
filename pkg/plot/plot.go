// Package plot renders a month's aggregate as a standalone HTML chart page.
package plot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/devlog/pkg/rollup"
)

const (
	chartWidth       = "100%"
	barHeight        = "480px"
	pieHeight        = "420px"
	emptyChartHeight = "320px"
	dayLabelLayout   = "Jan 02"
	xAxisRotate      = 30
	stackName        = "issues"
)

var pieRadius = []string{"35%", "65%"}

// palette cycles through series colours in first-seen status order.
var palette = []string{
	"#5470c6", "#91cc75", "#fac858", "#ee6666",
	"#73c0de", "#3ba272", "#fc8452", "#9a60b4",
}

// Series is one stacked bar series: a status and its per-day counts.
type Series struct {
	Status string
	Counts []int
}

// DayLabels returns one x-axis label per recorded day, in chronological order.
func DayLabels(agg *rollup.MonthlyAggregate) []string {
	labels := make([]string, 0, len(agg.Days))

	for _, day := range agg.Days {
		if day.Date.IsZero() {
			labels = append(labels, day.DateText)

			continue
		}

		labels = append(labels, day.Date.Format(dayLabelLayout))
	}

	return labels
}

// StatusSeries counts issues per day and status. Series follow the order in
// which statuses were first seen in the month.
func StatusSeries(agg *rollup.MonthlyAggregate) []Series {
	tallies := agg.StatusCounts.Counts()
	series := make([]Series, len(tallies))
	index := make(map[string]int, len(tallies))

	for i, tally := range tallies {
		series[i] = Series{Status: tally.Status, Counts: make([]int, len(agg.Days))}
		index[tally.Status] = i
	}

	for d, day := range agg.Days {
		for _, issue := range day.Issues {
			i, ok := index[issue.Status]
			if !ok {
				continue
			}

			series[i].Counts[d]++
		}
	}

	return series
}

// Render writes an HTML page with the issues-per-day bar chart and the
// status distribution pie for agg.
func Render(w io.Writer, agg *rollup.MonthlyAggregate) error {
	page := components.NewPage()
	page.PageTitle = "Monthly Summary - " + agg.Period.String()
	page.SetLayout(components.PageFlexLayout)

	if len(agg.Days) == 0 {
		page.AddCharts(emptyChart(agg.Period))
	} else {
		page.AddCharts(dailyChart(agg), statusPie(agg))
	}

	err := page.Render(w)
	if err != nil {
		return fmt.Errorf("render chart page: %w", err)
	}

	return nil
}

func dailyChart(agg *rollup.MonthlyAggregate) *charts.Bar {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: barHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Issues per Day",
			Subtitle: fmt.Sprintf("%s, %d days worked", agg.Period, agg.TotalDays),
			Left:     "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: xAxisRotate, Interval: "0"}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Issues"}),
	)

	bar.SetXAxis(DayLabels(agg))

	for i, s := range StatusSeries(agg) {
		data := make([]opts.BarData, len(s.Counts))
		for d, count := range s.Counts {
			data[d] = opts.BarData{Value: count}
		}

		bar.AddSeries(s.Status, data,
			charts.WithBarChartOpts(opts.BarChart{Stack: stackName}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: palette[i%len(palette)]}),
		)
	}

	return bar
}

func statusPie(agg *rollup.MonthlyAggregate) *charts.Pie {
	pie := charts.NewPie()

	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: pieHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Status Breakdown",
			Subtitle: fmt.Sprintf("%d issues, %d unique", len(agg.AllIssues), len(agg.UniqueIssues)),
			Left:     "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	colors := make(map[string]string)
	for i, tally := range agg.StatusCounts.Counts() {
		colors[tally.Status] = palette[i%len(palette)]
	}

	ranked := agg.StatusCounts.Ranked()
	data := make([]opts.PieData, 0, len(ranked))

	for _, tally := range ranked {
		data = append(data, opts.PieData{
			Name:      tally.Status,
			Value:     tally.Count,
			ItemStyle: &opts.ItemStyle{Color: colors[tally.Status]},
		})
	}

	pie.AddSeries("Status", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c} ({d}%)",
			}),
			charts.WithPieChartOpts(opts.PieChart{Radius: pieRadius}),
		)

	return pie
}

func emptyChart(p rollup.Period) *charts.Bar {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Issues per Day", Subtitle: p.String() + ": no data", Left: "center",
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: emptyChartHeight}),
	)

	return bar
}
