package plot_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/devlog/pkg/dailylog"
	"github.com/Sumatoshi-tech/devlog/pkg/plot"
	"github.com/Sumatoshi-tech/devlog/pkg/rollup"
)

func november(t *testing.T) *rollup.MonthlyAggregate {
	t.Helper()

	log := dailylog.RenderEntry([]dailylog.Issue{
		{Key: "ABC-12", Summary: "Fix bug", Status: "Done"},
	}, nil, time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)) +
		dailylog.RenderEntry([]dailylog.Issue{
			{Key: "ABC-12", Summary: "Fix bug", Status: "In Progress"},
			{Key: "XYZ-7", Summary: "Add feature", Status: "In Progress"},
		}, dailylog.NewLabelSet("backend"), time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC))

	agg, ok := rollup.Aggregate(dailylog.Parse(log), rollup.Period{Year: 2025, Month: time.November}, rollup.UniqueLast)
	require.True(t, ok)

	return agg
}

func TestDayLabels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Nov 03", "Nov 04"}, plot.DayLabels(november(t)))
}

func TestStatusSeries(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []plot.Series{
		{Status: "Done", Counts: []int{1, 0}},
		{Status: "In Progress", Counts: []int{0, 2}},
	}, plot.StatusSeries(november(t)))
}

func TestRender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, plot.Render(&buf, november(t)))

	html := buf.String()
	assert.Contains(t, html, "Monthly Summary - November 2025")
	assert.Contains(t, html, "Issues per Day")
	assert.Contains(t, html, "Status Breakdown")
	assert.Contains(t, html, "Nov 04")
	assert.Contains(t, html, "In Progress")
	assert.Contains(t, html, "echarts")
}

func TestRender_EmptyAggregate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	agg := &rollup.MonthlyAggregate{Period: rollup.Period{Year: 2025, Month: time.December}}

	require.NoError(t, plot.Render(&buf, agg))
	assert.Contains(t, buf.String(), "December 2025: no data")
}
