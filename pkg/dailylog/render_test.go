package dailylog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/devlog/pkg/dailylog"
)

var nov4 = time.Date(2025, time.November, 4, 9, 30, 0, 0, time.UTC)

func TestRenderEntry_FixedTemplate(t *testing.T) {
	t.Parallel()

	got := dailylog.RenderEntry(
		[]dailylog.Issue{{Key: "ABC-12", Summary: "Fix bug", Status: "Done"}},
		dailylog.LabelSet{},
		nov4,
	)

	want := "# November 4, 2025 - Daily Progress Report\n\n" +
		"## 📦 Module\n\n" +
		"**From Jira Board**\n\n" +
		"## 🧩 What I Did Today\n\n" +
		"* Picked and worked on the following Jira issues:\n\n" +
		"  - ABC-12: Fix bug (Done)\n\n" +
		"---\n\n"

	assert.Equal(t, want, got)
}

func TestRenderEntry_NoIssues(t *testing.T) {
	t.Parallel()

	got := dailylog.RenderEntry(nil, nil, nov4)

	assert.Contains(t, got, "**From Jira Board**")
	assert.Contains(t, got, "* Picked and worked on the following Jira issues:\n\n---\n\n")
}

func TestRenderEntry_SortedLabels(t *testing.T) {
	t.Parallel()

	got := dailylog.RenderEntry(nil, dailylog.NewLabelSet("web", "api"), nov4)

	assert.Contains(t, got, "**api, web**")
}

func TestRenderEntry_RoundTripsThroughParser(t *testing.T) {
	t.Parallel()

	issues := []dailylog.Issue{
		{Key: "XYZ-7", Summary: "Add feature", Status: "In Progress"},
		{Key: "ABC-12", Summary: "Fix (legacy) bug", Status: "Done"},
		{Key: "OPS-3", Summary: "Rotate: keys", Status: "To Do"},
	}
	labels := dailylog.NewLabelSet("payments", "search")

	rendered := dailylog.RenderEntry(issues, labels, nov4)

	entries := dailylog.Parse(rendered)
	require.Len(t, entries, 1)
	assert.Equal(t, "November 4, 2025", entries[0].DateText)
	assert.Equal(t, rendered, entries[0].Render())

	gotIssues, gotLabels := dailylog.Extract(entries[0].Body)
	assert.Equal(t, issues, gotIssues)
	assert.Equal(t, labels.Sorted(), gotLabels.Sorted())
}
