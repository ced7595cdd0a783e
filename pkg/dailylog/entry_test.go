package dailylog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/devlog/pkg/dailylog"
)

const twoEntryLog = "# November 3, 2025 - Daily Progress Report\n\n" +
	"## 📦 Module\n\n**From Jira Board**\n\n" +
	"## 🧩 What I Did Today\n\n" +
	"* Picked and worked on the following Jira issues:\n\n" +
	"  - ABC-12: Fix bug (Done)\n\n" +
	"---\n\n" +
	"# November 4, 2025 - Daily Progress Report\n\n" +
	"## 📦 Module\n\n**backend, api**\n\n" +
	"## 🧩 What I Did Today\n\n" +
	"* Picked and worked on the following Jira issues:\n\n" +
	"  - ABC-12: Fix bug (In Progress)\n\n" +
	"  - XYZ-7: Add feature (In Progress)\n\n" +
	"---\n\n"

func TestParse_SplitsOnHeadings(t *testing.T) {
	t.Parallel()

	entries := dailylog.Parse(twoEntryLog)
	require.Len(t, entries, 2)

	assert.Equal(t, "November 3, 2025 - Daily Progress Report", entries[0].Heading)
	assert.Equal(t, "November 3, 2025", entries[0].DateText)
	assert.Equal(t, "November 4, 2025", entries[1].DateText)
	assert.Contains(t, entries[0].Body, "ABC-12: Fix bug (Done)")
	assert.NotContains(t, entries[0].Body, "November 4")
	assert.Contains(t, entries[1].Body, "XYZ-7")
}

func TestParse_RoundTripsWellFormedLog(t *testing.T) {
	t.Parallel()

	entries := dailylog.Parse(twoEntryLog)

	assert.Equal(t, twoEntryLog, dailylog.RenderEntries(entries))
	assert.Equal(t, entries, dailylog.Parse(dailylog.RenderEntries(entries)))
}

func TestParse_DropsPreamble(t *testing.T) {
	t.Parallel()

	text := "Personal notes, please ignore\n\n" + twoEntryLog

	entries := dailylog.Parse(text)
	require.Len(t, entries, 2)
	assert.Equal(t, twoEntryLog, dailylog.RenderEntries(entries))

	doc := dailylog.ParseDocument(text)
	assert.Equal(t, "Personal notes, please ignore\n\n", doc.Preamble)
	assert.Len(t, doc.Entries, 2)
}

func TestParse_NoHeadings(t *testing.T) {
	t.Parallel()

	assert.Empty(t, dailylog.Parse(""))
	assert.Empty(t, dailylog.Parse("just some text\n# Not a report\n"))

	doc := dailylog.ParseDocument("loose text\n")
	assert.Equal(t, "loose text\n", doc.Preamble)
	assert.Empty(t, doc.Entries)
}

func TestParse_KeepsUnparsableDateText(t *testing.T) {
	t.Parallel()

	text := "# 13 Frobuary 2025 - Daily Progress Report\n\nbody\n"

	entries := dailylog.Parse(text)
	require.Len(t, entries, 1)
	assert.Equal(t, "13 Frobuary 2025", entries[0].DateText)

	_, ok := entries[0].Date()
	assert.False(t, ok)
	assert.Equal(t, text, entries[0].Render())
}

func TestParse_HeadingAtEndOfFile(t *testing.T) {
	t.Parallel()

	entries := dailylog.Parse("# November 5, 2025 - Daily Progress Report")
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Body)
}

func TestParse_PreservesCarriageReturns(t *testing.T) {
	t.Parallel()

	text := "# November 3, 2025 - Daily Progress Report\r\n\r\n  - ABC-1: Thing (Done)\r\n"

	entries := dailylog.Parse(text)
	require.Len(t, entries, 1)
	assert.Equal(t, "November 3, 2025", entries[0].DateText)
	assert.Equal(t, text, entries[0].Render())
}

func TestEntry_Date(t *testing.T) {
	t.Parallel()

	entry := dailylog.Entry{DateText: "November 4, 2025"}

	date, ok := entry.Date()
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC), date)
}

func TestFormatDate_NoLeadingZero(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "March 7, 2026", dailylog.FormatDate(time.Date(2026, time.March, 7, 15, 0, 0, 0, time.UTC)))
}
