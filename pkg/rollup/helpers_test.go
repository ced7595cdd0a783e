package rollup_test

import (
	"strings"
	"time"

	"github.com/Sumatoshi-tech/devlog/pkg/dailylog"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func issue(key, summary, status string) dailylog.Issue {
	return dailylog.Issue{Key: key, Summary: summary, Status: status}
}

// buildLog renders one entry per date using the daily template.
func buildLog(entries ...string) string {
	return strings.Join(entries, "")
}

func entry(date time.Time, labels []string, issues ...dailylog.Issue) string {
	return dailylog.RenderEntry(issues, dailylog.NewLabelSet(labels...), date)
}

// fixtureNovember is the two-day November log used across the rollover tests.
func fixtureNovember() string {
	return buildLog(
		entry(day(2025, time.November, 3), nil, issue("ABC-12", "Fix bug", "Done")),
		entry(day(2025, time.November, 4), []string{"backend"},
			issue("ABC-12", "Fix bug", "In Progress"),
			issue("XYZ-7", "Add feature", "In Progress"),
		),
	)
}
