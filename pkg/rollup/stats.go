package rollup

import "github.com/Sumatoshi-tech/devlog/pkg/dailylog"

// Stats is a serialisable view of a MonthlyAggregate for machine-readable output.
type Stats struct {
	Period       string           `json:"period"        yaml:"period"`
	DaysWorked   int              `json:"days_worked"   yaml:"days_worked"`
	TotalIssues  int              `json:"total_issues"  yaml:"total_issues"`
	UniqueIssues int              `json:"unique_issues" yaml:"unique_issues"`
	Labels       []string         `json:"labels"        yaml:"labels"`
	Statuses     []StatusCount    `json:"statuses"      yaml:"statuses"`
	Days         []DayStats       `json:"days"          yaml:"days"`
	Issues       []dailylog.Issue `json:"issues"        yaml:"issues"`
}

// DayStats is the per-day part of Stats.
type DayStats struct {
	Date   string           `json:"date"   yaml:"date"`
	Labels []string         `json:"labels" yaml:"labels"`
	Issues []dailylog.Issue `json:"issues" yaml:"issues"`
}

// Stats builds the serialisable view of a.
func (a *MonthlyAggregate) Stats() Stats {
	days := make([]DayStats, 0, len(a.Days))
	for _, day := range a.Days {
		days = append(days, DayStats{
			Date:   day.DateText,
			Labels: day.Labels.Sorted(),
			Issues: day.Issues,
		})
	}

	return Stats{
		Period:       a.Period.String(),
		DaysWorked:   a.TotalDays,
		TotalIssues:  len(a.AllIssues),
		UniqueIssues: len(a.UniqueIssues),
		Labels:       a.Labels.Sorted(),
		Statuses:     a.StatusCounts.Ranked(),
		Days:         days,
		Issues:       a.SortedUniqueIssues(),
	}
}
