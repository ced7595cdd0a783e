package rollup

import (
	"fmt"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/devlog/pkg/dailylog"
)

// GeneratedLayout formats the summary generation timestamp.
const GeneratedLayout = "January 2, 2006 at 15:04"

const (
	noneLabel      = "None"
	noIssuesLine   = "- _No issues recorded_\n"
	summaryJoiner  = ", "
	titleFormat    = "# 📊 Monthly Summary - %s\n\n"
	generatedFmt   = "*Generated on %s*\n\n"
	statsHeading   = "## 📈 Statistics\n\n"
	statusHeading  = "## 📋 Status Breakdown\n\n"
	dailyHeading   = "## 📅 Daily Breakdown\n\n"
	allHeading     = "## 🗂️ All Issues\n\n"
	dayHeadingFmt  = "### %s\n\n"
	dayModulesFmt  = "**Modules:** %s\n\n"
	statLineFmt    = "- **%s:** %v\n"
	statusLineFmt  = "- **%s:** %d\n"
	issueLinePrefx = "- "
)

// RenderSummary renders the monthly summary document for agg.
func RenderSummary(agg *MonthlyAggregate, generatedOn time.Time) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, titleFormat, agg.Period)
	fmt.Fprintf(&sb, generatedFmt, generatedOn.Format(GeneratedLayout))

	writeStatistics(&sb, agg)
	writeStatusBreakdown(&sb, agg)
	writeDailyBreakdown(&sb, agg)
	writeAllIssues(&sb, agg)

	return sb.String()
}

func writeStatistics(sb *strings.Builder, agg *MonthlyAggregate) {
	sb.WriteString(statsHeading)
	fmt.Fprintf(sb, statLineFmt, "Days Worked", agg.TotalDays)
	fmt.Fprintf(sb, statLineFmt, "Total Issues Worked On", len(agg.AllIssues))
	fmt.Fprintf(sb, statLineFmt, "Unique Issues", len(agg.UniqueIssues))
	fmt.Fprintf(sb, statLineFmt, "Modules/Labels", joinLabels(agg.Labels))
	sb.WriteString("\n")
}

func writeStatusBreakdown(sb *strings.Builder, agg *MonthlyAggregate) {
	sb.WriteString(statusHeading)

	ranked := agg.StatusCounts.Ranked()
	if len(ranked) == 0 {
		sb.WriteString(noIssuesLine)
	}

	for _, sc := range ranked {
		fmt.Fprintf(sb, statusLineFmt, sc.Status, sc.Count)
	}

	sb.WriteString("\n")
}

func writeDailyBreakdown(sb *strings.Builder, agg *MonthlyAggregate) {
	sb.WriteString(dailyHeading)

	for _, day := range agg.Days {
		fmt.Fprintf(sb, dayHeadingFmt, day.DateText)
		fmt.Fprintf(sb, dayModulesFmt, joinLabels(day.Labels))
		writeIssueList(sb, day.Issues)
		sb.WriteString("\n")
	}
}

func writeAllIssues(sb *strings.Builder, agg *MonthlyAggregate) {
	sb.WriteString(allHeading)
	writeIssueList(sb, agg.SortedUniqueIssues())
}

func writeIssueList(sb *strings.Builder, issues []dailylog.Issue) {
	if len(issues) == 0 {
		sb.WriteString(noIssuesLine)

		return
	}

	for _, issue := range issues {
		sb.WriteString(issueLinePrefx + issue.String() + "\n")
	}
}

func joinLabels(labels dailylog.LabelSet) string {
	sorted := labels.Sorted()
	if len(sorted) == 0 {
		return noneLabel
	}

	return strings.Join(sorted, summaryJoiner)
}
