package dailylog

import (
	"strings"
	"time"
)

// Fixed pieces of the daily entry template. Parse and Extract depend on this
// exact text, so any change here must keep both regexps matching.
const (
	moduleHeading = "## 📦 Module\n\n"
	workHeading   = "## 🧩 What I Did Today\n\n"
	workIntro     = "* Picked and worked on the following Jira issues:\n\n"
	issueIndent   = "  - "
	entrySep      = "---\n\n"
	labelJoiner   = ", "
)

// RenderEntry renders one daily entry for date from the given issues and labels.
// Issues keep their input order; labels are sorted, or replaced by the
// fallback label when the set is empty.
func RenderEntry(issues []Issue, labels LabelSet, date time.Time) string {
	var sb strings.Builder

	sb.WriteString(headingPrefix + FormatDate(date) + HeadingSuffix + "\n\n")

	sb.WriteString(moduleHeading)
	sb.WriteString("**" + moduleLine(labels) + "**\n\n")

	sb.WriteString(workHeading)
	sb.WriteString(workIntro)

	for _, issue := range issues {
		sb.WriteString(issueIndent + issue.String() + "\n\n")
	}

	sb.WriteString(entrySep)

	return sb.String()
}

func moduleLine(labels LabelSet) string {
	sorted := labels.Sorted()
	if len(sorted) == 0 {
		return FallbackLabel
	}

	return strings.Join(sorted, labelJoiner)
}
