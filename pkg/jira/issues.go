package jira

import "github.com/Sumatoshi-tech/devlog/pkg/dailylog"

// Records converts issues to log records, keeping order.
func Records(issues []Issue) []dailylog.Issue {
	records := make([]dailylog.Issue, 0, len(issues))
	for _, issue := range issues {
		records = append(records, issue.Record())
	}

	return records
}

// Labels is the union of every issue's labels.
func Labels(issues []Issue) dailylog.LabelSet {
	labels := dailylog.LabelSet{}
	for _, issue := range issues {
		for _, label := range issue.Labels {
			labels.Add(label)
		}
	}

	return labels
}
