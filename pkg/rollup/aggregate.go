package rollup

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Sumatoshi-tech/devlog/pkg/dailylog"
)

// UniquePolicy selects which occurrence of a repeated issue key is kept in
// the de-duplicated issue set.
type UniquePolicy string

const (
	// UniqueLast keeps the latest occurrence in chronological scan order.
	UniqueLast UniquePolicy = "last"
	// UniqueFirst keeps the earliest occurrence in chronological scan order.
	UniqueFirst UniquePolicy = "first"
)

// ErrUnknownUniquePolicy is returned for policy names other than "first" and "last".
var ErrUnknownUniquePolicy = errors.New("unknown unique issue policy")

// ParseUniquePolicy converts a config value into a UniquePolicy. Empty means UniqueLast.
func ParseUniquePolicy(name string) (UniquePolicy, error) {
	switch UniquePolicy(name) {
	case "", UniqueLast:
		return UniqueLast, nil
	case UniqueFirst:
		return UniqueFirst, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownUniquePolicy, name)
	}
}

// StatusCount is the number of issue occurrences carrying one status.
type StatusCount struct {
	Status string `json:"status" yaml:"status"`
	Count  int    `json:"count"  yaml:"count"`
}

// StatusTally counts statuses, remembering the order they were first seen.
type StatusTally struct {
	counts []StatusCount
	index  map[string]int
}

// Add counts one occurrence of status.
func (t *StatusTally) Add(status string) {
	if t.index == nil {
		t.index = make(map[string]int)
	}

	pos, ok := t.index[status]
	if !ok {
		pos = len(t.counts)
		t.index[status] = pos
		t.counts = append(t.counts, StatusCount{Status: status})
	}

	t.counts[pos].Count++
}

// Count returns the tally for status.
func (t *StatusTally) Count(status string) int {
	pos, ok := t.index[status]
	if !ok {
		return 0
	}

	return t.counts[pos].Count
}

// Len returns the number of distinct statuses.
func (t *StatusTally) Len() int {
	return len(t.counts)
}

// Counts returns the tallies in first-seen order.
func (t *StatusTally) Counts() []StatusCount {
	return slices.Clone(t.counts)
}

// Ranked returns the tallies by descending count; ties keep first-seen order.
func (t *StatusTally) Ranked() []StatusCount {
	ranked := slices.Clone(t.counts)
	slices.SortStableFunc(ranked, func(a, b StatusCount) int {
		return cmp.Compare(b.Count, a.Count)
	})

	return ranked
}

// DayBreakdown holds the issues and labels recorded under one heading date.
type DayBreakdown struct {
	DateText string
	Date     time.Time
	Issues   []dailylog.Issue
	Labels   dailylog.LabelSet
}

// MonthlyAggregate is everything a monthly summary reports about one Period.
type MonthlyAggregate struct {
	Period    Period
	TotalDays int
	// AllIssues keeps every occurrence, duplicates included.
	AllIssues []dailylog.Issue
	// UniqueIssues maps issue key to the occurrence chosen by the UniquePolicy.
	UniqueIssues map[string]dailylog.Issue
	StatusCounts StatusTally
	Labels       dailylog.LabelSet
	// Days is in chronological order.
	Days []*DayBreakdown

	dayIndex map[string]int
}

type datedEntry struct {
	entry dailylog.Entry
	date  time.Time
}

// Aggregate accumulates the entries dated inside period. Entries whose date
// does not parse are ignored. Returns false when no entry belongs to period.
func Aggregate(entries []dailylog.Entry, period Period, policy UniquePolicy) (*MonthlyAggregate, bool) {
	retained := make([]datedEntry, 0, len(entries))

	for _, entry := range entries {
		date, ok := entry.Date()
		if !ok || !period.Contains(date) {
			continue
		}

		retained = append(retained, datedEntry{entry: entry, date: date})
	}

	if len(retained) == 0 {
		return nil, false
	}

	slices.SortStableFunc(retained, func(a, b datedEntry) int {
		return a.date.Compare(b.date)
	})

	agg := &MonthlyAggregate{
		Period:       period,
		UniqueIssues: make(map[string]dailylog.Issue),
		Labels:       dailylog.LabelSet{},
		dayIndex:     make(map[string]int),
	}

	for _, de := range retained {
		issues, labels := dailylog.Extract(de.entry.Body)
		agg.add(de.entry.DateText, de.date, issues, labels, policy)
	}

	return agg, true
}

func (a *MonthlyAggregate) add(dateText string, date time.Time, issues []dailylog.Issue, labels dailylog.LabelSet, policy UniquePolicy) {
	a.TotalDays++
	a.Labels.Union(labels)

	day := a.day(dateText, date)
	day.Labels.Union(labels)

	for _, issue := range issues {
		a.AllIssues = append(a.AllIssues, issue)
		a.StatusCounts.Add(issue.Status)
		day.Issues = append(day.Issues, issue)

		_, seen := a.UniqueIssues[issue.Key]
		if policy == UniqueFirst && seen {
			continue
		}

		a.UniqueIssues[issue.Key] = issue
	}
}

func (a *MonthlyAggregate) day(dateText string, date time.Time) *DayBreakdown {
	pos, ok := a.dayIndex[dateText]
	if ok {
		return a.Days[pos]
	}

	day := &DayBreakdown{
		DateText: dateText,
		Date:     date,
		Labels:   dailylog.LabelSet{},
	}

	a.dayIndex[dateText] = len(a.Days)
	a.Days = append(a.Days, day)

	return day
}

// SortedUniqueIssues returns the de-duplicated issues ordered by key.
func (a *MonthlyAggregate) SortedUniqueIssues() []dailylog.Issue {
	issues := make([]dailylog.Issue, 0, len(a.UniqueIssues))
	for _, issue := range a.UniqueIssues {
		issues = append(issues, issue)
	}

	slices.SortFunc(issues, func(x, y dailylog.Issue) int {
		return cmp.Compare(x.Key, y.Key)
	})

	return issues
}
