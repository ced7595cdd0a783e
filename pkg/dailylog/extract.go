package dailylog

import (
	"regexp"
	"slices"

	"github.com/Sumatoshi-tech/devlog/pkg/textutil"
)

// FallbackLabel is written to the module line when an entry has no labels.
// It is never reported as a label.
const FallbackLabel = "From Jira Board"

const labelSeparator = ","

var (
	// moduleSectionPattern captures the text between the module heading and the
	// "What I Did Today" heading.
	moduleSectionPattern = regexp.MustCompile(`(?s)##[^\n]*\bModule\b[^\n]*\n(.*?)##[^\n]*What I Did Today`)

	// issueLinePattern matches "  - KEY: summary (status)". The status is the
	// last parenthesised group on the line.
	issueLinePattern = regexp.MustCompile(`(?m)^  - ([A-Z]+-\d+): (.*?) \(([^()\n]*)\)[ \t\r]*$`)
)

// Issue is one issue line of an entry.
type Issue struct {
	Key     string `json:"key"     yaml:"key"`
	Summary string `json:"summary" yaml:"summary"`
	Status  string `json:"status"  yaml:"status"`
}

// String formats the issue the way entry lines show it.
func (i Issue) String() string {
	return i.Key + ": " + i.Summary + " (" + i.Status + ")"
}

// LabelSet is a set of module labels.
type LabelSet map[string]struct{}

// NewLabelSet builds a set from labels, ignoring empty strings and the fallback label.
func NewLabelSet(labels ...string) LabelSet {
	set := make(LabelSet, len(labels))

	for _, label := range labels {
		set.Add(label)
	}

	return set
}

// Add inserts label unless it is empty or the fallback label.
func (s LabelSet) Add(label string) {
	if label == "" || label == FallbackLabel {
		return
	}

	s[label] = struct{}{}
}

// Union adds every label of other to s.
func (s LabelSet) Union(other LabelSet) {
	for label := range other {
		s.Add(label)
	}
}

// Has reports whether label is in the set.
func (s LabelSet) Has(label string) bool {
	_, ok := s[label]

	return ok
}

// Sorted returns the labels in ascending order.
func (s LabelSet) Sorted() []string {
	labels := make([]string, 0, len(s))
	for label := range s {
		labels = append(labels, label)
	}

	slices.Sort(labels)

	return labels
}

// Extract recovers the issues and labels encoded in an entry body.
func Extract(body string) ([]Issue, LabelSet) {
	return ExtractIssues(body), ExtractLabels(body)
}

// ExtractLabels reads the module section of an entry body.
func ExtractLabels(body string) LabelSet {
	match := moduleSectionPattern.FindStringSubmatch(body)
	if match == nil {
		return LabelSet{}
	}

	text := textutil.TrimEmphasis(match[1])
	if text == "" || text == FallbackLabel {
		return LabelSet{}
	}

	return NewLabelSet(textutil.SplitList(text, labelSeparator)...)
}

// ExtractIssues returns the issue lines of an entry body in order of appearance.
func ExtractIssues(body string) []Issue {
	matches := issueLinePattern.FindAllStringSubmatch(body, -1)

	issues := make([]Issue, 0, len(matches))
	for _, match := range matches {
		issues = append(issues, Issue{
			Key:     match[1],
			Summary: match[2],
			Status:  match[3],
		})
	}

	return issues
}
