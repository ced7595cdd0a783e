package dailylog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/devlog/pkg/dailylog"
)

func TestExtract_IssuesInOrder(t *testing.T) {
	t.Parallel()

	entries := dailylog.Parse(twoEntryLog)
	require.Len(t, entries, 2)

	issues, labels := dailylog.Extract(entries[1].Body)

	assert.Equal(t, []dailylog.Issue{
		{Key: "ABC-12", Summary: "Fix bug", Status: "In Progress"},
		{Key: "XYZ-7", Summary: "Add feature", Status: "In Progress"},
	}, issues)
	assert.Equal(t, []string{"api", "backend"}, labels.Sorted())
}

func TestExtractLabels_FallbackIsEmpty(t *testing.T) {
	t.Parallel()

	entries := dailylog.Parse(twoEntryLog)

	labels := dailylog.ExtractLabels(entries[0].Body)
	assert.Empty(t, labels)
	assert.False(t, labels.Has(dailylog.FallbackLabel))
}

func TestExtractLabels_EmptySection(t *testing.T) {
	t.Parallel()

	body := "\n## 📦 Module\n\n\n## 🧩 What I Did Today\n\n"

	assert.Empty(t, dailylog.ExtractLabels(body))
}

func TestExtractLabels_MissingSection(t *testing.T) {
	t.Parallel()

	assert.Empty(t, dailylog.ExtractLabels("  - ABC-1: Thing (Done)\n"))
}

func TestExtractLabels_TrimsEachLabel(t *testing.T) {
	t.Parallel()

	body := "## 📦 Module\n\n**  payments ,  search,, infra  **\n\n## 🧩 What I Did Today\n"

	assert.Equal(t, []string{"infra", "payments", "search"}, dailylog.ExtractLabels(body).Sorted())
}

func TestExtractIssues_StatusIsLastParenGroup(t *testing.T) {
	t.Parallel()

	body := "  - OPS-101: Rotate keys (prod) for vault (Code Review)\n"

	issues := dailylog.ExtractIssues(body)
	require.Len(t, issues, 1)
	assert.Equal(t, "Rotate keys (prod) for vault", issues[0].Summary)
	assert.Equal(t, "Code Review", issues[0].Status)
}

func TestExtractIssues_SkipsMalformedLines(t *testing.T) {
	t.Parallel()

	body := "" +
		"  - abc-1: lowercase key (Done)\n" +
		"  - ABC: missing number (Done)\n" +
		" - ABC-2: one space indent (Done)\n" +
		"  - ABC-3: no status\n" +
		"* ABC-4: wrong bullet (Done)\n" +
		"  - ABC-5: kept (Done)\n"

	issues := dailylog.ExtractIssues(body)
	require.Len(t, issues, 1)
	assert.Equal(t, "ABC-5", issues[0].Key)
}

func TestExtractIssues_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, dailylog.ExtractIssues(""))
}

func TestLabelSet_IgnoresFallbackAndEmpty(t *testing.T) {
	t.Parallel()

	set := dailylog.NewLabelSet("", dailylog.FallbackLabel, "api")
	assert.Equal(t, []string{"api"}, set.Sorted())

	set.Union(dailylog.NewLabelSet("web", "api"))
	assert.Equal(t, []string{"api", "web"}, set.Sorted())
}

func TestIssue_String(t *testing.T) {
	t.Parallel()

	issue := dailylog.Issue{Key: "ABC-12", Summary: "Fix bug", Status: "Done"}
	assert.Equal(t, "ABC-12: Fix bug (Done)", issue.String())
}
