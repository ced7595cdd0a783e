package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/devlog/pkg/dailylog"
	"github.com/Sumatoshi-tech/devlog/pkg/rollup"
)

// Tool name constants.
const (
	ToolNameEntries    = "devlog_entries"
	ToolNameMonthStats = "devlog_month_stats"
)

// Sentinel errors for tool input validation.
var (
	// ErrPartialPeriod indicates only one of month and year was given.
	ErrPartialPeriod = errors.New("month and year must be given together")
	// ErrNoEntries indicates the requested month has no dated entries.
	ErrNoEntries = errors.New("no entries recorded for month")
)

// Input types (auto-generate JSON schemas via struct tags).

// EntriesInput is the input schema for the devlog_entries tool.
type EntriesInput struct {
	Month int `json:"month,omitempty" jsonschema:"optional month 1-12; requires year"`
	Year  int `json:"year,omitempty"  jsonschema:"optional four-digit year; requires month"`
}

// MonthStatsInput is the input schema for the devlog_month_stats tool.
type MonthStatsInput struct {
	Month int `json:"month" jsonschema:"month 1-12"`
	Year  int `json:"year"  jsonschema:"four-digit year"`
}

// Output types.

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// EntryView is one log entry as reported by devlog_entries.
type EntryView struct {
	Heading string           `json:"heading"`
	Date    string           `json:"date,omitempty"`
	Dated   bool             `json:"dated"`
	Labels  []string         `json:"labels"`
	Issues  []dailylog.Issue `json:"issues"`
}

func (s *Server) handleEntries(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input EntriesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	filter, hasFilter, err := optionalPeriod(input.Month, input.Year)
	if err != nil {
		return errorResult(err)
	}

	text, err := s.log.ReadLog(ctx)
	if err != nil {
		return errorResult(fmt.Errorf("read log: %w", err))
	}

	entries := dailylog.Parse(text)
	views := make([]EntryView, 0, len(entries))

	for _, entry := range entries {
		date, dated := entry.Date()
		if hasFilter && (!dated || !filter.Contains(date)) {
			continue
		}

		views = append(views, entryView(entry, date, dated))
	}

	s.logger.DebugContext(ctx, "listed entries", "count", len(views), "filtered", hasFilter)

	return jsonResult(views)
}

func (s *Server) handleMonthStats(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input MonthStatsInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	period, err := rollup.NewPeriod(input.Year, time.Month(input.Month))
	if err != nil {
		return errorResult(err)
	}

	text, err := s.log.ReadLog(ctx)
	if err != nil {
		return errorResult(fmt.Errorf("read log: %w", err))
	}

	agg, ok := rollup.Aggregate(dailylog.Parse(text), period, s.policy)
	if !ok {
		return errorResult(fmt.Errorf("%w: %s", ErrNoEntries, period))
	}

	return jsonResult(agg.Stats())
}

func optionalPeriod(month, year int) (rollup.Period, bool, error) {
	if month == 0 && year == 0 {
		return rollup.Period{}, false, nil
	}

	if month == 0 || year == 0 {
		return rollup.Period{}, false, ErrPartialPeriod
	}

	period, err := rollup.NewPeriod(year, time.Month(month))
	if err != nil {
		return rollup.Period{}, false, err
	}

	return period, true, nil
}

func entryView(entry dailylog.Entry, date time.Time, dated bool) EntryView {
	issues, labels := dailylog.Extract(entry.Body)
	if issues == nil {
		issues = []dailylog.Issue{}
	}

	view := EntryView{
		Heading: entry.Heading,
		Dated:   dated,
		Labels:  labels.Sorted(),
		Issues:  issues,
	}

	if dated {
		view.Date = date.Format(time.DateOnly)
	}

	return view
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
