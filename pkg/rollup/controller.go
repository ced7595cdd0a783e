package rollup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/devlog/pkg/dailylog"
)

// Sentinel controller errors.
var (
	// ErrNoLogStore is returned by NewController when Deps.Log is nil.
	ErrNoLogStore = errors.New("rollup: log store is required")
	// ErrNoSummaryStore is returned by NewController when Deps.Summaries is nil.
	ErrNoSummaryStore = errors.New("rollup: summary store is required")
)

// LogStore reads and rewrites the daily log. A missing log reads as empty text.
type LogStore interface {
	ReadLog(ctx context.Context) (string, error)
	WriteLog(ctx context.Context, text string) error
}

// SummaryStore reads and writes one summary document per Period.
type SummaryStore interface {
	// ReadSummary reports ok=false when no summary exists for p.
	ReadSummary(ctx context.Context, p Period) (text string, ok bool, err error)
	WriteSummary(ctx context.Context, p Period, text string) error
}

// Archiver keeps a copy of the entries a rollover removes from the log.
type Archiver interface {
	Archive(ctx context.Context, p Period, entries []dailylog.Entry) error
}

// Recorder persists the history of completed rollovers.
type Recorder interface {
	Record(ctx context.Context, outcome Outcome) error
}

// Deps holds the controller collaborators. Log and Summaries are required;
// zero-value optional fields use defaults or are disabled.
type Deps struct {
	Log       LogStore
	Summaries SummaryStore

	// Archiver is optional. Archive failures abort the run before the log is rewritten.
	Archiver Archiver

	// Recorder is optional. Recorder failures are logged and otherwise ignored.
	Recorder Recorder

	// Logger nil uses slog.Default.
	Logger *slog.Logger

	// Tracer nil disables tracing.
	Tracer trace.Tracer

	// Now supplies the summary generation timestamp. Nil uses time.Now.
	Now func() time.Time
}

// Options tunes rollover behaviour.
type Options struct {
	UniquePolicy UniquePolicy

	// KeepPreamble writes text found before the first entry heading back to the
	// rewritten log instead of dropping it.
	KeepPreamble bool
}

// Request selects the month to roll over.
type Request struct {
	Period Period
	// Force regenerates an existing summary.
	Force bool
	// DryRun computes the outcome without writing anything.
	DryRun bool
}

// Status describes what a rollover did with the summary document.
type Status string

// Rollover statuses.
const (
	StatusGenerated          Status = "generated"
	StatusRegenerated        Status = "regenerated"
	StatusSkipped            Status = "skipped"
	StatusNothingToSummarize Status = "nothing_to_summarize"
)

// Outcome reports the result of one rollover.
type Outcome struct {
	Period Period
	Status Status
	DryRun bool

	// Summary is the rendered document, or the existing one when skipped.
	Summary   string
	Aggregate *MonthlyAggregate

	// Removed counts entries taken out of the log, Kept those written back.
	Removed int
	Kept    int
	// Unparsable counts kept entries whose heading date did not parse.
	Unparsable int

	OldLog         string
	NewLog         string
	SummaryWritten bool
	LogRewritten   bool
	Archived       bool
}

// Controller runs monthly rollovers against injected stores.
type Controller struct {
	log       LogStore
	summaries SummaryStore
	archiver  Archiver
	recorder  Recorder
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
	opts      Options
}

// NewController validates deps and builds a Controller.
func NewController(deps Deps, opts Options) (*Controller, error) {
	if deps.Log == nil {
		return nil, ErrNoLogStore
	}

	if deps.Summaries == nil {
		return nil, ErrNoSummaryStore
	}

	ctrl := &Controller{
		log:       deps.Log,
		summaries: deps.Summaries,
		archiver:  deps.Archiver,
		recorder:  deps.Recorder,
		logger:    deps.Logger,
		tracer:    deps.Tracer,
		now:       deps.Now,
		opts:      opts,
	}

	if ctrl.logger == nil {
		ctrl.logger = slog.Default()
	}

	if ctrl.tracer == nil {
		ctrl.tracer = nooptrace.NewTracerProvider().Tracer("devlog")
	}

	if ctrl.now == nil {
		ctrl.now = time.Now
	}

	if ctrl.opts.UniquePolicy == "" {
		ctrl.opts.UniquePolicy = UniqueLast
	}

	return ctrl, nil
}

// Partition splits entries into those dated inside p and the rest. Entries
// whose date does not parse always go to rest. Both keep the input order.
func Partition(entries []dailylog.Entry, p Period) (target, rest []dailylog.Entry) {
	for _, entry := range entries {
		date, ok := entry.Date()
		if ok && p.Contains(date) {
			target = append(target, entry)

			continue
		}

		rest = append(rest, entry)
	}

	return target, rest
}

// Run executes one rollover for req.Period.
func (c *Controller) Run(ctx context.Context, req Request) (outcome Outcome, err error) {
	ctx, span := c.tracer.Start(ctx, "rollup.run", trace.WithAttributes(
		attribute.String("rollup.period", req.Period.Key()),
		attribute.Bool("rollup.force", req.Force),
		attribute.Bool("rollup.dry_run", req.DryRun),
	))
	defer func() {
		span.SetAttributes(attribute.String("rollup.status", string(outcome.Status)))
		endSpan(span, err)
	}()

	logger := c.logger.With("period", req.Period.Key())
	outcome = Outcome{Period: req.Period, DryRun: req.DryRun}

	existing, exists, err := c.summaries.ReadSummary(ctx, req.Period)
	if err != nil {
		return outcome, fmt.Errorf("read summary for %s: %w", req.Period, err)
	}

	doc, err := c.parse(ctx)
	if err != nil {
		return outcome, err
	}

	outcome.OldLog = doc.text

	target, rest := Partition(doc.Entries, req.Period)

	if exists && !req.Force {
		logger.InfoContext(ctx, "summary already exists, skipping regeneration")

		outcome.Status = StatusSkipped
		outcome.Summary = existing
	} else {
		agg, ok := c.aggregate(ctx, target, req.Period)
		if !ok {
			logger.InfoContext(ctx, "nothing to summarize")

			outcome.Status = StatusNothingToSummarize
			outcome.NewLog = outcome.OldLog

			return outcome, nil
		}

		outcome.Aggregate = agg
		outcome.Summary = RenderSummary(agg, c.now())
		outcome.Status = StatusGenerated

		if exists {
			outcome.Status = StatusRegenerated
		}

		if !req.DryRun {
			err = c.writeSummary(ctx, req.Period, outcome.Summary)
			if err != nil {
				return outcome, err
			}

			outcome.SummaryWritten = true
		}
	}

	err = c.removeEntries(ctx, logger, req, doc, target, rest, &outcome)
	if err != nil {
		return outcome, err
	}

	logger.InfoContext(ctx, "rollover finished",
		"status", outcome.Status,
		"removed", outcome.Removed,
		"kept", outcome.Kept,
		"dry_run", req.DryRun,
	)

	// A skip that removed nothing changed nothing, so the history stays quiet.
	if !req.DryRun && (outcome.Status != StatusSkipped || outcome.Removed > 0) {
		c.record(ctx, logger, outcome)
	}

	return outcome, nil
}

type parsedLog struct {
	dailylog.Document

	text string
}

func (c *Controller) parse(ctx context.Context) (_ parsedLog, err error) {
	ctx, span := c.tracer.Start(ctx, "rollup.parse")
	defer func() { endSpan(span, err) }()

	text, err := c.log.ReadLog(ctx)
	if err != nil {
		return parsedLog{}, fmt.Errorf("read log: %w", err)
	}

	doc := dailylog.ParseDocument(text)
	span.SetAttributes(
		attribute.Int("rollup.entries", len(doc.Entries)),
		attribute.Int("rollup.log_bytes", len(text)),
	)

	return parsedLog{Document: doc, text: text}, nil
}

func (c *Controller) aggregate(ctx context.Context, target []dailylog.Entry, p Period) (*MonthlyAggregate, bool) {
	_, span := c.tracer.Start(ctx, "rollup.aggregate")
	defer span.End()

	agg, ok := Aggregate(target, p, c.opts.UniquePolicy)
	if ok {
		span.SetAttributes(
			attribute.Int("rollup.days", agg.TotalDays),
			attribute.Int("rollup.issues", len(agg.AllIssues)),
			attribute.Int("rollup.unique_issues", len(agg.UniqueIssues)),
		)
	}

	return agg, ok
}

func (c *Controller) writeSummary(ctx context.Context, p Period, text string) (err error) {
	ctx, span := c.tracer.Start(ctx, "rollup.write_summary")
	defer func() { endSpan(span, err) }()

	err = c.summaries.WriteSummary(ctx, p, text)
	if err != nil {
		return fmt.Errorf("write summary for %s: %w", p, err)
	}

	return nil
}

func (c *Controller) removeEntries(
	ctx context.Context,
	logger *slog.Logger,
	req Request,
	doc parsedLog,
	target, rest []dailylog.Entry,
	outcome *Outcome,
) error {
	outcome.Removed = len(target)
	outcome.Kept = len(rest)
	outcome.Unparsable = countUnparsable(rest)
	outcome.NewLog = outcome.OldLog

	if len(target) == 0 {
		return nil
	}

	var sb strings.Builder

	if strings.TrimSpace(doc.Preamble) != "" {
		if c.opts.KeepPreamble {
			sb.WriteString(doc.Preamble)
		} else {
			logger.WarnContext(ctx, "dropping text before the first entry heading",
				"bytes", len(doc.Preamble))
		}
	}

	sb.WriteString(dailylog.RenderEntries(rest))
	outcome.NewLog = sb.String()

	if req.DryRun {
		return nil
	}

	if c.archiver != nil {
		err := c.archiver.Archive(ctx, req.Period, target)
		if err != nil {
			return fmt.Errorf("archive %s entries: %w", req.Period, err)
		}

		outcome.Archived = true
	}

	return c.rewriteLog(ctx, outcome)
}

func (c *Controller) rewriteLog(ctx context.Context, outcome *Outcome) (err error) {
	ctx, span := c.tracer.Start(ctx, "rollup.rewrite_log", trace.WithAttributes(
		attribute.Int("rollup.removed", outcome.Removed),
		attribute.Int("rollup.kept", outcome.Kept),
	))
	defer func() { endSpan(span, err) }()

	err = c.log.WriteLog(ctx, outcome.NewLog)
	if err != nil {
		return fmt.Errorf("rewrite log: %w", err)
	}

	outcome.LogRewritten = true

	return nil
}

func (c *Controller) record(ctx context.Context, logger *slog.Logger, outcome Outcome) {
	if c.recorder == nil {
		return
	}

	err := c.recorder.Record(ctx, outcome)
	if err != nil {
		logger.WarnContext(ctx, "failed to record rollover", "error", err)
	}
}

func countUnparsable(entries []dailylog.Entry) int {
	count := 0

	for _, entry := range entries {
		if _, ok := entry.Date(); !ok {
			count++
		}
	}

	return count
}

// endSpan marks span failed when err is non-nil and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.End()
}
