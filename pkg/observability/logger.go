package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrService = "service"
	attrEnv     = "env"
	attrMode    = "mode"

	// AttrRunID tags every record of one CLI invocation.
	AttrRunID = "run_id"

	// logEventName names span events mirrored from warning and error records.
	logEventName = "log"
)

// TracingHandler is an [slog.Handler] that stamps records with the active
// trace and span IDs. Records at warning level or above are also attached to
// the active span as events, so a skipped Jira issue shows up in the trace of
// the run that skipped it.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps inner. The service, mode and optional env attributes
// are bound before any group so they stay top-level.
func NewTracingHandler(inner slog.Handler, service, env string, appMode AppMode) *TracingHandler {
	bound := []slog.Attr{
		slog.String(attrService, service),
		slog.String(attrMode, string(appMode)),
	}

	if env != "" {
		bound = append(bound, slog.String(attrEnv, env))
	}

	return &TracingHandler{inner: inner.WithAttrs(bound)}
}

// Enabled delegates to the inner handler.
func (th *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return th.inner.Enabled(ctx, level)
}

// Handle implements [slog.Handler].
func (th *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	span := trace.SpanFromContext(ctx)

	if sc := span.SpanContext(); sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	if record.Level >= slog.LevelWarn && span.IsRecording() {
		span.AddEvent(logEventName, trace.WithAttributes(spanEventAttrs(record)...))
	}

	if err := th.inner.Handle(ctx, record); err != nil {
		return fmt.Errorf("tracing handler: %w", err)
	}

	return nil
}

// WithAttrs implements [slog.Handler].
func (th *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: th.inner.WithAttrs(attrs)}
}

// WithGroup implements [slog.Handler].
func (th *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: th.inner.WithGroup(name)}
}

func spanEventAttrs(record slog.Record) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, record.NumAttrs()+2) //nolint:mnd // level and message.
	attrs = append(attrs,
		attribute.String("log.severity", record.Level.String()),
		attribute.String("log.message", record.Message),
	)

	record.Attrs(func(a slog.Attr) bool {
		if a.Key != attrTraceID && a.Key != attrSpanID {
			attrs = append(attrs, attribute.String("log."+a.Key, a.Value.String()))
		}

		return true
	})

	return attrs
}
