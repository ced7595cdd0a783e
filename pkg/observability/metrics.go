package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRequestsTotal    = "devlog.requests.total"
	metricRequestDuration  = "devlog.request.duration.seconds"
	metricErrorsTotal      = "devlog.errors.total"
	metricInflightRequests = "devlog.inflight.requests"
	metricEntriesRolled    = "devlog.entries.rolled.total"

	attrOp     = "op"
	attrStatus = "status"

	// StatusOK marks a successful operation.
	StatusOK = "ok"
	// StatusError marks a failed operation.
	StatusError = "error"
)

// durationBucketBoundaries covers 5ms file operations up to slow tracker calls.
var durationBucketBoundaries = []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// REDMetrics holds the OTel instruments for Rate, Error, Duration metrics.
type REDMetrics struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	errorsTotal      metric.Int64Counter
	inflightRequests metric.Int64UpDownCounter
	entriesRolled    metric.Int64Counter
}

// NewREDMetrics creates RED metric instruments from the given meter.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	reqTotal, err := mt.Int64Counter(metricRequestsTotal,
		metric.WithDescription("Total number of operations"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestsTotal, err)
	}

	reqDuration, err := mt.Float64Histogram(metricRequestDuration,
		metric.WithDescription("Operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestDuration, err)
	}

	errTotal, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Total number of failed operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricInflightRequests,
		metric.WithDescription("Number of in-flight operations"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInflightRequests, err)
	}

	rolled, err := mt.Int64Counter(metricEntriesRolled,
		metric.WithDescription("Daily log entries moved out of the log by a rollover"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricEntriesRolled, err)
	}

	return &REDMetrics{
		requestsTotal:    reqTotal,
		requestDuration:  reqDuration,
		errorsTotal:      errTotal,
		inflightRequests: inflight,
		entriesRolled:    rolled,
	}, nil
}

// RecordRequest records a completed operation with its name, status, and duration.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.requestsTotal.Add(ctx, 1, attrs)
	rm.requestDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrOp, op),
		))
	}
}

// TrackInflight increments the in-flight gauge and returns a function to decrement it.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightRequests.Add(ctx, 1, attrs)

	return func() {
		rm.inflightRequests.Add(ctx, -1, attrs)
	}
}

// Observe runs fn as operation op, recording in-flight, duration, and outcome.
// A nil receiver just runs fn.
func (rm *REDMetrics) Observe(ctx context.Context, op string, fn func() error) error {
	if rm == nil {
		return fn()
	}

	start := time.Now()

	done := rm.TrackInflight(ctx, op)
	defer done()

	err := fn()

	status := StatusOK
	if err != nil {
		status = StatusError
	}

	rm.RecordRequest(ctx, op, status, time.Since(start))

	return err
}

// RecordRollover counts entries removed from the daily log, tagged with the
// rollover status.
func (rm *REDMetrics) RecordRollover(ctx context.Context, status string, removed int) {
	if rm == nil || removed <= 0 {
		return
	}

	rm.entriesRolled.Add(ctx, int64(removed), metric.WithAttributes(attribute.String(attrStatus, status)))
}
