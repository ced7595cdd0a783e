package observability

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// httpStatusClientError is the first status code treated as a failed call.
const httpStatusClientError = 400

// Transport is an [http.RoundTripper] that creates a client span and RED
// metrics for every outgoing request.
type Transport struct {
	base    http.RoundTripper
	tracer  trace.Tracer
	metrics *REDMetrics
}

// NewTransport wraps base. Nil base uses http.DefaultTransport; nil tracer or
// metrics disable that signal.
func NewTransport(base http.RoundTripper, tracer trace.Tracer, metrics *REDMetrics) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &Transport{base: base, tracer: tracer, metrics: metrics}
}

// RoundTrip implements [http.RoundTripper].
// Span names use "METHOD /path" like the server-side convention.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	op := req.Method + " " + req.URL.Path
	ctx := req.Context()

	var span trace.Span
	if t.tracer != nil {
		ctx, span = t.tracer.Start(ctx, op,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(req.Method),
				attribute.String("server.address", req.URL.Host),
			),
		)
		defer span.End()

		req = req.Clone(ctx)
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	}

	start := time.Now()

	if t.metrics != nil {
		done := t.metrics.TrackInflight(ctx, op)
		defer done()
	}

	resp, err := t.base.RoundTrip(req)

	status := StatusOK
	if err != nil || resp.StatusCode >= httpStatusClientError {
		status = StatusError
	}

	if t.metrics != nil {
		t.metrics.RecordRequest(ctx, op, status, time.Since(start))
	}

	if span != nil {
		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case resp.StatusCode >= httpStatusClientError:
			span.SetAttributes(semconv.HTTPResponseStatusCode(resp.StatusCode))
			span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		default:
			span.SetAttributes(semconv.HTTPResponseStatusCode(resp.StatusCode))
		}
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}
