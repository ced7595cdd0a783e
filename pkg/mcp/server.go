// Package mcp implements a Model Context Protocol server exposing the daily
// log as read-only MCP tools over stdio transport.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/devlog/pkg/observability"
	"github.com/Sumatoshi-tech/devlog/pkg/rollup"
	"github.com/Sumatoshi-tech/devlog/pkg/version"
)

const (
	// serverName is the MCP server implementation name.
	serverName = "devlog"

	// toolCount is the expected number of registered tools.
	toolCount = 2
)

// ErrNoLogReader is returned by NewServer when ServerDeps.Log is nil.
var ErrNoLogReader = errors.New("mcp server needs a log reader")

// LogReader is the read side of the daily log.
type LogReader interface {
	ReadLog(ctx context.Context) (string, error)
}

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value optional fields use production defaults.
type ServerDeps struct {
	// Log is the daily log the tools read. Required.
	Log LogReader

	// Policy selects which occurrence of a repeated issue month stats report.
	Policy rollup.UniquePolicy

	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics is an optional RED metrics recorder. Nil disables per-tool metrics.
	Metrics *observability.REDMetrics

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer
}

// Server wraps the MCP SDK server with the devlog tool registrations.
type Server struct {
	inner   *mcpsdk.Server
	mu      sync.RWMutex
	tools   []string
	log     LogReader
	policy  rollup.UniquePolicy
	logger  *slog.Logger
	metrics *observability.REDMetrics
	tracer  trace.Tracer
}

// NewServer creates a new MCP server with all devlog tools registered.
func NewServer(deps ServerDeps) (*Server, error) {
	if deps.Log == nil {
		return nil, ErrNoLogReader
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		&mcpsdk.ServerOptions{Logger: logger},
	)

	srv := &Server{
		inner:   inner,
		tools:   make([]string, 0, toolCount),
		log:     deps.Log,
		policy:  deps.Policy,
		logger:  logger,
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
	}

	srv.registerTools()

	return srv, nil
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport starts the MCP server on the given transport. It blocks
// until the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameEntries,
		Description: entriesToolDescription,
	}, withMetrics(s.metrics, ToolNameEntries, withTracing(s.tracer, ToolNameEntries, s.handleEntries)))

	s.trackTool(ToolNameEntries)

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameMonthStats,
		Description: monthStatsToolDescription,
	}, withMetrics(s.metrics, ToolNameMonthStats, withTracing(s.tracer, ToolNameMonthStats, s.handleMonthStats)))

	s.trackTool(ToolNameMonthStats)
}

// mcpSpanPrefix is the prefix for MCP tool span names and metric operations.
const mcpSpanPrefix = "mcp."

// traceIDMetaKey is the metadata key for trace_id in MCP tool responses.
const traceIDMetaKey = "trace_id"

// withTracing wraps an MCP tool handler to create an OTel span per invocation
// and include trace_id in the response content when sampled.
func withTracing[Input any](
	tracer trace.Tracer,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			traceContent := &mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())}
			result.Content = append(result.Content, traceContent)
		}

		return result, output, err
	}
}

// withMetrics wraps an MCP tool handler to record RED metrics per invocation.
func withMetrics[Input any](
	metrics *observability.REDMetrics,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if metrics == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()

		decInflight := metrics.TrackInflight(ctx, mcpSpanPrefix+toolName)
		defer decInflight()

		result, output, err := handler(ctx, req, input)

		status := observability.StatusOK
		if err != nil || (result != nil && result.IsError) {
			status = observability.StatusError
		}

		metrics.RecordRequest(ctx, mcpSpanPrefix+toolName, status, time.Since(start))

		return result, output, err
	}
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// Tool description constants.
const (
	entriesToolDescription = "List daily log entries with their date, modules, and issues. " +
		"Optionally restricted to one month; entries whose heading date cannot be read are flagged."

	monthStatsToolDescription = "Aggregate one month of the daily log: days worked, issue counts, " +
		"status breakdown, modules, and the per-day issue lists. Read-only."
)
