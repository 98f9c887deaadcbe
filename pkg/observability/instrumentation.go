package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Instrumentation bundles metrics and tracing into the hook shape the
// session client consumes. Either part may be nil.
type Instrumentation struct {
	metrics *Metrics
	tracer  trace.Tracer
}

// NewInstrumentation creates an instrumentation hook. Pass nil for the
// parts not in use.
func NewInstrumentation(metrics *Metrics, tracer trace.Tracer) *Instrumentation {
	return &Instrumentation{metrics: metrics, tracer: tracer}
}

// StartSpan opens a span for an RPC call. The returned func records the
// call's outcome and ends the span.
func (i *Instrumentation) StartSpan(ctx context.Context, method string) (context.Context, func(err error)) {
	if i.tracer == nil {
		return ctx, func(error) {}
	}

	ctx, span := i.tracer.Start(ctx, "mcp.call",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("rpc.system", "jsonrpc"),
			attribute.String("rpc.method", method),
		))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

// RecordCall records the outcome and duration of an RPC call.
func (i *Instrumentation) RecordCall(ctx context.Context, method, status string, duration time.Duration) {
	if i.metrics != nil {
		i.metrics.RecordCall(ctx, method, status, duration)
	}
}

// RecordToolCall records the outcome of one tools/call by tool name.
func (i *Instrumentation) RecordToolCall(tool, status string) {
	if i.metrics != nil {
		i.metrics.RecordToolCall(tool, status)
	}
}
