// Package observability provides OpenTelemetry tracing for delivery service
// calls.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/swhkit/webhooks"

// Tracer wraps an OpenTelemetry tracer for the delivery service client.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a tracer from the global provider. With no provider
// registered the spans are no-ops.
func NewTracer() *Tracer {
	return &Tracer{
		tracer: otel.Tracer(tracerName),
	}
}

// StartRequestSpan starts a span for one delivery service REST call.
func (t *Tracer) StartRequestSpan(ctx context.Context, method, path string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "svix.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
}

// EndRequestSpan ends a request span with the response status.
func (t *Tracer) EndRequestSpan(span trace.Span, statusCode int, err error) {
	span.SetAttributes(attribute.Int("http.response.status_code", statusCode))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
