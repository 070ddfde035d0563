package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// BusinessEvents traces feed actions one level above HTTP and SQL spans
type BusinessEvents struct {
	tracer trace.Tracer
}

// NewBusinessEvents creates a tracer for feed actions
func NewBusinessEvents() *BusinessEvents {
	return &BusinessEvents{tracer: otel.Tracer("business-events")}
}

// TraceAction opens a span for one dispatched action
func (be *BusinessEvents) TraceAction(ctx context.Context, method, action, requestID string) (context.Context, trace.Span) {
	return be.tracer.Start(ctx, "feed."+action,
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("feed.action", action),
			attribute.String("request.id", requestID),
		),
	)
}

// EndAction records the outcome and ends the span
func EndAction(span trace.Span, status int, err error) {
	span.SetAttributes(attribute.Int("http.status_code", status))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
	span.End()
}
