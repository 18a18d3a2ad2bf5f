package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartAPISpan creates a client span for one backend call.
//
// Usage:
//
//	ctx, span := telemetry.StartAPISpan(ctx, tracer, "login", http.MethodPost, "/auth/login")
//	defer span.End()
func StartAPISpan(ctx context.Context, tracer trace.Tracer, endpoint, method, path string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "api."+endpoint, trace.WithSpanKind(trace.SpanKindClient))

	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
		attribute.String("component", "api"),
	)

	return ctx, span
}

// StartActionSpan creates a span for a store action.
func StartActionSpan(ctx context.Context, tracer trace.Tracer, action string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "action."+action)
	span.SetAttributes(
		attribute.String("action", action),
		attribute.String("component", "state"),
	)
	return ctx, span
}

// RecordSuccess marks a span as successful with optional result attributes.
func RecordSuccess(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
	span.SetStatus(codes.Ok, "")
}

// RecordError records an error in a span and sets error status.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(
		attribute.Bool("error", true),
	)
}

// RecordDuration records the duration of an operation as a span attribute.
func RecordDuration(span trace.Span, name string, duration time.Duration) {
	span.SetAttributes(
		attribute.Int64(name+"_ms", duration.Milliseconds()),
	)
}

// TraceID returns the trace ID carried by ctx, or "".
func TraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
