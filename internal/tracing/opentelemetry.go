package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// TraceSpan wraps an OpenTelemetry span; all methods are nil-safe so callers
// can trace unconditionally whether or not InitTracer ran.
type TraceSpan struct {
	span oteltrace.Span
}

type SpanConfig struct {
	ServiceName    string
	ServiceVersion string
	SampleRate     float64
}

var (
	globalTracer   oteltrace.Tracer
	globalProvider *trace.TracerProvider
)

// InitTracer installs a stdout-exporting tracer provider. Until it runs,
// CreateSpan is a no-op.
func InitTracer(config SpanConfig) error {
	if config.SampleRate < 0 || config.SampleRate > 1 {
		return fmt.Errorf("sample rate must be between 0 and 1")
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
		)),
		trace.WithSampler(trace.TraceIDRatioBased(config.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	globalTracer = tp.Tracer("recurve")
	globalProvider = tp
	return nil
}

// Shutdown flushes buffered spans. Safe to call without InitTracer.
func Shutdown(ctx context.Context) error {
	if globalProvider == nil {
		return nil
	}
	return globalProvider.Shutdown(ctx)
}

// CreateSpan starts a named span when tracing is initialized, otherwise it
// returns the context unchanged and a nil-safe span.
func CreateSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *TraceSpan) {
	if globalTracer == nil {
		return ctx, nil
	}

	newCtx, span := globalTracer.Start(ctx, name, oteltrace.WithAttributes(attrs...))
	return newCtx, &TraceSpan{span: span}
}

func (s *TraceSpan) End() {
	if s != nil && s.span != nil {
		s.span.End()
	}
}

func (s *TraceSpan) SetStatus(code codes.Code, description string) {
	if s != nil && s.span != nil {
		s.span.SetStatus(code, description)
	}
}

func (s *TraceSpan) SetError(err error) {
	if s != nil && s.span != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
}

func (s *TraceSpan) SetAttributes(attrs ...attribute.KeyValue) {
	if s != nil && s.span != nil {
		s.span.SetAttributes(attrs...)
	}
}

func (s *TraceSpan) GetTraceID() string {
	if s == nil || s.span == nil {
		return ""
	}
	return s.span.SpanContext().TraceID().String()
}

// GetContextTraceID extracts the active trace ID from a context, or "".
func GetContextTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().TraceID().String()
}
