// Package telemetry implements the tracer port on OpenTelemetry.
package telemetry

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/forge/internal/core/ports"
)

// OTelTracer implements ports.Tracer using OpenTelemetry.
type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTelTracer creates a tracer with the given instrumentation name.
func NewOTelTracer(name string) *OTelTracer {
	return &OTelTracer{tracer: otel.Tracer(name)}
}

// Start implements ports.Tracer.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, span := t.tracer.Start(ctx, name)
	if len(cfg.Attributes) > 0 {
		// Stable attribute order keeps exported spans deterministic.
		keys := make([]string, 0, len(cfg.Attributes))
		for k := range cfg.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			span.SetAttributes(attribute.String(k, cfg.Attributes[k]))
		}
	}

	return ctx, &OTelSpan{span: span}
}

var _ ports.Tracer = (*OTelTracer)(nil)

// OTelSpan wraps an OTel span behind ports.Span.
type OTelSpan struct {
	span trace.Span
}

// End implements ports.Span.
func (s *OTelSpan) End() { s.span.End() }

// RecordError implements ports.Span.
func (s *OTelSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute implements ports.Span.
func (s *OTelSpan) SetAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

// SetupProvider installs a tracer provider with the given span processors as
// the global OTel provider and returns it for shutdown.
func SetupProvider(processors ...sdktrace.SpanProcessor) *sdktrace.TracerProvider {
	opts := make([]sdktrace.TracerProviderOption, 0, len(processors))
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp
}
