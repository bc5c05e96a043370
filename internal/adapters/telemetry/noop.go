package telemetry

import (
	"context"

	"go.trai.ch/forge/internal/core/ports"
)

// NoOpTracer is a ports.Tracer that records nothing. Default wiring until an
// exporter is configured, and handy in tests.
type NoOpTracer struct{}

// NewNoOpTracer creates a NoOpTracer.
func NewNoOpTracer() *NoOpTracer { return &NoOpTracer{} }

// Start implements ports.Tracer.
func (t *NoOpTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, noopSpan{}
}

var _ ports.Tracer = (*NoOpTracer)(nil)

type noopSpan struct{}

func (noopSpan) End()                      {}
func (noopSpan) RecordError(error)         {}
func (noopSpan) SetAttribute(string, string) {}
