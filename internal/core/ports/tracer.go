package ports

import "context"

// SpanConfig holds options applied when starting a span.
type SpanConfig struct {
	Attributes map[string]string
}

// SpanOption configures a span at start time.
type SpanOption func(*SpanConfig)

// WithAttribute attaches a key/value pair to the span at start.
func WithAttribute(key, value string) SpanOption {
	return func(c *SpanConfig) {
		if c.Attributes == nil {
			c.Attributes = make(map[string]string)
		}
		c.Attributes[key] = value
	}
}

// Span is one traced operation.
type Span interface {
	// End completes the span.
	End()

	// RecordError attaches an error to the span and marks it failed.
	RecordError(err error)

	// SetAttribute sets a key/value attribute on the span.
	SetAttribute(key, value string)
}

// Tracer creates spans around node lifecycle and build operations.
//
//go:generate mockgen -source=tracer.go -destination=mocks/mock_tracer.go -package=mocks
type Tracer interface {
	// Start begins a span and returns the context carrying it.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
}
