// Package ports defines the boundary interfaces of the node-coordination core.
package ports

import "io"

// Logger is the logging abstraction used throughout the core.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Info logs an informational message.
	Info(msg string)

	// Warn logs a warning message.
	Warn(msg string)

	// Error logs an error with its full chain and metadata.
	Error(err error)

	// SetOutput updates the logger's output destination.
	SetOutput(w io.Writer)

	// SetJSON switches between JSON and pretty logging.
	SetJSON(enable bool)
}
