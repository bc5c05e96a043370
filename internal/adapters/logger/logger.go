// Package logger implements the logging sink using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"go.trai.ch/forge/internal/core/ports"
)

// Logger implements ports.Logger using log/slog. Nodes share one instance
// through the component host; output and format can be swapped at runtime
// when a node-configuration packet asks for it.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a Logger writing pretty output to stderr.
func New() ports.Logger {
	handler := NewPrettyHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &Logger{
		logger: slog.New(handler),
		output: os.Stderr,
	}
}

// SetOutput redirects the logger. The current JSON mode is preserved; a nil
// writer falls back to stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(l.buildHandler(w))
}

// SetJSON switches between JSON and pretty output, keeping the destination.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	w := l.output
	if w == nil {
		w = os.Stderr
	}
	l.logger = slog.New(l.buildHandler(w))
}

func (l *Logger) buildHandler(w io.Writer) slog.Handler {
	if l.jsonMode {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return NewPrettyHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error with its cause chain unrolled.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}
	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}
	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// Flush pushes buffered output to stable storage when the destination
// supports it. Called by nodes right before the link drops.
func (l *Logger) Flush() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if f, ok := l.output.(*os.File); ok {
		return f.Sync()
	}
	return nil
}
