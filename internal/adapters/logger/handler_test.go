package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/forge/internal/adapters/logger"
)

func newTestHandler(t *testing.T) (*logger.PrettyHandler, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	handler := logger.NewPrettyHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return handler, buf
}

func TestPrettyHandler_Handle_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		goldenName string
	}{
		{
			name:       "info level",
			level:      slog.LevelInfo,
			msg:        "information message",
			goldenName: "handler_info",
		},
		{
			name:       "warn level",
			level:      slog.LevelWarn,
			msg:        "warning message",
			goldenName: "handler_warn",
		},
		{
			name:       "error level",
			level:      slog.LevelError,
			msg:        "error message",
			goldenName: "handler_error",
		},
		{
			name:       "debug level filtered",
			level:      slog.LevelDebug,
			msg:        "debug message",
			goldenName: "handler_debug_filtered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, buf := newTestHandler(t)
			lg := slog.New(handler)

			lg.Log(t.Context(), tt.level, tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_WithAttrs(t *testing.T) {
	tests := []struct {
		name       string
		attrs      []slog.Attr
		msg        string
		goldenName string
	}{
		{
			name:       "single attribute",
			attrs:      []slog.Attr{slog.String("key", "value")},
			msg:        "single attr message",
			goldenName: "handler_attrs_single",
		},
		{
			name:       "multiple attributes",
			attrs:      []slog.Attr{slog.String("a", "1"), slog.Int("b", 2)},
			msg:        "multi attr message",
			goldenName: "handler_attrs_multi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, buf := newTestHandler(t)
			lg := slog.New(handler.WithAttrs(tt.attrs))

			lg.Info(tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_WithGroup(t *testing.T) {
	handler, buf := newTestHandler(t)
	lg := slog.New(handler.WithGroup("build"))

	lg.Info("grouped message", "k", "v")

	g := goldie.New(t)
	g.Assert(t, "handler_group", buf.Bytes())
}

func TestPrettyHandler_Enabled(t *testing.T) {
	handler, _ := newTestHandler(t)

	assert.False(t, handler.Enabled(t.Context(), slog.LevelDebug))
	assert.True(t, handler.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, handler.Enabled(t.Context(), slog.LevelError))
}
