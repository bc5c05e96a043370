package logger

import (
	"errors"
	"strings"
)

// messager matches the Message() method of zerr.Error (go.trai.ch/zerr
// v0.3.0+), which reports a single link's message without the chain. Errors
// without it fall back to their full Error() text.
type messager interface {
	Message() string
}

// collectErrorEntries walks the cause chain outermost-first. A non-zerr error
// terminates the walk with its full text.
func collectErrorEntries(err error) []string {
	var entries []string
	for err != nil {
		m, ok := err.(messager)
		if !ok {
			entries = append(entries, err.Error())
			break
		}
		entries = append(entries, m.Message())
		err = errors.Unwrap(err)
	}
	return entries
}

// formatErrorEntries renders the chain hierarchically: the head error first,
// then a "Caused by:" block with one arrow per cause. Multi-line entries keep
// their own indentation under the line that introduced them.
func formatErrorEntries(entries []string) string {
	var out []string
	for i, entry := range entries {
		lines := strings.Split(entry, "\n")
		switch {
		case i == 0:
			out = append(out, "Error: "+lines[0])
			for _, line := range lines[1:] {
				out = append(out, "       "+line)
			}
		default:
			if i == 1 {
				out = append(out, "", "  Caused by:")
			}
			out = append(out, "    → "+lines[0])
			for _, line := range lines[1:] {
				out = append(out, "      "+line)
			}
		}
	}
	return strings.Join(out, "\n")
}
