// Package style provides the shared color palette and icons used by the
// log handler and CLI output.
package style

// Colors, as RGB hex strings understood by termenv.
const (
	Slate  = "#667085"
	Green  = "#22A06B"
	Red    = "#D93025"
	Yellow = "#F59E0B"
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
)
