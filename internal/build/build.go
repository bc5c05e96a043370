// Package build holds version metadata injected at link time.
package build

// Populated via -ldflags at release build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
