package domain

// ShutdownReason explains why a worker node left its dispatch loop.
type ShutdownReason int

const (
	// ShutdownComplete means the build finished and the node should exit.
	ShutdownComplete ShutdownReason = iota
	// ShutdownReuse means the build finished and the node should await a
	// fresh configuration instead of exiting.
	ShutdownReuse
	// ShutdownConnectionFailed means the transport link to the controller
	// was lost.
	ShutdownConnectionFailed
	// ShutdownError means an unrecoverable error forced the node down.
	ShutdownError
)

// String returns the reason name.
func (r ShutdownReason) String() string {
	switch r {
	case ShutdownComplete:
		return "build complete"
	case ShutdownReuse:
		return "build complete, awaiting reuse"
	case ShutdownConnectionFailed:
		return "connection failed"
	case ShutdownError:
		return "error"
	default:
		return "unknown"
	}
}

// ReuseEligible reports whether the node may stay resident after shutdown.
func (r ShutdownReason) ReuseEligible() bool {
	return r == ShutdownReuse
}
