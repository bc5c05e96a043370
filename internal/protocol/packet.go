// Package protocol defines the typed, versioned messages exchanged between a
// build controller and its worker nodes, and the translator that moves them
// across a byte-stream transport.
package protocol

// PacketType discriminates message kinds on the wire. The set is closed:
// extend only by adding new kinds, never by repurposing existing values.
type PacketType byte

const (
	// TypeBuildRequest submits targets to build against a configuration.
	TypeBuildRequest PacketType = iota
	// TypeConfiguration registers a configuration on a node.
	TypeConfiguration
	// TypeConfigurationResponse assigns the canonical id for a node-local
	// configuration.
	TypeConfigurationResponse
	// TypeRequestUnblocked resumes a blocked build request.
	TypeRequestUnblocked
	// TypeNodeConfiguration configures a node for a build.
	TypeNodeConfiguration
	// TypeNodeBuildComplete tells a node the build is over.
	TypeNodeBuildComplete
	// TypeBuildResult reports target outcomes upstream.
	TypeBuildResult
	// TypeNodeShutdown is the node's final notification carrying its
	// shutdown reason and any terminal error.
	TypeNodeShutdown

	// TypeEngineExtensionBase is the first value available to
	// execution-engine extensions; this layer treats such kinds as opaque.
	TypeEngineExtensionBase PacketType = 0x40
)

// String returns the kind name for logging.
func (t PacketType) String() string {
	switch t {
	case TypeBuildRequest:
		return "build-request"
	case TypeConfiguration:
		return "configuration"
	case TypeConfigurationResponse:
		return "configuration-response"
	case TypeRequestUnblocked:
		return "request-unblocked"
	case TypeNodeConfiguration:
		return "node-configuration"
	case TypeNodeBuildComplete:
		return "node-build-complete"
	case TypeBuildResult:
		return "build-result"
	case TypeNodeShutdown:
		return "node-shutdown"
	default:
		return "engine-extension"
	}
}

// Packet is one typed message. Translate must transfer every field through
// the translator in a fixed order so that writing and immediately reading a
// packet reproduces it exactly.
type Packet interface {
	Type() PacketType
	Translate(t *Translator)
}
