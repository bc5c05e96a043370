package ports

import "go.trai.ch/forge/internal/protocol"

// LinkStatus describes the state of a transport link.
type LinkStatus int

const (
	// LinkInactive means the endpoint has not started listening.
	LinkInactive LinkStatus = iota
	// LinkActive means packets can flow in both directions.
	LinkActive
	// LinkFailed means the link broke after being active.
	LinkFailed
	// LinkConnectionFailed means the link never came up.
	LinkConnectionFailed
)

// String returns the status name.
func (s LinkStatus) String() string {
	switch s {
	case LinkInactive:
		return "inactive"
	case LinkActive:
		return "active"
	case LinkFailed:
		return "failed"
	case LinkConnectionFailed:
		return "connection failed"
	default:
		return "unknown"
	}
}

// PacketDeliveryFunc receives packets in arrival order.
type PacketDeliveryFunc func(p protocol.Packet)

// Endpoint is one end of a controller/node transport link. The in-memory
// implementation enqueues object references directly; the byte-stream
// implementation serializes through the packet translator. Both must be
// behaviorally indistinguishable to packet handlers.
//
//go:generate mockgen -source=transport.go -destination=mocks/mock_transport.go -package=mocks
type Endpoint interface {
	// Listen starts receiving. Arriving packets are handed to deliver in
	// arrival order until the link closes.
	Listen(deliver PacketDeliveryFunc) error

	// SendData transmits one packet. Sends on a failed link return
	// ErrLinkFailed; during shutdown the caller drops them silently.
	SendData(p protocol.Packet) error

	// Disconnect closes the link.
	Disconnect() error

	// Status returns the current link status.
	Status() LinkStatus

	// StatusChanged delivers a notification on every status transition.
	StatusChanged() <-chan LinkStatus
}
