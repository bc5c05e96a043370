// Package transport implements the two controller/node transports: an
// in-memory endpoint pair for nodes sharing the controller's process, and a
// byte-stream endpoint over a unix socket for out-of-process nodes.
package transport

import (
	"sync"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/protocol"
)

const inMemoryQueueDepth = 512

// InMemoryEndpoint is one end of an in-process link. Packets cross as object
// references; the translator is never involved. Handlers cannot tell this
// apart from the byte-stream endpoint.
type InMemoryEndpoint struct {
	peer *InMemoryEndpoint

	recv      chan protocol.Packet
	done      chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	status   ports.LinkStatus
	statusCh chan ports.LinkStatus
}

// NewPair returns two connected in-memory endpoints.
func NewPair() (*InMemoryEndpoint, *InMemoryEndpoint) {
	a := newInMemoryEndpoint()
	b := newInMemoryEndpoint()
	a.peer = b
	b.peer = a
	return a, b
}

func newInMemoryEndpoint() *InMemoryEndpoint {
	return &InMemoryEndpoint{
		recv:     make(chan protocol.Packet, inMemoryQueueDepth),
		done:     make(chan struct{}),
		status:   ports.LinkInactive,
		statusCh: make(chan ports.LinkStatus, 4),
	}
}

// Listen implements ports.Endpoint.
func (e *InMemoryEndpoint) Listen(deliver ports.PacketDeliveryFunc) error {
	e.setStatus(ports.LinkActive)
	go func() {
		for {
			select {
			case p := <-e.recv:
				deliver(p)
			case <-e.done:
				return
			}
		}
	}()
	return nil
}

// SendData implements ports.Endpoint. A send after either side closed fails
// even while queue space remains.
func (e *InMemoryEndpoint) SendData(p protocol.Packet) error {
	select {
	case <-e.done:
		return domain.ErrLinkFailed
	case <-e.peer.done:
		return domain.ErrLinkFailed
	default:
	}
	select {
	case <-e.done:
		return domain.ErrLinkFailed
	case <-e.peer.done:
		return domain.ErrLinkFailed
	case e.peer.recv <- p:
		return nil
	}
}

// Disconnect implements ports.Endpoint.
func (e *InMemoryEndpoint) Disconnect() error {
	e.closeOnce.Do(func() {
		close(e.done)
		e.setStatus(ports.LinkInactive)
		e.peer.setStatus(ports.LinkFailed)
	})
	return nil
}

// Status implements ports.Endpoint.
func (e *InMemoryEndpoint) Status() ports.LinkStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// StatusChanged implements ports.Endpoint.
func (e *InMemoryEndpoint) StatusChanged() <-chan ports.LinkStatus {
	return e.statusCh
}

func (e *InMemoryEndpoint) setStatus(status ports.LinkStatus) {
	e.mu.Lock()
	if e.status == status {
		e.mu.Unlock()
		return
	}
	e.status = status
	e.mu.Unlock()

	select {
	case e.statusCh <- status:
	default:
		// A slow observer misses intermediate transitions, never the
		// channel-buffered latest ones.
	}
}

var _ ports.Endpoint = (*InMemoryEndpoint)(nil)
