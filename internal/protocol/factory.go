package protocol

import (
	"sync"

	"go.trai.ch/forge/internal/core/domain"
)

// HandlerFunc processes one routed packet.
type HandlerFunc func(p Packet) error

// Factory maps packet kinds to their deserialization constructors and
// handlers. Handlers are registered per node role; a kind arriving for
// deserialization or routing without a registration is a fatal
// internal-consistency error, never a silent drop.
type Factory struct {
	mu      sync.RWMutex
	entries map[PacketType]factoryEntry
}

type factoryEntry struct {
	create  func() Packet
	handler HandlerFunc
}

// NewFactory creates an empty packet factory.
func NewFactory() *Factory {
	return &Factory{entries: make(map[PacketType]factoryEntry)}
}

// Register installs the constructor and handler for a packet kind.
func (f *Factory) Register(kind PacketType, create func() Packet, handler HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[kind] = factoryEntry{create: create, handler: handler}
}

// Create constructs an empty packet of the given kind for deserialization.
func (f *Factory) Create(kind PacketType) (Packet, error) {
	f.mu.RLock()
	entry, ok := f.entries[kind]
	f.mu.RUnlock()
	if !ok || entry.create == nil {
		return nil, domain.WithDetail(domain.ErrUnknownPacketType, "type", kind.String())
	}
	return entry.create(), nil
}

// Route dispatches a packet to its registered handler.
func (f *Factory) Route(p Packet) error {
	f.mu.RLock()
	entry, ok := f.entries[p.Type()]
	f.mu.RUnlock()
	if !ok || entry.handler == nil {
		return domain.WithDetail(domain.ErrUnknownPacketType, "type", p.Type().String())
	}
	return entry.handler(p)
}
