// Package host provides the component-by-kind lookup facility nodes use to
// obtain caches, logging sinks and the request engine. One Host is built by
// the process bootstrap and injected into each node; nothing here is a
// package-level global.
package host

import (
	"sync"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// Host implements ports.ComponentHost. Components construct lazily on first
// lookup and are cached for the host's lifetime.
type Host struct {
	mu         sync.Mutex
	factories  map[ports.ComponentKind]ports.ComponentFactory
	components map[ports.ComponentKind]any
}

// New creates an empty host.
func New() *Host {
	return &Host{
		factories:  make(map[ports.ComponentKind]ports.ComponentFactory),
		components: make(map[ports.ComponentKind]any),
	}
}

// RegisterFactory implements ports.ComponentHost. Re-registering a kind drops
// any cached instance so the next lookup rebuilds it.
func (h *Host) RegisterFactory(kind ports.ComponentKind, factory ports.ComponentFactory) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.factories[kind] = factory
	delete(h.components, kind)
}

// GetComponent implements ports.ComponentHost.
func (h *Host) GetComponent(kind ports.ComponentKind) (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.components[kind]; ok {
		return c, nil
	}
	factory, ok := h.factories[kind]
	if !ok {
		return nil, domain.WithDetail(domain.ErrComponentNotRegistered, "kind", int(kind))
	}
	c, err := factory()
	if err != nil {
		return nil, err
	}
	h.components[kind] = c
	return c, nil
}

var _ ports.ComponentHost = (*Host)(nil)

// Component resolves and type-asserts a component in one step.
func Component[T any](h ports.ComponentHost, kind ports.ComponentKind) (T, error) {
	var zero T
	c, err := h.GetComponent(kind)
	if err != nil {
		return zero, err
	}
	typed, ok := c.(T)
	if !ok {
		return zero, domain.WithDetail(domain.ErrComponentNotRegistered, "kind", int(kind))
	}
	return typed, nil
}
