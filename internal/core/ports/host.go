package ports

// ComponentKind identifies a host-provided component.
type ComponentKind int

const (
	// ComponentLoggingService is the host's logging sink.
	ComponentLoggingService ComponentKind = iota
	// ComponentConfigCache is the configuration store.
	ComponentConfigCache
	// ComponentResultCache is the result store.
	ComponentResultCache
	// ComponentNodeManager tracks the nodes owned by this process.
	ComponentNodeManager
	// ComponentRegisteredObjects is the build-scoped registered-object cache.
	ComponentRegisteredObjects
	// ComponentRequestEngine is the target/task execution engine.
	ComponentRequestEngine
	// ComponentToolsetResolver resolves tools versions.
	ComponentToolsetResolver
	// ComponentTracer is the span-emitting tracer.
	ComponentTracer
)

// ComponentFactory constructs a component on first lookup.
type ComponentFactory func() (any, error)

// ComponentHost is the dependency-lookup facility nodes use to obtain caches,
// logging sinks and the request engine. It is constructed explicitly by the
// process bootstrap and injected into each node; there is no hidden global.
//
//go:generate mockgen -source=host.go -destination=mocks/mock_host.go -package=mocks
type ComponentHost interface {
	// GetComponent returns the component for kind, constructing it on first
	// use. An unregistered kind is a loud error.
	GetComponent(kind ComponentKind) (any, error)

	// RegisterFactory installs the factory for kind, replacing any previous
	// registration.
	RegisterFactory(kind ComponentKind, factory ComponentFactory)
}
