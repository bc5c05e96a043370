package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidConfigurationID is returned when a configuration id is zero or has the wrong sign for the operation.
	ErrInvalidConfigurationID = zerr.New("invalid configuration id")

	// ErrIDAlreadyReconciled is returned when a configuration id is reconciled a second time.
	ErrIDAlreadyReconciled = zerr.New("configuration id already reconciled")

	// ErrTargetsAlreadySet is returned when default or initial targets are assigned more than once.
	ErrTargetsAlreadySet = zerr.New("target lists are immutable once set")

	// ErrConfigurationExecuting is returned when a configuration with targets in flight would be spilled or torn down.
	ErrConfigurationExecuting = zerr.New("configuration is actively executing")

	// ErrConfigurationNotCacheable is returned when a non-cacheable configuration would be spilled.
	ErrConfigurationNotCacheable = zerr.New("configuration is not cacheable")

	// ErrConfigurationNotResident is returned when an operation requires the project instance to be in memory.
	ErrConfigurationNotResident = zerr.New("configuration is not resident")

	// ErrNoProjectLoaded is returned when an operation requires a loaded project instance and none is attached.
	ErrNoProjectLoaded = zerr.New("no project instance loaded")

	// ErrProjectStillLoaded is returned when a configuration is marked cached while its project is still in memory.
	ErrProjectStillLoaded = zerr.New("project instance must be serialized before caching")

	// ErrTargetResultCommitted is returned when a committed target result would be overwritten.
	ErrTargetResultCommitted = zerr.New("target result already committed")

	// ErrConfigurationMismatch is returned when results for different configurations are merged.
	ErrConfigurationMismatch = zerr.New("configuration ids do not match")

	// ErrLegacyProjectFormat is returned for project file formats this tools-version line cannot build.
	ErrLegacyProjectFormat = zerr.New("legacy project format is not supported")

	// ErrProjectNotFound is returned when the project file does not exist.
	ErrProjectNotFound = zerr.New("project file not found")

	// ErrToolsVersionUnreadable is returned when the project file's tools-version attribute cannot be read.
	ErrToolsVersionUnreadable = zerr.New("unable to read tools version from project file")

	// ErrCacheUnavailable is returned when the on-disk configuration cache cannot be used.
	// It is distinct from generic I/O failure so callers can keep configurations resident instead.
	ErrCacheUnavailable = zerr.New("configuration disk cache unavailable")

	// ErrUnknownPacketType is returned when a packet arrives for a kind with no registered factory or handler.
	ErrUnknownPacketType = zerr.New("unknown packet type")

	// ErrMalformedPacket is returned when a packet cannot be deserialized from the stream.
	ErrMalformedPacket = zerr.New("malformed packet stream")

	// ErrLinkFailed is returned when a send is attempted on a failed or disconnected transport link.
	ErrLinkFailed = zerr.New("transport link failed")

	// ErrNodeNotIdle is returned when a node-configuration packet arrives while a build is active.
	ErrNodeNotIdle = zerr.New("node is not idle")

	// ErrComponentNotRegistered is returned when a component kind has no registered factory.
	ErrComponentNotRegistered = zerr.New("component kind not registered")

	// ErrResultNotFound is returned when no result exists for the requested build request.
	ErrResultNotFound = zerr.New("no result recorded for request")

	// ErrEngineActive is returned when InitializeForBuild is called on an engine that already has a build attached.
	ErrEngineActive = zerr.New("request engine already initialized for a build")

	// ErrEngineNotActive is returned when a build operation reaches an engine with no build attached.
	ErrEngineNotActive = zerr.New("request engine not initialized for a build")
)

// WithDetail attaches a key-value pair to err as zerr metadata. The original
// error stays in the unwrap chain, so errors.Is still matches it. Attach
// several pairs by nesting calls.
func WithDetail(err error, key string, value any) error {
	return zerr.With(zerr.Wrap(err, ""), key, value)
}
