// Package domain contains the core types of the node-coordination layer:
// configuration identity, build results and node lifecycle vocabulary.
package domain

import (
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ConfigState tracks where a configuration's project instance lives.
type ConfigState int

const (
	// StateResident means the project instance (if any) is in memory.
	StateResident ConfigState = iota
	// StateCached means the project instance has been spilled to disk.
	StateCached
	// StateExecuting means targets are in flight; the configuration may not
	// be spilled or torn down until execution ends.
	StateExecuting
)

// String returns the state name for logging.
func (s ConfigState) String() string {
	switch s {
	case StateResident:
		return "resident"
	case StateCached:
		return "cached"
	case StateExecuting:
		return "executing"
	default:
		return "unknown"
	}
}

// Configuration identifies one buildable unit: a project path, its global
// properties and its tools version. A negative id is node-local and not yet
// reconciled with the controller; zero is invalid; positive ids are canonical.
type Configuration struct {
	id           int32
	path         string
	toolsVersion string
	properties   *PropertySet

	// mu guards the lifecycle fields: state, project and cacheable. The
	// engine drives execution transitions concurrently with the store's
	// spill path, so check-then-act sequences must stay inside one
	// critical section (see EvictProject and DropProject).
	mu        sync.Mutex
	project   *ProjectInstance
	state     ConfigState
	cacheable bool

	defaultTargets    []string
	initialTargets    []string
	defaultTargetsSet bool
	initialTargetsSet bool
}

// NewConfiguration creates a configuration for the given identity. The id may
// be negative (node-local) or positive (controller-assigned); zero is rejected
// by the store before construction.
func NewConfiguration(id int32, path, toolsVersion string, properties *PropertySet) *Configuration {
	if properties == nil {
		properties = NewPropertySet()
	}
	return &Configuration{
		id:           id,
		path:         path,
		toolsVersion: toolsVersion,
		properties:   properties,
		cacheable:    true,
	}
}

// ID returns the configuration id.
func (c *Configuration) ID() int32 { return c.id }

// Path returns the absolute project path.
func (c *Configuration) Path() string { return c.path }

// ToolsVersion returns the resolved tools version.
func (c *Configuration) ToolsVersion() string { return c.toolsVersion }

// Properties returns the global-property set.
func (c *Configuration) Properties() *PropertySet { return c.properties }

// State returns the current lifecycle state.
func (c *Configuration) State() ConfigState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Cacheable reports whether the configuration may be spilled to disk.
func (c *Configuration) Cacheable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cacheable
}

// SetCacheable toggles disk-spill eligibility.
func (c *Configuration) SetCacheable(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheable = v
}

// Project returns the loaded project instance, or nil when none is attached
// or the instance is spilled to disk.
func (c *Configuration) Project() *ProjectInstance {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.project
}

// AttachProject sets the loaded project instance and makes the configuration
// resident again.
func (c *Configuration) AttachProject(p *ProjectInstance) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateExecuting && c.project != nil {
		return ErrConfigurationExecuting
	}
	c.project = p
	if c.state == StateCached {
		c.state = StateResident
	}
	return nil
}

// DetachProject removes and returns the in-memory project instance. The
// caller must have persisted it first; see MarkCached.
func (c *Configuration) DetachProject() *ProjectInstance {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.project
	c.project = nil
	return p
}

// MarkCached transitions the configuration to the cached state. The project
// instance must already have been serialized out and detached.
func (c *Configuration) MarkCached() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateExecuting {
		return ErrConfigurationExecuting
	}
	if c.project != nil {
		return ErrProjectStillLoaded
	}
	c.state = StateCached
	return nil
}

// EvictProject detaches the project instance and marks the configuration
// cached in one step. The caller serializes the project before committing,
// so the commit re-checks eligibility: execution that began after the
// caller sampled the state refuses the eviction and the project stays
// pinned in memory.
func (c *Configuration) EvictProject() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateExecuting {
		return ErrConfigurationExecuting
	}
	if !c.cacheable {
		return ErrConfigurationNotCacheable
	}
	if c.project == nil {
		return ErrNoProjectLoaded
	}
	c.project = nil
	c.state = StateCached
	return nil
}

// DropProject discards the in-memory project instance without caching it,
// unless execution has it pinned. The configuration stays resident and the
// project reloads from its path on demand.
func (c *Configuration) DropProject() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateExecuting {
		return
	}
	c.project = nil
}

// BeginExecution marks targets as in flight. An executing configuration is
// pinned in memory until EndExecution.
func (c *Configuration) BeginExecution() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateCached {
		return ErrConfigurationNotResident
	}
	c.state = StateExecuting
	return nil
}

// EndExecution returns the configuration to the resident state.
func (c *Configuration) EndExecution() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateExecuting {
		c.state = StateResident
	}
}

// ReconcileID replaces a node-local negative id with the controller-assigned
// canonical one. It may succeed exactly once.
func (c *Configuration) ReconcileID(canonical int32) error {
	if c.id > 0 {
		return ErrIDAlreadyReconciled
	}
	if canonical <= 0 {
		return ErrInvalidConfigurationID
	}
	c.id = canonical
	return nil
}

// SetDefaultTargets records the resolved default-target list. The list is
// immutable once set.
func (c *Configuration) SetDefaultTargets(targets []string) error {
	if c.defaultTargetsSet {
		return ErrTargetsAlreadySet
	}
	c.defaultTargets = append([]string(nil), targets...)
	c.defaultTargetsSet = true
	return nil
}

// SetInitialTargets records the resolved initial-target list. The list is
// immutable once set.
func (c *Configuration) SetInitialTargets(targets []string) error {
	if c.initialTargetsSet {
		return ErrTargetsAlreadySet
	}
	c.initialTargets = append([]string(nil), targets...)
	c.initialTargetsSet = true
	return nil
}

// DefaultTargets returns the resolved default targets.
func (c *Configuration) DefaultTargets() []string { return c.defaultTargets }

// InitialTargets returns the resolved initial targets.
func (c *Configuration) InitialTargets() []string { return c.initialTargets }

// Equal reports whether both configurations identify the same buildable unit.
// Two configurations with positive ids compare by id alone; otherwise path and
// tools version compare case-insensitively and properties by set equality.
func (c *Configuration) Equal(other *Configuration) bool {
	if c == other {
		return true
	}
	if other == nil {
		return false
	}
	if c.id > 0 && other.id > 0 {
		return c.id == other.id
	}
	return strings.EqualFold(c.path, other.path) &&
		strings.EqualFold(c.toolsVersion, other.toolsVersion) &&
		c.properties.Equal(other.properties)
}

// IdentityHash returns a deterministic 64-bit hash of (path, tools version,
// properties). Configurations that are Equal by the fallback comparison always
// share a hash.
func (c *Configuration) IdentityHash() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(strings.ToLower(c.path))
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(strings.ToLower(c.toolsVersion))
	_, _ = d.WriteString("|")
	c.properties.WriteHash(d)
	return d.Sum64()
}

// ShallowCloneWithNewID produces an independent configuration sharing the
// same loaded project reference under a different id. Used when one physical
// project is tracked under two logical build-request identities.
func (c *Configuration) ShallowCloneWithNewID(newID int32) *Configuration {
	clone := NewConfiguration(newID, c.path, c.toolsVersion, c.properties.Clone())
	c.mu.Lock()
	clone.project = c.project
	clone.cacheable = c.cacheable
	c.mu.Unlock()
	return clone
}
