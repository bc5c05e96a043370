// Package configstore is the single source of truth for "what to build": it
// resolves build-request data into comparable Configurations, reconciles
// node-local ids with controller-assigned ones, and spills idle project
// instances to disk under memory pressure.
package configstore

import (
	"path/filepath"
	"sync"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store owns every Configuration known to this process. Lookups by identity
// are bucketed by the configuration's 64-bit identity hash; equal identities
// always resolve to the same instance.
type Store struct {
	resolver       ports.ToolsetResolver
	defaultVersion string
	cacheDir       string

	mu       sync.Mutex
	byID     map[int32]*domain.Configuration
	byHash   map[uint64][]*domain.Configuration
	perCfgMu map[int32]*sync.Mutex
	nextID   int32
}

// NewStore creates a store issuing node-local (negative) ids. The cache
// directory hosts spilled project instances; it is created lazily on first
// spill.
func NewStore(resolver ports.ToolsetResolver, defaultVersion, cacheDir string) *Store {
	return &Store{
		resolver:       resolver,
		defaultVersion: defaultVersion,
		cacheDir:       cacheDir,
		byID:           make(map[int32]*domain.Configuration),
		byHash:         make(map[uint64][]*domain.Configuration),
		perCfgMu:       make(map[int32]*sync.Mutex),
		nextID:         -1,
	}
}

// Resolve builds or finds the Configuration for (path, toolsVersion,
// properties). The tools version resolves in order: the explicit caller
// version; the version declared by a preloaded project instance; the version
// sniffed from the project file reconciled through the toolset resolver; the
// store's default. Legacy project formats fail fast before sniffing.
func (s *Store) Resolve(
	path string,
	toolsVersion string,
	properties *domain.PropertySet,
	preloaded *domain.ProjectInstance,
) (*domain.Configuration, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.Wrap(err, "unable to resolve project path")
	}

	version, err := s.resolveToolsVersion(abs, toolsVersion, preloaded)
	if err != nil {
		return nil, err
	}

	if properties == nil {
		properties = domain.NewPropertySet()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	probe := domain.NewConfiguration(0, abs, version, properties)
	hash := probe.IdentityHash()
	for _, existing := range s.byHash[hash] {
		if existing.Equal(probe) {
			return existing, nil
		}
	}

	cfg := domain.NewConfiguration(s.nextID, abs, version, properties)
	s.nextID--
	if preloaded != nil {
		if err := cfg.AttachProject(preloaded); err != nil {
			return nil, err
		}
		if err := cfg.SetDefaultTargets(preloaded.DefaultTargets); err != nil {
			return nil, err
		}
		if err := cfg.SetInitialTargets(preloaded.InitialTargets); err != nil {
			return nil, err
		}
	}
	s.byID[cfg.ID()] = cfg
	s.byHash[hash] = append(s.byHash[hash], cfg)
	return cfg, nil
}

func (s *Store) resolveToolsVersion(path, explicit string, preloaded *domain.ProjectInstance) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if preloaded != nil && preloaded.ToolsVersion != "" {
		return preloaded.ToolsVersion, nil
	}

	if err := checkProjectFormat(path); err != nil {
		return "", err
	}
	sniffed, err := sniffToolsVersion(path)
	if err != nil {
		return "", err
	}
	resolved, err := s.resolver.Resolve(explicit, sniffed, s.defaultVersion)
	if err != nil {
		return "", zerr.Wrap(err, "toolset resolution failed")
	}
	if resolved != "" {
		return resolved, nil
	}
	return s.defaultVersion, nil
}

// Get returns the configuration registered under id.
func (s *Store) Get(id int32) (*domain.Configuration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, ok := s.byID[id]
	return cfg, ok
}

// Register adds a configuration received from the controller. An id collision
// with a different identity replaces the old registration (id-reuse
// boundary), removing any spilled file left under that id.
func (s *Store) Register(cfg *domain.Configuration) error {
	if cfg.ID() == 0 {
		return domain.ErrInvalidConfigurationID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.byID[cfg.ID()]; ok {
		if old.Equal(cfg) {
			return nil
		}
		s.dropLocked(old)
	}
	s.byID[cfg.ID()] = cfg
	hash := cfg.IdentityHash()
	s.byHash[hash] = append(s.byHash[hash], cfg)
	return nil
}

// ReconcileID replaces a node-generated negative id with the
// controller-assigned positive one. It succeeds exactly once per
// configuration; afterwards equality is purely identifier-based, which
// partitions identically to the path-plus-properties comparison for any two
// configurations compared before reconciliation. A spilled configuration is
// retrieved first so no cache file is orphaned under the retired id.
func (s *Store) ReconcileID(temporaryID, canonicalID int32) error {
	if temporaryID >= 0 {
		return domain.ErrInvalidConfigurationID
	}

	s.mu.Lock()
	cfg, ok := s.byID[temporaryID]
	s.mu.Unlock()
	if !ok {
		return domain.WithDetail(domain.ErrInvalidConfigurationID, "id", temporaryID)
	}

	if cfg.State() == domain.StateCached {
		if err := s.RetrieveFromCache(cfg); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := cfg.ReconcileID(canonicalID); err != nil {
		return err
	}
	delete(s.byID, temporaryID)
	delete(s.perCfgMu, temporaryID)
	s.byID[canonicalID] = cfg
	s.removeCacheFileLocked(temporaryID)
	return nil
}

// ShallowCloneWithNewID registers an independent configuration sharing cfg's
// loaded project under a new id.
func (s *Store) ShallowCloneWithNewID(cfg *domain.Configuration, newID int32) (*domain.Configuration, error) {
	if newID == 0 {
		return nil, domain.ErrInvalidConfigurationID
	}
	clone := cfg.ShallowCloneWithNewID(newID)
	if err := s.Register(clone); err != nil {
		return nil, err
	}
	return clone, nil
}

// IDs returns the ids of all registered configurations.
func (s *Store) IDs() []int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int32, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	return ids
}

// DropLoadedProjects detaches every in-memory project instance that is not
// pinned by an in-flight execution. Operator override for reclaiming memory
// on a long-lived node; the projects are not spilled first and will be
// reloaded from their paths on demand.
func (s *Store) DropLoadedProjects() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cfg := range s.byID {
		cfg.DropProject()
	}
}

// ClearBuildScoped drops every registered configuration and deletes their
// spilled cache files. Called when the owning build ends.
func (s *Store) ClearBuildScoped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.byID {
		s.removeCacheFileLocked(id)
	}
	s.byID = make(map[int32]*domain.Configuration)
	s.byHash = make(map[uint64][]*domain.Configuration)
	s.perCfgMu = make(map[int32]*sync.Mutex)
	s.nextID = -1
}

// cfgMutex returns the critical-section lock for one configuration. Cache and
// retrieve for the same configuration serialize through it; different
// configurations proceed fully in parallel.
func (s *Store) cfgMutex(id int32) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.perCfgMu[id]
	if !ok {
		mu = &sync.Mutex{}
		s.perCfgMu[id] = mu
	}
	return mu
}

func (s *Store) dropLocked(cfg *domain.Configuration) {
	delete(s.byID, cfg.ID())
	delete(s.perCfgMu, cfg.ID())
	hash := cfg.IdentityHash()
	bucket := s.byHash[hash]
	for i, c := range bucket {
		if c == cfg {
			s.byHash[hash] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	s.removeCacheFileLocked(cfg.ID())
}
