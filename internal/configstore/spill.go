package configstore

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/protocol"
	"go.trai.ch/zerr"
)

const (
	dirPerm  = 0o755
	filePerm = 0o600
)

// cacheFilePath names the spill file for one configuration id.
func (s *Store) cacheFilePath(id int32) string {
	return filepath.Join(s.cacheDir, fmt.Sprintf("config-%d.cache", id))
}

// CacheIfPossible spills cfg's project instance to disk and marks the
// configuration cached. It is a no-op when the configuration is executing,
// already cached, not cacheable, or has no project loaded. Disk failures
// surface as ErrCacheUnavailable so callers can keep the configuration
// resident instead.
func (s *Store) CacheIfPossible(cfg *domain.Configuration) error {
	mu := s.cfgMutex(cfg.ID())
	mu.Lock()
	defer mu.Unlock()

	project := cfg.Project()
	if cfg.State() != domain.StateResident || !cfg.Cacheable() || project == nil {
		return nil
	}

	var payload bytes.Buffer
	t := protocol.NewWriteTranslator(&payload)
	protocol.TranslateProjectInstance(t, project)
	if err := t.Err(); err != nil {
		return zerr.Wrap(err, "project instance serialization failed")
	}

	if err := os.MkdirAll(s.cacheDir, dirPerm); err != nil {
		return cacheUnavailable(err)
	}
	if err := os.WriteFile(s.cacheFilePath(cfg.ID()), payload.Bytes(), filePerm); err != nil {
		return cacheUnavailable(err)
	}

	// The eviction re-checks eligibility under the configuration's own
	// lock. Execution that started after the snapshot above keeps the
	// project pinned; the stale spill file is discarded.
	if err := cfg.EvictProject(); err != nil {
		s.removeCacheFileLocked(cfg.ID())
		if errors.Is(err, domain.ErrConfigurationExecuting) {
			return nil
		}
		return err
	}
	return nil
}

// RetrieveFromCache loads cfg's spilled project instance back into memory.
// A resident configuration is a no-op.
func (s *Store) RetrieveFromCache(cfg *domain.Configuration) error {
	mu := s.cfgMutex(cfg.ID())
	mu.Lock()
	defer mu.Unlock()

	if cfg.State() != domain.StateCached {
		return nil
	}

	data, err := os.ReadFile(s.cacheFilePath(cfg.ID()))
	if err != nil {
		return cacheUnavailable(err)
	}

	project := &domain.ProjectInstance{}
	t := protocol.NewReadTranslator(bytes.NewReader(data), protocol.CurrentVersion)
	protocol.TranslateProjectInstance(t, project)
	if err := t.Err(); err != nil {
		return zerr.Wrap(err, "project instance deserialization failed")
	}
	return cfg.AttachProject(project)
}

// removeCacheFileLocked deletes the spill file for id, ignoring absence.
func (s *Store) removeCacheFileLocked(id int32) {
	_ = os.Remove(s.cacheFilePath(id))
}

// cacheUnavailable classifies disk-cache I/O failures. Missing directories
// and permission denials become the distinct ErrCacheUnavailable condition;
// anything else stays a generic wrapped error.
func cacheUnavailable(err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return domain.WithDetail(domain.ErrCacheUnavailable, "cause", err.Error())
	}
	return zerr.Wrap(err, "configuration cache I/O failed")
}
