// Package resultstore records, merges and serves build results for the
// requests a node has worked on.
package resultstore

import (
	"sync"

	"go.trai.ch/forge/internal/core/domain"
)

// Store holds one authoritative result per build request. Partial results
// arriving from different request fragments merge into the existing entry.
type Store struct {
	mu       sync.RWMutex
	byGlobal map[int32]*domain.BuildResult
	byConfig map[int32][]*domain.BuildResult
}

// NewStore creates an empty result store.
func NewStore() *Store {
	return &Store{
		byGlobal: make(map[int32]*domain.BuildResult),
		byConfig: make(map[int32][]*domain.BuildResult),
	}
}

// AddResult records a result. A result for an already-known global request id
// merges into the existing entry; merging duplicate identical data is
// absorbed by merge idempotence. Results for mismatched configurations fail
// loudly.
func (s *Store) AddResult(result *domain.BuildResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byGlobal[result.GlobalRequestID]
	if !ok {
		s.byGlobal[result.GlobalRequestID] = result
		s.byConfig[result.ConfigurationID] = append(s.byConfig[result.ConfigurationID], result)
		return nil
	}
	if existing.ConfigurationID != result.ConfigurationID {
		err := domain.WithDetail(domain.ErrConfigurationMismatch, "request", result.GlobalRequestID)
		err = domain.WithDetail(err, "have", existing.ConfigurationID)
		return domain.WithDetail(err, "got", result.ConfigurationID)
	}
	return existing.MergeFrom(result)
}

// GetResult returns the result for a global request id.
func (s *Store) GetResult(globalRequestID int32) (*domain.BuildResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.byGlobal[globalRequestID]
	if !ok {
		return nil, domain.WithDetail(domain.ErrResultNotFound, "request", globalRequestID)
	}
	return result, nil
}

// GetResultsForConfiguration returns every result recorded against one
// configuration.
func (s *Store) GetResultsForConfiguration(configurationID int32) []*domain.BuildResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*domain.BuildResult(nil), s.byConfig[configurationID]...)
}

// ClearBuildScoped drops every recorded result. Called when the owning build
// ends.
func (s *Store) ClearBuildScoped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byGlobal = make(map[int32]*domain.BuildResult)
	s.byConfig = make(map[int32][]*domain.BuildResult)
}
