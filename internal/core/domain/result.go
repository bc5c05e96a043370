package domain

import "sync"

// TargetState is the outcome of one target.
type TargetState int8

const (
	// TargetSuccess means the target completed successfully.
	TargetSuccess TargetState = iota
	// TargetFailure means the target failed.
	TargetFailure
	// TargetSkipped means the target was not run; a skipped entry is a
	// placeholder and may later be replaced by a real outcome.
	TargetSkipped
)

// String returns the state name.
func (s TargetState) String() string {
	switch s {
	case TargetSuccess:
		return "success"
	case TargetFailure:
		return "failure"
	case TargetSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// TargetResult is the recorded outcome of one target within a build request.
type TargetResult struct {
	State TargetState
	// DoesNotFailBuild marks a failure that must not fail the overall build.
	DoesNotFailBuild bool
}

// targetMap is the shared backing store for target entries. Cloned views of a
// BuildResult share one targetMap, so progress recorded through either view is
// visible through both.
type targetMap struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]TargetResult

	err         error
	circular    bool
	baseSuccess bool
	snapshot    *ProjectInstance
}

func newTargetMap() *targetMap {
	return &targetMap{
		entries:     make(map[string]TargetResult),
		baseSuccess: true,
	}
}

// BuildResult accumulates per-target outcomes for one build request against
// one configuration. Target entries may arrive out of order and from
// different completion callbacks concurrently.
type BuildResult struct {
	SubmissionID          int32
	ConfigurationID       int32
	GlobalRequestID       int32
	ParentGlobalRequestID int32 // -1 for the root request
	NodeRequestID         int32

	targets *targetMap
}

// NewBuildResult creates an empty result for one build request.
func NewBuildResult(submissionID, configurationID, globalRequestID, parentGlobalRequestID, nodeRequestID int32) *BuildResult {
	return &BuildResult{
		SubmissionID:          submissionID,
		ConfigurationID:       configurationID,
		GlobalRequestID:       globalRequestID,
		ParentGlobalRequestID: parentGlobalRequestID,
		NodeRequestID:         nodeRequestID,
		targets:               newTargetMap(),
	}
}

// AddTargetResult records the outcome of one target. A target may only be
// recorded once per result, except that a skipped placeholder may be replaced.
func (r *BuildResult) AddTargetResult(name string, result TargetResult) error {
	t := r.targets
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.entries[name]
	if ok && existing.State != TargetSkipped {
		return ErrTargetResultCommitted
	}
	if !ok {
		t.order = append(t.order, name)
	}
	t.entries[name] = result
	return nil
}

// TargetResultFor returns the recorded outcome for name.
func (r *BuildResult) TargetResultFor(name string) (TargetResult, bool) {
	t := r.targets
	t.mu.RLock()
	defer t.mu.RUnlock()
	res, ok := t.entries[name]
	return res, ok
}

// HasTarget reports whether an outcome is recorded for name.
func (r *BuildResult) HasTarget(name string) bool {
	_, ok := r.TargetResultFor(name)
	return ok
}

// TargetNames returns target names in arrival order.
func (r *BuildResult) TargetNames() []string {
	t := r.targets
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.order...)
}

// Err returns the exception captured during execution, if any.
func (r *BuildResult) Err() error {
	t := r.targets
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

// SetErr attaches an execution error. An existing error is not replaced.
func (r *BuildResult) SetErr(err error) {
	t := r.targets
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err == nil {
		t.err = err
	}
}

// CircularDependency reports whether a circular dependency was detected.
func (r *BuildResult) CircularDependency() bool {
	t := r.targets
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.circular
}

// SetCircularDependency flags the result as having hit a circular dependency.
func (r *BuildResult) SetCircularDependency() {
	t := r.targets
	t.mu.Lock()
	defer t.mu.Unlock()
	t.circular = true
}

// ProjectSnapshot returns the post-build project state, if one was attached.
func (r *BuildResult) ProjectSnapshot() *ProjectInstance {
	t := r.targets
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshot
}

// SetProjectSnapshot attaches the post-build project state.
func (r *BuildResult) SetProjectSnapshot(p *ProjectInstance) {
	t := r.targets
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshot = p
}

// BaseSuccess returns the inherited success flag. It is false when a target
// outside this result's visible set (a prior partial result, or an
// after-target checked during narrowing) has already failed the request.
func (r *BuildResult) BaseSuccess() bool {
	t := r.targets
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.baseSuccess
}

// SetBaseSuccess overrides the inherited success flag. Used when
// reconstructing a result received from another node.
func (r *BuildResult) SetBaseSuccess(v bool) {
	t := r.targets
	t.mu.Lock()
	defer t.mu.Unlock()
	t.baseSuccess = v
}

// OverallSuccess reports the computed overall result: failure if an error is
// attached, a circular dependency was flagged, the base-success flag is
// false, or any visible target failed without the non-propagating exemption.
func (r *BuildResult) OverallSuccess() bool {
	t := r.targets
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.err != nil || t.circular || !t.baseSuccess {
		return false
	}
	for _, res := range t.entries {
		if res.State == TargetFailure && !res.DoesNotFailBuild {
			return false
		}
	}
	return true
}

// MergeFrom folds other's target entries into this result. Merging into
// itself or into a result sharing the same backing map is a no-op. Every
// entry from other overwrites or adds; an absent error on the receiver is
// replaced by other's error. Repeated application of the same other is
// idempotent. Results for different configurations may not be merged.
func (r *BuildResult) MergeFrom(other *BuildResult) error {
	if other == nil || r == other || r.targets == other.targets {
		return nil
	}
	if r.ConfigurationID != other.ConfigurationID {
		return ErrConfigurationMismatch
	}

	src := other.targets
	src.mu.RLock()
	names := append([]string(nil), src.order...)
	entries := make(map[string]TargetResult, len(src.entries))
	for name, res := range src.entries {
		entries[name] = res
	}
	otherErr := src.err
	otherCircular := src.circular
	otherBase := src.baseSuccess
	src.mu.RUnlock()

	dst := r.targets
	dst.mu.Lock()
	defer dst.mu.Unlock()
	for _, name := range names {
		if _, ok := dst.entries[name]; !ok {
			dst.order = append(dst.order, name)
		}
		dst.entries[name] = entries[name]
	}
	if dst.err == nil {
		dst.err = otherErr
	}
	dst.circular = dst.circular || otherCircular
	dst.baseSuccess = dst.baseSuccess && otherBase
	return nil
}

// Clone returns a shallow view sharing the same target entries but with
// independent identifier fields. Used to attribute a result to a different
// node-local request id without affecting the original's progress.
func (r *BuildResult) Clone() *BuildResult {
	return &BuildResult{
		SubmissionID:          r.SubmissionID,
		ConfigurationID:       r.ConfigurationID,
		GlobalRequestID:       r.GlobalRequestID,
		ParentGlobalRequestID: r.ParentGlobalRequestID,
		NodeRequestID:         r.NodeRequestID,
		targets:               r.targets,
	}
}

// NarrowResult builds a result containing only subset's entries from
// existing, while still reflecting failures from afterTargets: targets that
// run logically after the requested set and can retroactively fail it. The
// afterTargets set is the transitive closure accumulated by the caller's
// traversal. A consumer of the narrowed result sees an overall failure even
// though none of its visible entries show one.
func NarrowResult(existing *BuildResult, subset []string, afterTargets []string) *BuildResult {
	narrowed := NewBuildResult(
		existing.SubmissionID,
		existing.ConfigurationID,
		existing.GlobalRequestID,
		existing.ParentGlobalRequestID,
		existing.NodeRequestID,
	)

	src := existing.targets
	src.mu.RLock()
	defer src.mu.RUnlock()

	dst := narrowed.targets
	for _, name := range subset {
		if res, ok := src.entries[name]; ok {
			dst.order = append(dst.order, name)
			dst.entries[name] = res
		}
	}
	dst.err = src.err
	dst.circular = src.circular
	dst.baseSuccess = src.baseSuccess
	for _, name := range afterTargets {
		if res, ok := src.entries[name]; ok {
			if res.State == TargetFailure && !res.DoesNotFailBuild {
				dst.baseSuccess = false
				break
			}
		}
	}
	return narrowed
}
