package configstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/configstore"
	"go.trai.ch/forge/internal/core/domain"
)

func newCacheableConfig(t *testing.T, store *configstore.Store) *domain.Configuration {
	t.Helper()
	proj := domain.NewProjectInstance("Current")
	proj.Properties.Set("OutDir", "bin")
	proj.Items["Compile"] = []string{"main.cs"}
	cfg, err := store.Resolve("/work/app.proj", "Current", nil, proj)
	require.NoError(t, err)
	cfg.SetCacheable(true)
	return cfg
}

func TestSpill_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	cfg := newCacheableConfig(t, store)
	original := cfg.Project()

	require.NoError(t, store.CacheIfPossible(cfg))
	assert.Equal(t, domain.StateCached, cfg.State())
	assert.Nil(t, cfg.Project())

	require.NoError(t, store.RetrieveFromCache(cfg))
	assert.Equal(t, domain.StateResident, cfg.State())

	restored := cfg.Project()
	require.NotNil(t, restored)
	assert.NotSame(t, original, restored)
	assert.True(t, original.Properties.Equal(restored.Properties))
	assert.Equal(t, original.Items, restored.Items)
	assert.Equal(t, original.ToolsVersion, restored.ToolsVersion)
}

func TestSpill_SkipsIneligibleConfigurations(t *testing.T) {
	store := newTestStore(t)

	notCacheable, err := store.Resolve("/work/a.proj", "Current", nil, domain.NewProjectInstance("Current"))
	require.NoError(t, err)
	notCacheable.SetCacheable(false)
	require.NoError(t, store.CacheIfPossible(notCacheable))
	assert.Equal(t, domain.StateResident, notCacheable.State())
	assert.NotNil(t, notCacheable.Project())

	noProject, err := store.Resolve("/work/b.proj", "Current", nil, nil)
	require.NoError(t, err)
	noProject.SetCacheable(true)
	require.NoError(t, store.CacheIfPossible(noProject))
	assert.Equal(t, domain.StateResident, noProject.State())

	executing := newCacheableConfig(t, store)
	require.NoError(t, executing.BeginExecution())
	require.NoError(t, store.CacheIfPossible(executing))
	assert.Equal(t, domain.StateExecuting, executing.State())
	assert.NotNil(t, executing.Project())
}

func TestSpill_ExecutionPinsProject(t *testing.T) {
	store := newTestStore(t)
	cfg := newCacheableConfig(t, store)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			if err := cfg.BeginExecution(); err != nil {
				// Spilled at this instant; the spiller will bring it back.
				continue
			}
			assert.NotNil(t, cfg.Project(), "executing configuration lost its project")
			cfg.EndExecution()
		}
	}()

	for i := 0; i < 500; i++ {
		assert.NoError(t, store.CacheIfPossible(cfg))
		assert.NoError(t, store.RetrieveFromCache(cfg))
	}
	<-done
}

func TestSpill_RetrieveResidentIsNoOp(t *testing.T) {
	store := newTestStore(t)
	cfg := newCacheableConfig(t, store)
	proj := cfg.Project()

	require.NoError(t, store.RetrieveFromCache(cfg))
	assert.Same(t, proj, cfg.Project())
}

func TestSpill_CacheUnavailable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "configs")
	store := configstore.NewStore(configstore.DefaultResolver{}, "Current", dir)
	proj := domain.NewProjectInstance("Current")
	cfg, err := store.Resolve("/work/app.proj", "Current", nil, proj)
	require.NoError(t, err)
	cfg.SetCacheable(true)
	require.NoError(t, store.CacheIfPossible(cfg))

	// Losing the spill file between cache and retrieve leaves the
	// configuration cached and surfaces the distinct unavailability error.
	require.NoError(t, os.RemoveAll(dir))

	err = store.RetrieveFromCache(cfg)
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
	assert.Equal(t, domain.StateCached, cfg.State())
	assert.Nil(t, cfg.Project())
}

func TestSpill_ReconcileRetrievesSpilledProject(t *testing.T) {
	store := newTestStore(t)
	cfg := newCacheableConfig(t, store)
	require.NoError(t, store.CacheIfPossible(cfg))
	require.Equal(t, domain.StateCached, cfg.State())

	require.NoError(t, store.ReconcileID(cfg.ID(), 42))

	assert.Equal(t, int32(42), cfg.ID())
	assert.Equal(t, domain.StateResident, cfg.State())
	assert.NotNil(t, cfg.Project(), "the spilled instance is retrieved before the id is retired")
}
