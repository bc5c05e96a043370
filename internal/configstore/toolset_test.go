package configstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/configstore"
)

func TestDefaultResolver_Precedence(t *testing.T) {
	r := configstore.DefaultResolver{}

	v, err := r.Resolve("explicit", "sniffed", "default")
	require.NoError(t, err)
	assert.Equal(t, "explicit", v)

	v, err = r.Resolve("", "sniffed", "default")
	require.NoError(t, err)
	assert.Equal(t, "sniffed", v)

	v, err = r.Resolve("", "", "default")
	require.NoError(t, err)
	assert.Equal(t, "default", v)
}

func TestDefaultResolver_EnvironmentOverride(t *testing.T) {
	t.Setenv(configstore.EnvToolsVersion, "14.0")
	r := configstore.DefaultResolver{}

	v, err := r.Resolve("", "sniffed", "default")
	require.NoError(t, err)
	assert.Equal(t, "14.0", v, "the operator override beats the sniffed version")

	v, err = r.Resolve("explicit", "sniffed", "default")
	require.NoError(t, err)
	assert.Equal(t, "explicit", v, "an explicit version still wins")
}

func TestStore_ResolveToolsVersionAttributeCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	path := writeProject(t, t.TempDir(), "app.proj",
		`<Project toolsversion="3.5"><Target Name="Build"/></Project>`)

	cfg, err := store.Resolve(path, "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "3.5", cfg.ToolsVersion())
}
