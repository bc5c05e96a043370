package host_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/host"
	"go.trai.ch/forge/internal/resultstore"
)

func TestHost_LazyConstructionAndCaching(t *testing.T) {
	h := host.New()
	built := 0
	h.RegisterFactory(ports.ComponentResultCache, func() (any, error) {
		built++
		return resultstore.NewStore(), nil
	})
	require.Zero(t, built, "registration does not construct")

	first, err := h.GetComponent(ports.ComponentResultCache)
	require.NoError(t, err)
	second, err := h.GetComponent(ports.ComponentResultCache)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, built)
}

func TestHost_UnregisteredKind(t *testing.T) {
	h := host.New()
	_, err := h.GetComponent(ports.ComponentRequestEngine)
	assert.ErrorIs(t, err, domain.ErrComponentNotRegistered)
}

func TestHost_FactoryFailureIsNotCached(t *testing.T) {
	h := host.New()
	calls := 0
	h.RegisterFactory(ports.ComponentResultCache, func() (any, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("not ready")
		}
		return resultstore.NewStore(), nil
	})

	_, err := h.GetComponent(ports.ComponentResultCache)
	require.Error(t, err)

	c, err := h.GetComponent(ports.ComponentResultCache)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestHost_ReRegisterDropsCachedInstance(t *testing.T) {
	h := host.New()
	h.RegisterFactory(ports.ComponentResultCache, func() (any, error) {
		return resultstore.NewStore(), nil
	})
	first, err := h.GetComponent(ports.ComponentResultCache)
	require.NoError(t, err)

	h.RegisterFactory(ports.ComponentResultCache, func() (any, error) {
		return resultstore.NewStore(), nil
	})
	second, err := h.GetComponent(ports.ComponentResultCache)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
}

func TestComponent_TypedLookup(t *testing.T) {
	h := host.New()
	h.RegisterFactory(ports.ComponentResultCache, func() (any, error) {
		return resultstore.NewStore(), nil
	})

	store, err := host.Component[*resultstore.Store](h, ports.ComponentResultCache)
	require.NoError(t, err)
	assert.NotNil(t, store)

	_, err = host.Component[*host.RegisteredObjects](h, ports.ComponentResultCache)
	assert.ErrorIs(t, err, domain.ErrComponentNotRegistered, "a type mismatch reads as a registration defect")
}

func TestRegisteredObjects(t *testing.T) {
	r := host.NewRegisteredObjects()
	r.Register("node.id", int32(4))
	r.Register("node.id", int32(5))
	r.Register("other", "x")

	v, ok := r.Get("node.id")
	require.True(t, ok)
	assert.Equal(t, int32(5), v, "re-registration overwrites")
	assert.Equal(t, 2, r.Len())

	_, ok = r.Get("absent")
	assert.False(t, ok)

	r.Clear()
	assert.Zero(t, r.Len())
}
