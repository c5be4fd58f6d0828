package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/worldloom/internal/infrastructure/config"
)

func registerTenants(t *testing.T, basePath string, ids ...string) {
	t.Helper()
	registry, err := config.LoadRegistry(basePath)
	require.NoError(t, err)
	for _, id := range ids {
		registry.Add(id, config.TenantEntry{Name: "World " + id})
	}
	require.NoError(t, registry.Save(basePath))
}

func TestDropAllTenants(t *testing.T) {
	env := newTestEnv(t)
	registerTenants(t, env.basePath, "w1", "w2", "w3")
	h := NewAdminHandler(env.router, env.basePath, testLogger())

	dropped, err := h.DropAllTenants(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, dropped)
	for id, s := range env.stores {
		assert.True(t, s.Dropped, id)
		assert.False(t, env.router.Cached(id), id)
	}

	registry, err := config.LoadRegistry(env.basePath)
	require.NoError(t, err)
	assert.Empty(t, registry.IDs())
}

func TestDropTenant(t *testing.T) {
	env := newTestEnv(t)
	registerTenants(t, env.basePath, "w1", "w2")
	h := NewAdminHandler(env.router, env.basePath, testLogger())

	require.NoError(t, h.DropTenant(context.Background(), "w1"))

	assert.True(t, env.stores["w1"].Dropped)
	assert.False(t, env.router.Cached("w1"))

	registry, err := config.LoadRegistry(env.basePath)
	require.NoError(t, err)
	assert.False(t, registry.Exists("w1"))
	assert.True(t, registry.Exists("w2"), "other tenants are untouched")
}

func TestDropTenant_InvalidID(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminHandler(env.router, env.basePath, testLogger())

	err := h.DropTenant(context.Background(), "---")
	require.Error(t, err)
}

func TestDropAllTenants_EmptyRegistry(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminHandler(env.router, env.basePath, testLogger())

	dropped, err := h.DropAllTenants(context.Background())

	require.NoError(t, err)
	assert.Zero(t, dropped)
}

func TestDropAllTenants_FailingTenantDoesNotStopOthers(t *testing.T) {
	env := newTestEnv(t)
	registerTenants(t, env.basePath, "w1", "w2", "w3")
	h := NewAdminHandler(env.router, env.basePath, testLogger())

	// Warm the failing tenant's handle and make its drop fail.
	_, err := env.router.Get(context.Background(), "w2")
	require.NoError(t, err)
	env.stores["w2"].Err = errors.New("namespace busy")

	dropped, err := h.DropAllTenants(context.Background())

	require.Error(t, err)
	assert.Equal(t, 2, dropped)

	// The failing tenant stays registered for a retry; the others are gone.
	registry, regErr := config.LoadRegistry(env.basePath)
	require.NoError(t, regErr)
	assert.Equal(t, []string{"w2"}, registry.IDs())

	// The retry succeeds once the namespace is droppable again.
	env.stores["w2"].Err = nil
	dropped, err = h.DropAllTenants(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
}
