package handlers

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/worldloom/internal/domain/mocks"
	"github.com/ersonp/worldloom/internal/domain/ports"
	"github.com/ersonp/worldloom/internal/domain/services"
	"github.com/ersonp/worldloom/internal/infrastructure/config"
	"github.com/ersonp/worldloom/internal/infrastructure/tenant"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEnv wires the handler stack against mock stores keyed by tenant id.
type testEnv struct {
	gen      *mocks.Generator
	stores   map[string]*mocks.Store
	router   *tenant.Router
	basePath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		gen:      mocks.NewGenerator(),
		stores:   make(map[string]*mocks.Store),
		basePath: t.TempDir(),
	}
	env.router = tenant.NewRouter(func(_ context.Context, id string) (ports.Store, error) {
		s := mocks.NewStore()
		env.stores[id] = s
		return s, nil
	})
	t.Cleanup(func() { env.router.DropAll() })
	return env
}

func (env *testEnv) worldHandler() *WorldHandler {
	logger := testLogger()
	builder := services.NewWorldBuilder(env.gen, logger)
	pacts := services.NewPactCompleter(env.gen, logger)
	return NewWorldHandler(env.router, builder, pacts, env.basePath, logger)
}

func fullGenerator(gen *mocks.Generator) {
	gen.World = &ports.WorldDescriptor{Name: "Aldermoor", WorldBuilding: "Fens and iron."}
	var race ports.RaceDescriptor
	race.Name = "Fenfolk"
	race.Physiology.Lifespan = 90
	gen.Races = []ports.RaceDescriptor{race}
	var fa, fb ports.FactionDescriptor
	fa.Name = "Iron Compact"
	fb.Name = "River League"
	gen.Factions = []ports.FactionDescriptor{fa, fb}
	gen.Pact = &ports.PactDescriptor{Name: "The Long Truce", Type: "non-aggression", Description: "d"}
}

func TestCreateWorld_RegistersTenant(t *testing.T) {
	env := newTestEnv(t)
	fullGenerator(env.gen)
	h := env.worldHandler()

	world, err := h.CreateWorld(context.Background(), "keeper@example.com")

	require.NoError(t, err)
	require.NotNil(t, world)
	assert.Equal(t, "Aldermoor", world.Name)

	// The world document landed in its own tenant store.
	id, err := tenant.Sanitize(world.ID)
	require.NoError(t, err)
	require.Contains(t, env.stores, id)
	assert.Equal(t, world.ID, env.stores[id].World.ID)

	// And the tenant is registered.
	registry, err := config.LoadRegistry(env.basePath)
	require.NoError(t, err)
	assert.True(t, registry.Exists(id))
	assert.Equal(t, "Aldermoor", registry.Tenants[id].Name)
}

func TestFillWorld_GeneratesContentAndPacts(t *testing.T) {
	env := newTestEnv(t)
	fullGenerator(env.gen)
	h := env.worldHandler()

	world, err := h.CreateWorld(context.Background(), "keeper@example.com")
	require.NoError(t, err)

	require.NoError(t, h.FillWorld(context.Background(), world.ID, 1, 2))

	id, _ := tenant.Sanitize(world.ID)
	store := env.stores[id]
	assert.Len(t, store.Races, 1)
	assert.Len(t, store.Factions, 2)
	assert.Len(t, store.Pacts, 1, "the single faction pair gets its pact")
}

func TestFillWorld_UnknownWorld(t *testing.T) {
	env := newTestEnv(t)
	fullGenerator(env.gen)
	h := env.worldHandler()

	err := h.FillWorld(context.Background(), "no_such_world", 1, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCompletePacts_SecondPassIsNoop(t *testing.T) {
	env := newTestEnv(t)
	fullGenerator(env.gen)
	h := env.worldHandler()

	world, err := h.CreateWorld(context.Background(), "keeper@example.com")
	require.NoError(t, err)
	require.NoError(t, h.FillWorld(context.Background(), world.ID, 1, 2))

	inserted, err := h.CompletePacts(context.Background(), world.ID)

	require.NoError(t, err)
	assert.Empty(t, inserted, "the graph is already complete")
}

func TestGetWorld(t *testing.T) {
	env := newTestEnv(t)
	fullGenerator(env.gen)
	h := env.worldHandler()

	created, err := h.CreateWorld(context.Background(), "keeper@example.com")
	require.NoError(t, err)

	got, err := h.GetWorld(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
}
