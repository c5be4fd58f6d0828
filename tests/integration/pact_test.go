package integration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/worldloom/internal/domain/entities"
	"github.com/ersonp/worldloom/internal/domain/mocks"
	"github.com/ersonp/worldloom/internal/domain/ports"
	"github.com/ersonp/worldloom/internal/domain/services"
)

func seedFactions(t *testing.T, store ports.Store, ids ...string) {
	t.Helper()
	for _, id := range ids {
		f := &entities.Faction{ID: id, Name: "Faction " + id, Description: "d", Alignment: "neutral"}
		require.NoError(t, store.InsertFaction(context.Background(), f))
	}
}

func TestPactUniqueness_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	r := newRouter(t, t.TempDir())
	store := openTenant(t, r, "w1")

	first, err := entities.NewFactionPact("p1", "First", entities.PactAlliance, "fa", "fb", "d")
	require.NoError(t, err)
	require.NoError(t, store.InsertPact(context.Background(), first))

	second, err := entities.NewFactionPact("p2", "Second", entities.PactWar, "fb", "fa", "d")
	require.NoError(t, err)
	err = store.InsertPact(context.Background(), second)
	assert.True(t, errors.Is(err, entities.ErrDuplicatePactKey))
}

func TestConcurrentPactCompletion_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	r := newRouter(t, t.TempDir())
	store := openTenant(t, r, "w1")
	seedFactions(t, store, "fa", "fb", "fc", "fd")

	gen := mocks.NewGenerator()
	gen.PactFn = func(a, b *entities.Faction) (*ports.PactDescriptor, error) {
		return &ports.PactDescriptor{
			Name:        fmt.Sprintf("Pact of %s and %s", a.Name, b.Name),
			Type:        "trade",
			Description: "d",
		}, nil
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	completer := services.NewPactCompleter(gen, logger)
	world := &entities.World{ID: "w1", Name: "Aldermoor"}

	// Two completion passes race on the same empty graph. The unique index on
	// the canonical pair key decides each pair; the loser skips.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = completer.CompleteMissing(context.Background(), store, world)
		}()
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	pacts, err := store.ListPacts(context.Background())
	require.NoError(t, err)
	assert.Len(t, pacts, 6, "4 factions give exactly C(4,2) pacts")

	keys := map[string]bool{}
	for _, p := range pacts {
		assert.False(t, keys[p.PairKey()], "duplicate pair key %s", p.PairKey())
		keys[p.PairKey()] = true
	}
}

func TestCompletionIsIncremental_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	r := newRouter(t, t.TempDir())
	store := openTenant(t, r, "w1")
	seedFactions(t, store, "fa", "fb")

	gen := mocks.NewGenerator()
	gen.Pact = &ports.PactDescriptor{Name: "The Long Truce", Type: "non-aggression", Description: "d"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	completer := services.NewPactCompleter(gen, logger)
	world := &entities.World{ID: "w1", Name: "Aldermoor"}

	inserted, err := completer.CompleteMissing(context.Background(), store, world)
	require.NoError(t, err)
	assert.Len(t, inserted, 1)

	// Adding a faction later only generates the genuinely new pairs.
	seedFactions(t, store, "fc")
	inserted, err = completer.CompleteMissing(context.Background(), store, world)
	require.NoError(t, err)
	assert.Len(t, inserted, 2)

	pacts, err := store.ListPacts(context.Background())
	require.NoError(t, err)
	assert.Len(t, pacts, 3)
}
