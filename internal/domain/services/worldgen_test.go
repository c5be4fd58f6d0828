package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/worldloom/internal/domain/mocks"
	"github.com/ersonp/worldloom/internal/domain/ports"
)

func TestCreateWorld(t *testing.T) {
	gen := mocks.NewGenerator()
	gen.World = &ports.WorldDescriptor{Name: "Aldermoor", WorldBuilding: "A land of fens and iron."}

	b := NewWorldBuilder(gen, testLogger())
	world, err := b.CreateWorld(context.Background(), "keeper@example.com")

	require.NoError(t, err)
	assert.NotEmpty(t, world.ID)
	assert.Equal(t, "Aldermoor", world.Name)
	assert.Equal(t, "A land of fens and iron.", world.WorldBuilding)
	assert.Equal(t, "keeper@example.com", world.Creator)
	assert.NotZero(t, world.CurrentYear)
}

func TestGenerateRaces(t *testing.T) {
	gen := mocks.NewGenerator()
	var d ports.RaceDescriptor
	d.Name = "Fenfolk"
	d.Classification = "humanoid"
	d.Physiology.Lifespan = 90
	d.Physiology.Diet = "omnivore"
	d.Intelligence.SocietalStructure = "clan-based"
	gen.Races = []ports.RaceDescriptor{d}

	store := mocks.NewStore()
	b := NewWorldBuilder(gen, testLogger())
	races, err := b.GenerateRaces(context.Background(), store, testWorld(), 1)

	require.NoError(t, err)
	require.Len(t, races, 1)
	assert.NotEmpty(t, races[0].ID)
	assert.Equal(t, "Fenfolk", races[0].Name)
	assert.Equal(t, 90, races[0].Physiology.Lifespan)
	assert.Len(t, store.Races, 1)
}

func TestGenerateFactions(t *testing.T) {
	gen := mocks.NewGenerator()
	var d ports.FactionDescriptor
	d.Name = "The Iron Compact"
	d.Description = "Smith guilds bound by oath."
	d.Alignment = "lawful neutral"
	d.Resources.Wealth = "high"
	gen.Factions = []ports.FactionDescriptor{d}

	store := mocks.NewStore()
	b := NewWorldBuilder(gen, testLogger())
	factions, err := b.GenerateFactions(context.Background(), store, testWorld(), 1)

	require.NoError(t, err)
	require.Len(t, factions, 1)
	assert.NotEmpty(t, factions[0].ID)
	assert.Equal(t, "high", factions[0].Resources.Wealth)
	assert.Len(t, store.Factions, 1)
}
