package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/worldloom/internal/domain/entities"
	"github.com/ersonp/worldloom/internal/domain/ports"
)

// WorldBuilder drives top-level world content generation: the world record
// itself, its races and its factions. Kinship and pact graphs are built by the
// dedicated builders.
type WorldBuilder struct {
	generator ports.Generator
	logger    *slog.Logger
}

// NewWorldBuilder creates a WorldBuilder.
func NewWorldBuilder(generator ports.Generator, logger *slog.Logger) *WorldBuilder {
	return &WorldBuilder{generator: generator, logger: logger}
}

// CreateWorld generates a new world record. The id is assigned here, before
// persistence, and doubles as the tenant id.
func (b *WorldBuilder) CreateWorld(ctx context.Context, creator string) (*entities.World, error) {
	desc, err := retryGeneration(ctx, func() (*ports.WorldDescriptor, error) {
		return b.generator.GenerateWorld(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("generating world: %w", err)
	}

	world := &entities.World{
		ID:            uuid.New().String(),
		Name:          desc.Name,
		WorldBuilding: desc.WorldBuilding,
		CurrentYear:   time.Now().Year(),
		Creator:       creator,
		CreatedAt:     time.Now(),
	}
	b.logger.Info("generated world", "world", world.Name, "id", world.ID)
	return world, nil
}

// GenerateRaces generates count races for the world and persists them.
func (b *WorldBuilder) GenerateRaces(ctx context.Context, store ports.Store, world *entities.World, count int) ([]entities.Race, error) {
	descs, err := retryGeneration(ctx, func() ([]ports.RaceDescriptor, error) {
		return b.generator.GenerateRaces(ctx, world, count)
	})
	if err != nil {
		return nil, fmt.Errorf("generating races: %w", err)
	}

	races := make([]entities.Race, 0, len(descs))
	for _, d := range descs {
		race := entities.Race{
			ID:             uuid.New().String(),
			Name:           d.Name,
			Classification: d.Classification,
			Physiology: entities.Physiology{
				Lifespan: d.Physiology.Lifespan,
				SizeRange: entities.SizeRange{
					Min: d.Physiology.SizeRange.Min,
					Max: d.Physiology.SizeRange.Max,
				},
				Diet: d.Physiology.Diet,
			},
			SocietalStructure: d.Intelligence.SocietalStructure,
		}
		if err := store.InsertRace(ctx, &race); err != nil {
			return races, fmt.Errorf("inserting race %q: %w", race.Name, err)
		}
		races = append(races, race)
	}
	b.logger.Info("generated races", "world", world.Name, "count", len(races))
	return races, nil
}

// GenerateFactions generates count factions for the world and persists them.
func (b *WorldBuilder) GenerateFactions(ctx context.Context, store ports.Store, world *entities.World, count int) ([]entities.Faction, error) {
	descs, err := retryGeneration(ctx, func() ([]ports.FactionDescriptor, error) {
		return b.generator.GenerateFactions(ctx, world, count)
	})
	if err != nil {
		return nil, fmt.Errorf("generating factions: %w", err)
	}

	factions := make([]entities.Faction, 0, len(descs))
	for _, d := range descs {
		faction := entities.Faction{
			ID:          uuid.New().String(),
			Name:        d.Name,
			Description: d.Description,
			Alignment:   d.Alignment,
			Resources: entities.FactionResources{
				Wealth:             d.Resources.Wealth,
				MilitaryStrength:   d.Resources.MilitaryStrength,
				PoliticalInfluence: d.Resources.PoliticalInfluence,
			},
		}
		if err := store.InsertFaction(ctx, &faction); err != nil {
			return factions, fmt.Errorf("inserting faction %q: %w", faction.Name, err)
		}
		factions = append(factions, faction)
	}
	b.logger.Info("generated factions", "world", world.Name, "count", len(factions))
	return factions, nil
}
