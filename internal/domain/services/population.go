package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ersonp/worldloom/internal/domain/entities"
	"github.com/ersonp/worldloom/internal/domain/ports"
)

// defaultBuildings are the building slots populated in every new locale.
var defaultBuildings = []string{
	"Tavern",
	"Blacksmith's Forge",
	"Market Hall",
	"Temple",
}

// Populator builds the population of one locale: building rosters from the
// generation service, then the kinship graph (marriages, families) on top.
type Populator struct {
	generator ports.Generator
	match     MatchConfig
	buildings []string
	logger    *slog.Logger
}

// NewPopulator creates a Populator with the default building slots.
func NewPopulator(generator ports.Generator, match MatchConfig, logger *slog.Logger) *Populator {
	return &Populator{
		generator: generator,
		match:     match,
		buildings: defaultBuildings,
		logger:    logger,
	}
}

// buildingResult is one building's finished subtree of the population graph.
type buildingResult struct {
	roster   []*entities.Character
	children []*entities.Character
}

// PopulateLocale generates the locale at (x, y) and its full population, then
// commits everything atomically. If a locale already exists at the coordinates
// it is returned untouched.
//
// Buildings are independent subtrees of the graph and are populated
// concurrently. Each building derives its own RNG from the request seed, so
// results are reproducible for a given seed and input ordering while parallel
// buildings never share a rand source. If any building fails irrecoverably the
// locale is not committed at all.
func (p *Populator) PopulateLocale(ctx context.Context, store ports.Store, world *entities.World, x, y int, seed int64) (*entities.Locale, []*entities.Character, error) {
	existing, err := store.GetLocaleAt(ctx, x, y)
	if err != nil {
		return nil, nil, fmt.Errorf("checking locale at (%d,%d): %w", x, y, err)
	}
	if existing != nil {
		return existing, nil, nil
	}

	desc, err := retryGeneration(ctx, func() (*ports.LocaleDescriptor, error) {
		return p.generator.GenerateLocale(ctx, world, x, y)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("generating locale at (%d,%d): %w", x, y, err)
	}

	rng := rand.New(rand.NewSource(seed))

	locale := &entities.Locale{
		ID:              uuid.New().String(),
		Name:            desc.Name,
		Type:            desc.Type,
		Description:     desc.Description,
		Coordinates:     entities.Coordinates{X: x, Y: y},
		Population:      rng.Intn(1000),
		SpecialFeatures: desc.SpecialFeatures,
	}

	race, err := p.pickPrimaryRace(ctx, store, rng)
	if err != nil {
		return nil, nil, err
	}
	if race != nil {
		locale.PrimaryRaceID = race.ID
	}

	results := make([]buildingResult, len(p.buildings))
	g, gctx := errgroup.WithContext(ctx)
	for i, building := range p.buildings {
		childSeed := seed + int64(i) + 1
		g.Go(func() error {
			res, err := p.populateBuilding(gctx, locale, building, race, childSeed)
			if err != nil {
				return fmt.Errorf("populating %s: %w", building, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var characters []*entities.Character
	for i, res := range results {
		b := entities.Building{Name: p.buildings[i]}
		for _, c := range res.roster {
			b.CharacterIDs = append(b.CharacterIDs, c.ID)
		}
		locale.Buildings = append(locale.Buildings, b)
		characters = append(characters, res.roster...)
		characters = append(characters, res.children...)
	}

	if err := store.SaveLocalePopulation(ctx, locale, characters); err != nil {
		return nil, nil, fmt.Errorf("committing locale %q: %w", locale.Name, err)
	}

	p.logger.Info("populated locale",
		"locale", locale.Name, "x", x, "y", y, "characters", len(characters))
	return locale, characters, nil
}

// populateBuilding generates one building's roster and expands its kinship
// graph. The roster ordering is the generation service's response ordering,
// which keeps matching deterministic for a given seed.
func (p *Populator) populateBuilding(ctx context.Context, locale *entities.Locale, building string, race *entities.Race, seed int64) (buildingResult, error) {
	descs, err := retryGeneration(ctx, func() ([]ports.CharacterDescriptor, error) {
		return p.generator.GenerateCharacters(ctx, locale, building, race)
	})
	if err != nil {
		return buildingResult{}, err
	}

	roster := make([]*entities.Character, 0, len(descs))
	for _, d := range descs {
		c, err := characterFromDescriptor(d, locale, building, race)
		if err != nil {
			return buildingResult{}, err
		}
		roster = append(roster, c)
	}

	// Coworker mesh across the building.
	for _, c := range roster {
		for _, other := range roster {
			if other.ID == c.ID {
				continue
			}
			c.AddRelationship(entities.Relationship{
				CharacterID: other.ID,
				Kind:        entities.RelationCoworker,
			})
		}
	}

	rng := rand.New(rand.NewSource(seed))
	pairs := PairSpouses(roster, p.match, rng)

	var children []*entities.Character
	for _, pair := range pairs {
		children = append(children, ExpandFamily(pair.A, pair.B, locale.ID, race, rng)...)
	}

	return buildingResult{roster: roster, children: children}, nil
}

// characterFromDescriptor validates a generated descriptor into a character
// record. A gender label outside the enum rejects the record before
// persistence.
func characterFromDescriptor(d ports.CharacterDescriptor, locale *entities.Locale, building string, race *entities.Race) (*entities.Character, error) {
	gender, ok := entities.ParseGender(d.Gender)
	if !ok {
		return nil, fmt.Errorf("%w: gender %q outside enum for character %q", entities.ErrValidation, d.Gender, d.Name)
	}

	raceName := d.Race
	if race != nil {
		raceName = race.Name
	}

	age := d.Age
	if age < 0 {
		age = 0
	}

	return &entities.Character{
		ID:            uuid.New().String(),
		Name:          d.Name,
		Title:         d.Title,
		Description:   d.Description,
		Personality:   d.Personality,
		Race:          raceName,
		Age:           age,
		Gender:        gender,
		LocaleID:      locale.ID,
		Building:      building,
		Role:          d.Role,
		Status:        "active",
		Relationships: []entities.Relationship{},
	}, nil
}

// pickPrimaryRace picks one of the tenant's races at random, or nil when no
// races exist yet.
func (p *Populator) pickPrimaryRace(ctx context.Context, store ports.Store, rng *rand.Rand) (*entities.Race, error) {
	races, err := store.ListRaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing races: %w", err)
	}
	if len(races) == 0 {
		return nil, nil
	}
	race := races[rng.Intn(len(races))]
	return &race, nil
}
