// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/ersonp/worldloom/internal/domain/entities"
)

// WorldDescriptor is the raw shape returned for a new world.
type WorldDescriptor struct {
	Name          string `json:"name"`
	WorldBuilding string `json:"worldBuilding"`
}

// RaceDescriptor is the raw shape returned for a race.
type RaceDescriptor struct {
	Name           string `json:"name"`
	Classification string `json:"classification"`
	Physiology     struct {
		Lifespan  int `json:"lifespan"`
		SizeRange struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"size_range"`
		Diet string `json:"diet"`
	} `json:"physiology"`
	Intelligence struct {
		SocietalStructure string `json:"societal_structure"`
	} `json:"intelligence"`
}

// FactionDescriptor is the raw shape returned for a faction.
type FactionDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Alignment   string `json:"alignment"`
	Resources   struct {
		Wealth             string `json:"wealth"`
		MilitaryStrength   string `json:"military_strength"`
		PoliticalInfluence string `json:"political_influence"`
	} `json:"resources"`
}

// LocaleDescriptor is the raw shape returned for a locale.
type LocaleDescriptor struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Description     string   `json:"description"`
	SpecialFeatures []string `json:"special_features"`
}

// CharacterDescriptor is the raw shape returned for one character of a
// building roster.
type CharacterDescriptor struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Role        string `json:"role"`
	Description string `json:"description"`
	Personality string `json:"personality"`
	Race        string `json:"race"`
	Gender      string `json:"gender"`
	Age         int    `json:"age"`
}

// EventDescriptor is one historical event inside a pact descriptor.
type EventDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	RealDate    string `json:"realDate"`
}

// PactDescriptor is the raw shape returned for a faction pact, including its
// chronological history.
type PactDescriptor struct {
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	Description string            `json:"description"`
	Events      []EventDescriptor `json:"events"`
}

// Generator turns structured prompts into content descriptors. Implementations
// own the prompt text and the repair contract for the untrusted response text;
// they must surface entities.ErrGeneration rather than fabricate data.
type Generator interface {
	// GenerateWorld generates a new world name and backstory.
	GenerateWorld(ctx context.Context) (*WorldDescriptor, error)

	// GenerateRaces generates count races fitting the world.
	GenerateRaces(ctx context.Context, world *entities.World, count int) ([]RaceDescriptor, error)

	// GenerateFactions generates count factions fitting the world.
	GenerateFactions(ctx context.Context, world *entities.World, count int) ([]FactionDescriptor, error)

	// GenerateLocale generates a locale descriptor for map coordinates.
	GenerateLocale(ctx context.Context, world *entities.World, x, y int) (*LocaleDescriptor, error)

	// GenerateCharacters generates the 2-4 character roster of one building.
	GenerateCharacters(ctx context.Context, locale *entities.Locale, building string, race *entities.Race) ([]CharacterDescriptor, error)

	// GeneratePact generates a pact narrative between two factions.
	GeneratePact(ctx context.Context, world *entities.World, a, b *entities.Faction) (*PactDescriptor, error)
}
