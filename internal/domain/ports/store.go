package ports

import (
	"context"

	"github.com/ersonp/worldloom/internal/domain/entities"
)

// Store is one tenant's document store handle. Handles are long-lived, opened
// once per tenant by the router and reused for every operation on that tenant.
// Identifiers are assigned by the caller before insert so cross-references can
// be built ahead of persistence.
type Store interface {
	// EnsureSchema creates the tenant's collections and constraints if they
	// don't exist, including the unique index over the canonical faction pair.
	EnsureSchema(ctx context.Context) error

	// Close closes the handle.
	Close() error

	// SaveWorld persists the world mirror document.
	SaveWorld(ctx context.Context, world *entities.World) error

	// GetWorld returns the world mirror document, or nil if absent.
	GetWorld(ctx context.Context) (*entities.World, error)

	// InsertRace persists a race.
	InsertRace(ctx context.Context, race *entities.Race) error

	// GetRace returns a race by id, or nil if absent.
	GetRace(ctx context.Context, id string) (*entities.Race, error)

	// ListRaces returns all races of the tenant.
	ListRaces(ctx context.Context) ([]entities.Race, error)

	// InsertFaction persists a faction.
	InsertFaction(ctx context.Context, faction *entities.Faction) error

	// ListFactions returns all factions of the tenant.
	ListFactions(ctx context.Context) ([]entities.Faction, error)

	// InsertPact persists a faction pact. A uniqueness violation on the
	// canonical pair surfaces as entities.ErrDuplicatePactKey.
	InsertPact(ctx context.Context, pact *entities.FactionPact) error

	// ListPacts returns all faction pacts of the tenant.
	ListPacts(ctx context.Context) ([]entities.FactionPact, error)

	// InsertEvent persists a historical event.
	InsertEvent(ctx context.Context, event *entities.Event) error

	// GetLocaleAt returns the locale at the given coordinates, or nil.
	GetLocaleAt(ctx context.Context, x, y int) (*entities.Locale, error)

	// SaveLocalePopulation commits a locale together with its full character
	// roster in one transaction. Either everything commits or nothing does.
	SaveLocalePopulation(ctx context.Context, locale *entities.Locale, characters []*entities.Character) error

	// GetCharacter returns a character by id, or nil if absent.
	GetCharacter(ctx context.Context, id string) (*entities.Character, error)

	// ListCharactersByLocale returns all characters of a locale.
	ListCharactersByLocale(ctx context.Context, localeID string) ([]entities.Character, error)

	// DropNamespace deletes the tenant's entire storage namespace. The handle
	// is unusable afterwards.
	DropNamespace(ctx context.Context) error
}
