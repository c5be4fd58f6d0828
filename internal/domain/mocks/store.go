package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/ersonp/worldloom/internal/domain/entities"
)

// Store is an in-memory mock implementation of ports.Store. It enforces the
// canonical pair uniqueness the way the real store does, so duplicate-pact
// behavior can be unit tested without sqlite.
type Store struct {
	mu sync.Mutex

	World      *entities.World
	Races      []entities.Race
	Factions   []entities.Faction
	Pacts      []entities.FactionPact
	Events     []entities.Event
	Locales    []entities.Locale
	Characters []entities.Character

	Closed  bool
	Dropped bool

	Err            error
	InsertEventErr error
}

// NewStore creates a new mock Store.
func NewStore() *Store {
	return &Store{}
}

// EnsureSchema creates the schema if it doesn't exist.
func (m *Store) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close closes the handle.
func (m *Store) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// SaveWorld persists the world mirror document.
func (m *Store) SaveWorld(_ context.Context, world *entities.World) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.World = world
	return nil
}

// GetWorld returns the world mirror document, or nil.
func (m *Store) GetWorld(_ context.Context) (*entities.World, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.World, nil
}

// InsertRace persists a race.
func (m *Store) InsertRace(_ context.Context, race *entities.Race) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Races = append(m.Races, *race)
	return nil
}

// GetRace returns a race by id, or nil.
func (m *Store) GetRace(_ context.Context, id string) (*entities.Race, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Races {
		if m.Races[i].ID == id {
			return &m.Races[i], nil
		}
	}
	return nil, nil
}

// ListRaces returns all races.
func (m *Store) ListRaces(_ context.Context) ([]entities.Race, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.Race(nil), m.Races...), nil
}

// InsertFaction persists a faction.
func (m *Store) InsertFaction(_ context.Context, faction *entities.Faction) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Factions = append(m.Factions, *faction)
	return nil
}

// ListFactions returns all factions.
func (m *Store) ListFactions(_ context.Context) ([]entities.Faction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.Faction(nil), m.Factions...), nil
}

// InsertPact persists a pact, enforcing canonical pair uniqueness.
func (m *Store) InsertPact(_ context.Context, pact *entities.FactionPact) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Pacts {
		if m.Pacts[i].PairKey() == pact.PairKey() {
			return fmt.Errorf("%w: %s", entities.ErrDuplicatePactKey, pact.PairKey())
		}
	}
	m.Pacts = append(m.Pacts, *pact)
	return nil
}

// ListPacts returns all pacts.
func (m *Store) ListPacts(_ context.Context) ([]entities.FactionPact, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.FactionPact(nil), m.Pacts...), nil
}

// InsertEvent persists an event.
func (m *Store) InsertEvent(_ context.Context, event *entities.Event) error {
	if m.InsertEventErr != nil {
		return m.InsertEventErr
	}
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, *event)
	return nil
}

// GetLocaleAt returns the locale at the coordinates, or nil.
func (m *Store) GetLocaleAt(_ context.Context, x, y int) (*entities.Locale, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Locales {
		if m.Locales[i].Coordinates.X == x && m.Locales[i].Coordinates.Y == y {
			return &m.Locales[i], nil
		}
	}
	return nil, nil
}

// SaveLocalePopulation commits a locale and its characters together.
func (m *Store) SaveLocalePopulation(_ context.Context, locale *entities.Locale, characters []*entities.Character) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Locales = append(m.Locales, *locale)
	for _, c := range characters {
		m.Characters = append(m.Characters, *c)
	}
	return nil
}

// GetCharacter returns a character by id, or nil.
func (m *Store) GetCharacter(_ context.Context, id string) (*entities.Character, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Characters {
		if m.Characters[i].ID == id {
			return &m.Characters[i], nil
		}
	}
	return nil, nil
}

// ListCharactersByLocale returns all characters of a locale.
func (m *Store) ListCharactersByLocale(_ context.Context, localeID string) ([]entities.Character, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entities.Character
	for i := range m.Characters {
		if m.Characters[i].LocaleID == localeID {
			out = append(out, m.Characters[i])
		}
	}
	return out, nil
}

// DropNamespace deletes the tenant's storage namespace.
func (m *Store) DropNamespace(_ context.Context) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dropped = true
	return nil
}
