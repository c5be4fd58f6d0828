// Package sqlite provides a SQLite implementation of the per-tenant Store.
// Each tenant owns one database file, which is its isolated storage namespace.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	sqlite3 "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/worldloom/internal/domain/entities"
)

// sqliteConstraintUnique is the extended result code for a unique index
// violation (SQLITE_CONSTRAINT_UNIQUE).
const sqliteConstraintUnique = 2067

// Store implements ports.Store for one tenant.
type Store struct {
	db     *sql.DB
	dir    string
	logger *slog.Logger
}

// Open opens (or creates) the tenant database under dir.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("store directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "world.db"))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Store{db: db, dir: dir, logger: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the tenant's namespace directory.
func (s *Store) Dir() string {
	return s.dir
}

// EnsureSchema creates the tenant's collections if they don't exist. The
// unique index over pair_key on faction_pacts enforces at most one pact per
// unordered faction pair; it is the authoritative guard against the
// check-then-insert race in pact completion.
func (s *Store) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS worlds (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		world_building TEXT NOT NULL,
		current_year INTEGER NOT NULL,
		creator TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS races (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		classification TEXT NOT NULL,
		lifespan INTEGER NOT NULL,
		size_min REAL NOT NULL,
		size_max REAL NOT NULL,
		diet TEXT NOT NULL,
		societal_structure TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS factions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		alignment TEXT NOT NULL,
		wealth TEXT NOT NULL,
		military_strength TEXT NOT NULL,
		political_influence TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS faction_pacts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		faction_a TEXT NOT NULL,
		faction_b TEXT NOT NULL,
		pair_key TEXT NOT NULL,
		description TEXT NOT NULL,
		event_ids TEXT NOT NULL,
		UNIQUE(pair_key)
	);
	CREATE INDEX IF NOT EXISTS idx_pacts_faction_a ON faction_pacts(faction_a);
	CREATE INDEX IF NOT EXISTS idx_pacts_faction_b ON faction_pacts(faction_b);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		real_date TEXT
	);

	CREATE TABLE IF NOT EXISTS locales (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		description TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		population INTEGER NOT NULL,
		primary_race_id TEXT,
		special_features TEXT NOT NULL,
		buildings TEXT NOT NULL,
		UNIQUE(x, y)
	);

	CREATE TABLE IF NOT EXISTS characters (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL,
		personality TEXT NOT NULL,
		race TEXT NOT NULL,
		age INTEGER NOT NULL,
		gender TEXT NOT NULL,
		faction_id TEXT,
		locale_id TEXT,
		building TEXT,
		role TEXT NOT NULL,
		status TEXT NOT NULL,
		relationships TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_characters_locale ON characters(locale_id);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: creating schema: %v", entities.ErrStorage, err)
	}
	return nil
}

// SaveWorld persists the world mirror document.
func (s *Store) SaveWorld(ctx context.Context, world *entities.World) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO worlds (id, name, world_building, current_year, creator, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			world_building = excluded.world_building,
			current_year = excluded.current_year`,
		world.ID, world.Name, world.WorldBuilding, world.CurrentYear, world.Creator, world.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: saving world: %v", entities.ErrStorage, err)
	}
	return nil
}

// GetWorld returns the world mirror document, or nil if absent.
func (s *Store) GetWorld(ctx context.Context) (*entities.World, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, world_building, current_year, creator, created_at
		FROM worlds LIMIT 1`)

	var w entities.World
	err := row.Scan(&w.ID, &w.Name, &w.WorldBuilding, &w.CurrentYear, &w.Creator, &w.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: fetching world: %v", entities.ErrStorage, err)
	}
	return &w, nil
}

// InsertRace persists a race.
func (s *Store) InsertRace(ctx context.Context, race *entities.Race) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO races (id, name, classification, lifespan, size_min, size_max, diet, societal_structure)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		race.ID, race.Name, race.Classification, race.Physiology.Lifespan,
		race.Physiology.SizeRange.Min, race.Physiology.SizeRange.Max,
		race.Physiology.Diet, race.SocietalStructure)
	if err != nil {
		return fmt.Errorf("%w: inserting race: %v", entities.ErrStorage, err)
	}
	return nil
}

// GetRace returns a race by id, or nil if absent.
func (s *Store) GetRace(ctx context.Context, id string) (*entities.Race, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, classification, lifespan, size_min, size_max, diet, societal_structure
		FROM races WHERE id = ?`, id)

	race, err := scanRace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: fetching race: %v", entities.ErrStorage, err)
	}
	return race, nil
}

// ListRaces returns all races of the tenant.
func (s *Store) ListRaces(ctx context.Context) ([]entities.Race, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, classification, lifespan, size_min, size_max, diet, societal_structure
		FROM races ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing races: %v", entities.ErrStorage, err)
	}
	defer rows.Close()

	var races []entities.Race
	for rows.Next() {
		race, err := scanRace(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning race: %v", entities.ErrStorage, err)
		}
		races = append(races, *race)
	}
	return races, rows.Err()
}

// InsertFaction persists a faction.
func (s *Store) InsertFaction(ctx context.Context, faction *entities.Faction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO factions (id, name, description, alignment, wealth, military_strength, political_influence)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		faction.ID, faction.Name, faction.Description, faction.Alignment,
		faction.Resources.Wealth, faction.Resources.MilitaryStrength, faction.Resources.PoliticalInfluence)
	if err != nil {
		return fmt.Errorf("%w: inserting faction: %v", entities.ErrStorage, err)
	}
	return nil
}

// ListFactions returns all factions of the tenant.
func (s *Store) ListFactions(ctx context.Context) ([]entities.Faction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, alignment, wealth, military_strength, political_influence
		FROM factions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing factions: %v", entities.ErrStorage, err)
	}
	defer rows.Close()

	var factions []entities.Faction
	for rows.Next() {
		var f entities.Faction
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.Alignment,
			&f.Resources.Wealth, &f.Resources.MilitaryStrength, &f.Resources.PoliticalInfluence); err != nil {
			return nil, fmt.Errorf("%w: scanning faction: %v", entities.ErrStorage, err)
		}
		factions = append(factions, f)
	}
	return factions, rows.Err()
}

// InsertPact persists a faction pact. A violation of the canonical pair
// uniqueness index maps to entities.ErrDuplicatePactKey so completion passes
// can treat the lost race as a benign skip.
func (s *Store) InsertPact(ctx context.Context, pact *entities.FactionPact) error {
	eventIDs, err := json.Marshal(pact.EventIDs)
	if err != nil {
		return fmt.Errorf("%w: marshaling event ids: %v", entities.ErrStorage, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO faction_pacts (id, name, type, faction_a, faction_b, pair_key, description, event_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		pact.ID, pact.Name, string(pact.Type),
		pact.FactionIDs[0], pact.FactionIDs[1], pact.PairKey(),
		pact.Description, string(eventIDs))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", entities.ErrDuplicatePactKey, pact.PairKey())
		}
		s.logger.Error("failed to insert pact", "pact", pact, "error", err)
		return fmt.Errorf("%w: inserting pact: %v", entities.ErrStorage, err)
	}
	return nil
}

// ListPacts returns all faction pacts of the tenant.
func (s *Store) ListPacts(ctx context.Context) ([]entities.FactionPact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, faction_a, faction_b, description, event_ids
		FROM faction_pacts`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing pacts: %v", entities.ErrStorage, err)
	}
	defer rows.Close()

	var pacts []entities.FactionPact
	for rows.Next() {
		var p entities.FactionPact
		var pactType, factionA, factionB, eventIDs string
		if err := rows.Scan(&p.ID, &p.Name, &pactType, &factionA, &factionB, &p.Description, &eventIDs); err != nil {
			return nil, fmt.Errorf("%w: scanning pact: %v", entities.ErrStorage, err)
		}
		p.Type = entities.PactType(pactType)
		p.FactionIDs = []string{factionA, factionB}
		if err := json.Unmarshal([]byte(eventIDs), &p.EventIDs); err != nil {
			return nil, fmt.Errorf("%w: unmarshaling event ids: %v", entities.ErrStorage, err)
		}
		pacts = append(pacts, p)
	}
	return pacts, rows.Err()
}

// InsertEvent persists a historical event.
func (s *Store) InsertEvent(ctx context.Context, event *entities.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, name, description, real_date)
		VALUES (?, ?, ?, ?)`,
		event.ID, event.Name, event.Description, event.RealDate)
	if err != nil {
		return fmt.Errorf("%w: inserting event: %v", entities.ErrStorage, err)
	}
	return nil
}

// GetLocaleAt returns the locale at the given coordinates, or nil.
func (s *Store) GetLocaleAt(ctx context.Context, x, y int) (*entities.Locale, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, description, x, y, population, primary_race_id, special_features, buildings
		FROM locales WHERE x = ? AND y = ?`, x, y)

	locale, err := scanLocale(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: fetching locale: %v", entities.ErrStorage, err)
	}
	return locale, nil
}

// SaveLocalePopulation commits a locale together with its full character
// roster in one transaction. A failure anywhere rolls the whole locale back;
// a locale is never partially committed.
func (s *Store) SaveLocalePopulation(ctx context.Context, locale *entities.Locale, characters []*entities.Character) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", entities.ErrStorage, err)
	}
	defer tx.Rollback()

	features, err := json.Marshal(locale.SpecialFeatures)
	if err != nil {
		return fmt.Errorf("%w: marshaling special features: %v", entities.ErrStorage, err)
	}
	buildings, err := json.Marshal(locale.Buildings)
	if err != nil {
		return fmt.Errorf("%w: marshaling buildings: %v", entities.ErrStorage, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO locales (id, name, type, description, x, y, population, primary_race_id, special_features, buildings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		locale.ID, locale.Name, locale.Type, locale.Description,
		locale.Coordinates.X, locale.Coordinates.Y, locale.Population,
		nullable(locale.PrimaryRaceID), string(features), string(buildings)); err != nil {
		return fmt.Errorf("%w: inserting locale: %v", entities.ErrStorage, err)
	}

	for _, c := range characters {
		relationships, err := json.Marshal(c.Relationships)
		if err != nil {
			return fmt.Errorf("%w: marshaling relationships: %v", entities.ErrStorage, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO characters (id, name, title, description, personality, race, age, gender,
				faction_id, locale_id, building, role, status, relationships)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Title, c.Description, c.Personality, c.Race, c.Age, string(c.Gender),
			nullable(c.FactionID), nullable(c.LocaleID), nullable(c.Building), c.Role, c.Status,
			string(relationships)); err != nil {
			return fmt.Errorf("%w: inserting character %q: %v", entities.ErrStorage, c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing locale: %v", entities.ErrStorage, err)
	}
	return nil
}

// GetCharacter returns a character by id, or nil if absent.
func (s *Store) GetCharacter(ctx context.Context, id string) (*entities.Character, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, title, description, personality, race, age, gender,
			faction_id, locale_id, building, role, status, relationships
		FROM characters WHERE id = ?`, id)

	c, err := scanCharacter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: fetching character: %v", entities.ErrStorage, err)
	}
	return c, nil
}

// ListCharactersByLocale returns all characters of a locale.
func (s *Store) ListCharactersByLocale(ctx context.Context, localeID string) ([]entities.Character, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, title, description, personality, race, age, gender,
			faction_id, locale_id, building, role, status, relationships
		FROM characters WHERE locale_id = ?`, localeID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing characters: %v", entities.ErrStorage, err)
	}
	defer rows.Close()

	var characters []entities.Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning character: %v", entities.ErrStorage, err)
		}
		characters = append(characters, *c)
	}
	return characters, rows.Err()
}

// DropNamespace closes the handle and deletes the tenant's entire namespace
// directory, including the WAL sidecar files.
func (s *Store) DropNamespace(ctx context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: closing database: %v", entities.ErrStorage, err)
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("%w: removing namespace: %v", entities.ErrStorage, err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRace(row scanner) (*entities.Race, error) {
	var r entities.Race
	if err := row.Scan(&r.ID, &r.Name, &r.Classification, &r.Physiology.Lifespan,
		&r.Physiology.SizeRange.Min, &r.Physiology.SizeRange.Max,
		&r.Physiology.Diet, &r.SocietalStructure); err != nil {
		return nil, err
	}
	return &r, nil
}

func scanLocale(row scanner) (*entities.Locale, error) {
	var l entities.Locale
	var primaryRace sql.NullString
	var features, buildings string
	if err := row.Scan(&l.ID, &l.Name, &l.Type, &l.Description,
		&l.Coordinates.X, &l.Coordinates.Y, &l.Population,
		&primaryRace, &features, &buildings); err != nil {
		return nil, err
	}
	l.PrimaryRaceID = primaryRace.String
	if err := json.Unmarshal([]byte(features), &l.SpecialFeatures); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(buildings), &l.Buildings); err != nil {
		return nil, err
	}
	return &l, nil
}

func scanCharacter(row scanner) (*entities.Character, error) {
	var c entities.Character
	var gender string
	var factionID, localeID, building sql.NullString
	var relationships string
	if err := row.Scan(&c.ID, &c.Name, &c.Title, &c.Description, &c.Personality,
		&c.Race, &c.Age, &gender, &factionID, &localeID, &building,
		&c.Role, &c.Status, &relationships); err != nil {
		return nil, err
	}
	c.Gender = entities.Gender(gender)
	c.FactionID = factionID.String
	c.LocaleID = localeID.String
	c.Building = building.String
	if err := json.Unmarshal([]byte(relationships), &c.Relationships); err != nil {
		return nil, err
	}
	return &c, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// isUniqueViolation reports whether err is a sqlite unique index violation.
func isUniqueViolation(err error) bool {
	var se *sqlite3.Error
	return errors.As(err, &se) && se.Code() == sqliteConstraintUnique
}
