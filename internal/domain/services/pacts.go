package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ersonp/worldloom/internal/domain/entities"
	"github.com/ersonp/worldloom/internal/domain/ports"
)

// FactionPair is an unordered pair of factions missing a pact.
type FactionPair struct {
	A entities.Faction
	B entities.Faction
}

// FindMissingPairs returns every unordered pair of distinct factions whose
// canonical key is absent from the existing pacts. The scan is O(n²) over the
// faction count, which stays small per tenant.
func FindMissingPairs(factions []entities.Faction, existing []entities.FactionPact) []FactionPair {
	present := make(map[string]struct{}, len(existing))
	for i := range existing {
		present[existing[i].PairKey()] = struct{}{}
	}

	var missing []FactionPair
	for i := 0; i < len(factions); i++ {
		for j := i + 1; j < len(factions); j++ {
			key := entities.CanonicalPairKey(factions[i].ID, factions[j].ID)
			if _, ok := present[key]; ok {
				continue
			}
			missing = append(missing, FactionPair{A: factions[i], B: factions[j]})
		}
	}
	return missing
}

// PactCompleter ensures every unordered pair of factions within a tenant has
// exactly one pact. The in-memory missing-pair check only avoids redundant
// generation calls; the store's uniqueness constraint on the canonical pair is
// the real invariant enforcer, so a concurrent completion pass losing the
// insert race is downgraded to a skip.
type PactCompleter struct {
	generator ports.Generator
	logger    *slog.Logger
}

// NewPactCompleter creates a PactCompleter.
func NewPactCompleter(generator ports.Generator, logger *slog.Logger) *PactCompleter {
	return &PactCompleter{generator: generator, logger: logger}
}

// CompleteMissing generates and persists a pact for every faction pair that
// does not have one yet. Returns the pacts inserted by this pass.
func (p *PactCompleter) CompleteMissing(ctx context.Context, store ports.Store, world *entities.World) ([]*entities.FactionPact, error) {
	factions, err := store.ListFactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing factions: %w", err)
	}
	existing, err := store.ListPacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pacts: %w", err)
	}

	missing := FindMissingPairs(factions, existing)
	if len(missing) == 0 {
		return nil, nil
	}

	inserted := make([]*entities.FactionPact, 0, len(missing))
	for _, pair := range missing {
		pact, err := p.completePair(ctx, store, world, pair)
		if err != nil {
			return inserted, err
		}
		if pact != nil {
			inserted = append(inserted, pact)
		}
	}
	return inserted, nil
}

// completePair generates one pact narrative and persists it. Each historical
// event is inserted independently: a failed event is logged and skipped so the
// pact still lands with whatever event references succeeded. A duplicate pair
// key means another pass already completed this pair; that returns (nil, nil).
func (p *PactCompleter) completePair(ctx context.Context, store ports.Store, world *entities.World, pair FactionPair) (*entities.FactionPact, error) {
	desc, err := p.generator.GeneratePact(ctx, world, &pair.A, &pair.B)
	if err != nil {
		return nil, fmt.Errorf("generating pact for %s and %s: %w", pair.A.Name, pair.B.Name, err)
	}

	pactType, err := entities.ParsePactType(desc.Type)
	if err != nil {
		return nil, err
	}

	eventIDs := make([]string, 0, len(desc.Events))
	for _, ev := range desc.Events {
		event := &entities.Event{
			ID:          uuid.New().String(),
			Name:        ev.Name,
			Description: ev.Description,
			RealDate:    ev.RealDate,
		}
		if err := store.InsertEvent(ctx, event); err != nil {
			p.logger.Warn("skipping pact event that failed to insert",
				"pact", desc.Name, "event", ev.Name, "error", err)
			continue
		}
		eventIDs = append(eventIDs, event.ID)
	}

	pact, err := entities.NewFactionPact(uuid.New().String(), desc.Name, pactType, pair.A.ID, pair.B.ID, desc.Description)
	if err != nil {
		return nil, err
	}
	pact.EventIDs = eventIDs

	if err := store.InsertPact(ctx, pact); err != nil {
		if errors.Is(err, entities.ErrDuplicatePactKey) {
			p.logger.Debug("pact already exists, skipping",
				"factions", pact.FactionIDs, "key", pact.PairKey())
			return nil, nil
		}
		return nil, fmt.Errorf("inserting pact %q: %w", pact.Name, err)
	}

	return pact, nil
}
