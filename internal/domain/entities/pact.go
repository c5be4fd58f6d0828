package entities

import (
	"fmt"
	"strings"
)

// PactType is the fixed vocabulary for diplomatic relationships.
type PactType string

const (
	PactAlliance      PactType = "alliance"
	PactWar           PactType = "war"
	PactTrade         PactType = "trade"
	PactVassalage     PactType = "vassalage"
	PactRivalry       PactType = "rivalry"
	PactNonAggression PactType = "non-aggression"
)

var pactTypes = map[PactType]struct{}{
	PactAlliance:      {},
	PactWar:           {},
	PactTrade:         {},
	PactVassalage:     {},
	PactRivalry:       {},
	PactNonAggression: {},
}

// ParsePactType normalizes a generated pact type label against the vocabulary.
// Labels that do not normalize to a known value are a validation failure; an
// invalid pact must never reach the store.
func ParsePactType(s string) (PactType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.Join(strings.Fields(norm), " ")
	pt := PactType(norm)
	if _, ok := pactTypes[pt]; !ok {
		return "", fmt.Errorf("%w: unknown pact type %q", ErrValidation, s)
	}
	return pt, nil
}

// CanonicalPairKey builds an order-independent key for an unordered pair of
// faction ids: CanonicalPairKey(a, b) == CanonicalPairKey(b, a). The store
// keeps a uniqueness constraint on this key per tenant.
func CanonicalPairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// FactionPact records a diplomatic relationship between exactly two factions,
// backed by a chronological list of event ids. Faction ids are stored sorted
// so the pair is canonical on disk as well.
type FactionPact struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        PactType `json:"type"`
	FactionIDs  []string `json:"factions"`
	Description string   `json:"description"`
	EventIDs    []string `json:"events"`
}

// NewFactionPact validates the pair, sorts the faction ids and returns the
// pact. An id, name, type and description come from the caller.
func NewFactionPact(id, name string, pt PactType, factionA, factionB, description string) (*FactionPact, error) {
	if factionA == "" || factionB == "" || factionA == factionB {
		return nil, fmt.Errorf("%w: a pact must reference exactly two distinct factions", ErrValidation)
	}
	a, b := factionA, factionB
	if b < a {
		a, b = b, a
	}
	return &FactionPact{
		ID:          id,
		Name:        name,
		Type:        pt,
		FactionIDs:  []string{a, b},
		Description: description,
	}, nil
}

// PairKey returns the canonical key for the pact's faction pair.
func (p *FactionPact) PairKey() string {
	return CanonicalPairKey(p.FactionIDs[0], p.FactionIDs[1])
}
