// Package services contains the relationship-graph builders and the world
// population orchestration. The graph builders are pure and storage-agnostic:
// they mutate in-memory character records and leave persistence to the caller.
package services

import (
	"math/rand"

	"github.com/ersonp/worldloom/internal/domain/entities"
)

// MatchConfig bounds spouse matching.
type MatchConfig struct {
	// MinMarriageAge is the minimum age to be eligible for matching.
	MinMarriageAge int
	// MaxAgeGap is the maximum allowed age difference between spouses.
	MaxAgeGap int
	// MaxMarriageLength caps the sampled marriage duration in years.
	MaxMarriageLength int
}

// DefaultMatchConfig returns the matching bounds used by locale population.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		MinMarriageAge:    18,
		MaxAgeGap:         10,
		MaxMarriageLength: 40,
	}
}

// MarriedPair is one newly created marriage, in matching order.
type MarriedPair struct {
	A *entities.Character
	B *entities.Character
}

// PairSpouses matches eligible characters into marriages using greedy
// first-fit: iterate the male group in input order, and for each unmatched
// member accept the first female candidate (again in input order) within the
// age gap. Matching is not globally optimal and each character marries at
// most once. Nonbinary and unknown-gender characters are not auto-paired.
//
// The result depends on input ordering and on rng, so callers must pass a
// seeded request-scoped source. Already-related characters are not filtered
// out; rosters arriving here are freshly generated and unrelated, and the
// permissive behavior is intentional (see TestPairSpouses_AllowsRelatedCharacters).
//
// On acceptance both characters gain reciprocal spouse edges carrying the
// sampled duration and an empty shared-children list.
func PairSpouses(characters []*entities.Character, cfg MatchConfig, rng *rand.Rand) []MarriedPair {
	var males, females []*entities.Character
	for _, c := range characters {
		if c.Age < cfg.MinMarriageAge {
			continue
		}
		switch c.Gender {
		case entities.GenderMale:
			males = append(males, c)
		case entities.GenderFemale:
			females = append(females, c)
		}
	}

	matched := make(map[string]bool)
	var pairs []MarriedPair

	for _, m := range males {
		if matched[m.ID] {
			continue
		}
		for _, f := range females {
			if matched[f.ID] {
				continue
			}
			gap := m.Age - f.Age
			if gap < 0 {
				gap = -gap
			}
			if gap > cfg.MaxAgeGap {
				continue
			}

			since := sampleMarriageDuration(m.Age, f.Age, cfg, rng)
			marry(m, f, since)
			matched[m.ID] = true
			matched[f.ID] = true
			pairs = append(pairs, MarriedPair{A: m, B: f})
			break
		}
	}

	return pairs
}

// sampleMarriageDuration draws a duration uniformly from [1, bound] where
// bound = min(ageA-min, ageB-min, maxLen). When a spouse is exactly at the
// minimum marriage age the interval would be empty, so the bound is clamped
// to 1.
func sampleMarriageDuration(ageA, ageB int, cfg MatchConfig, rng *rand.Rand) int {
	bound := ageA - cfg.MinMarriageAge
	if b := ageB - cfg.MinMarriageAge; b < bound {
		bound = b
	}
	if cfg.MaxMarriageLength < bound {
		bound = cfg.MaxMarriageLength
	}
	if bound < 1 {
		bound = 1
	}
	return 1 + rng.Intn(bound)
}

// marry writes the reciprocal spouse edges.
func marry(a, b *entities.Character, since int) {
	a.AddRelationship(entities.Relationship{
		CharacterID:    b.ID,
		Kind:           entities.RelationSpouse,
		Since:          since,
		SharedChildren: []string{},
	})
	b.AddRelationship(entities.Relationship{
		CharacterID:    a.ID,
		Kind:           entities.RelationSpouse,
		Since:          since,
		SharedChildren: []string{},
	})
}
