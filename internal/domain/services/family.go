package services

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/ersonp/worldloom/internal/domain/entities"
)

// Fertility constants shared by every race; only lifespan varies per race.
const (
	minChildbearingAge   = 16
	childbearingInterval = 2 // average years between children
)

// ExpandFamily derives children for one married pair. The number of children
// is bounded by the overlap of the marriage duration and both parents'
// fertile windows:
//
//	fertileYears       = min(since, ageA-16, ageB-16, lifespan/2-16)
//	maxPossibleChildren = min(fertileYears/2, (lifespan/2-16)/2)
//
// Children get an age within the fertile window, a fair-coin gender and the
// mother's race. Reciprocal parent/child edges are added for both parents,
// each parent's spouse edge gains the child in its shared-children list, and
// all children of the batch are meshed with sibling edges.
//
// The returned child records are not yet persisted. The two parent records are
// mutated in memory; callers must persist parents and children together.
func ExpandFamily(parentA, parentB *entities.Character, localeID string, race *entities.Race, rng *rand.Rand) []*entities.Character {
	lifespan := race.LifespanOrDefault()
	maxChildbearingAge := lifespan / 2
	maxChildrenByLifespan := (maxChildbearingAge - minChildbearingAge) / childbearingInterval
	if maxChildrenByLifespan < 0 {
		maxChildrenByLifespan = 0
	}

	yearsMarried := 0
	if rel := parentA.FindRelationship(parentB.ID, entities.RelationSpouse); rel != nil {
		yearsMarried = rel.Since
	}

	fertileYears := minInt(
		yearsMarried,
		parentA.Age-minChildbearingAge,
		parentB.Age-minChildbearingAge,
		maxChildbearingAge-minChildbearingAge,
	)
	if fertileYears < 1 {
		return nil
	}

	maxPossibleChildren := fertileYears / childbearingInterval
	if maxChildrenByLifespan < maxPossibleChildren {
		maxPossibleChildren = maxChildrenByLifespan
	}
	numChildren := rng.Intn(maxPossibleChildren + 1)

	children := make([]*entities.Character, 0, numChildren)
	for i := 0; i < numChildren; i++ {
		children = append(children, newChild(parentA, parentB, localeID, fertileYears, rng))
	}

	for _, child := range children {
		linkParents(parentA, parentB, child)
	}

	// Full sibling mesh; symmetric by construction, no reciprocal gap possible.
	for _, child := range children {
		for _, sibling := range children {
			if sibling.ID == child.ID {
				continue
			}
			child.AddRelationship(entities.Relationship{
				CharacterID: sibling.ID,
				Kind:        entities.RelationSibling,
			})
		}
	}

	return children
}

// newChild builds one child record. The age bound reuses the fertile window so
// every child was born within the marriage.
func newChild(parentA, parentB *entities.Character, localeID string, maxChildAge int, rng *rand.Rand) *entities.Character {
	age := 1 + rng.Intn(maxChildAge)

	gender := entities.GenderMale
	if rng.Intn(2) == 1 {
		gender = entities.GenderFemale
	}

	return &entities.Character{
		ID:            uuid.New().String(),
		Name:          "(Child)",
		Description:   fmt.Sprintf("A young %s child born to %s and %s.", gender, parentA.Name, parentB.Name),
		Personality:   "Still developing.",
		Race:          motherRace(parentA, parentB),
		Gender:        gender,
		Age:           age,
		LocaleID:      localeID,
		Role:          "child",
		Status:        "active",
		Relationships: []entities.Relationship{},
	}
}

// linkParents writes the reciprocal parent/child edges and records the child
// on both spouse edges.
func linkParents(parentA, parentB *entities.Character, child *entities.Character) {
	parents := [2]*entities.Character{parentA, parentB}
	for i, parent := range parents {
		parent.AddRelationship(entities.Relationship{
			CharacterID: child.ID,
			Kind:        entities.RelationChild,
		})
		child.AddRelationship(entities.Relationship{
			CharacterID: parent.ID,
			Kind:        entities.RelationParent,
		})

		other := parents[1-i]
		if rel := parent.FindRelationship(other.ID, entities.RelationSpouse); rel != nil {
			rel.SharedChildren = append(rel.SharedChildren, child.ID)
		}
	}
}

// motherRace returns the female parent's race, falling back to parentA's.
func motherRace(parentA, parentB *entities.Character) string {
	if parentB.Gender == entities.GenderFemale {
		return parentB.Race
	}
	return parentA.Race
}

func minInt(first int, rest ...int) int {
	m := first
	for _, v := range rest {
		if v < m {
			m = v
		}
	}
	return m
}
