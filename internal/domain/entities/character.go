package entities

import "strings"

// Gender is the character gender enum.
type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderNonbinary Gender = "nonbinary"
	GenderUnknown   Gender = "unknown"
)

// ParseGender normalizes a generated gender label. An empty label maps to
// unknown; anything outside the enum is reported so the caller can reject the
// record before persistence.
func ParseGender(s string) (Gender, bool) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale, true
	case GenderFemale:
		return GenderFemale, true
	case GenderNonbinary:
		return GenderNonbinary, true
	case GenderUnknown, "":
		return GenderUnknown, true
	}
	return GenderUnknown, false
}

// Character is a person in a world. Age 0 means unset. Relationship edges are
// mutated only by the graph builders.
type Character struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Title         string         `json:"title,omitempty"`
	Description   string         `json:"description"`
	Personality   string         `json:"personality"`
	Race          string         `json:"race"`
	Age           int            `json:"age"`
	Gender        Gender         `json:"gender"`
	FactionID     string         `json:"faction_id,omitempty"`
	LocaleID      string         `json:"locale_id,omitempty"`
	Building      string         `json:"building,omitempty"`
	Role          string         `json:"role"`
	Status        string         `json:"status"`
	Relationships []Relationship `json:"relationships"`
}

// AddRelationship appends an edge to the character.
func (c *Character) AddRelationship(rel Relationship) {
	c.Relationships = append(c.Relationships, rel)
}

// FindRelationship returns a pointer to the first edge toward target with the
// given kind, or nil. The pointer aliases the character's slice so callers can
// mutate the edge in place (spouse shared-children bookkeeping relies on this).
func (c *Character) FindRelationship(targetID string, kind RelationKind) *Relationship {
	for i := range c.Relationships {
		if c.Relationships[i].CharacterID == targetID && c.Relationships[i].Kind == kind {
			return &c.Relationships[i]
		}
	}
	return nil
}
