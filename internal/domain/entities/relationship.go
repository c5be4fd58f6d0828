package entities

// RelationKind defines the kind of connection a relationship edge carries.
type RelationKind string

const (
	RelationSpouse   RelationKind = "spouse"
	RelationParent   RelationKind = "parent"
	RelationChild    RelationKind = "child"
	RelationSibling  RelationKind = "sibling"
	RelationCoworker RelationKind = "coworker"
)

// reciprocals maps each relationship kind to the kind the opposite edge must
// carry. Spouse, sibling and coworker pair with themselves; parent and child
// pair with each other.
var reciprocals = map[RelationKind]RelationKind{
	RelationSpouse:   RelationSpouse,
	RelationParent:   RelationChild,
	RelationChild:    RelationParent,
	RelationSibling:  RelationSibling,
	RelationCoworker: RelationCoworker,
}

// Reciprocal returns the kind the reverse edge must carry, and whether the
// kind participates in the reciprocal-pair invariant.
func (k RelationKind) Reciprocal() (RelationKind, bool) {
	r, ok := reciprocals[k]
	return r, ok
}

// Relationship is a directed edge attached to the character that holds it.
// Symmetric kinds must always be written as reciprocal pairs in one commit.
type Relationship struct {
	CharacterID    string       `json:"character_id"`
	Kind           RelationKind `json:"connection"`
	Since          int          `json:"since,omitempty"`
	SharedChildren []string     `json:"shared_children,omitempty"`
	Notes          string       `json:"notes,omitempty"`
}
