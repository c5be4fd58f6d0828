package entities

// Coordinates place a locale on the world map.
type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Building is one populated structure inside a locale. It owns the ids of the
// characters generated for it.
type Building struct {
	Name         string   `json:"name"`
	CharacterIDs []string `json:"character_ids"`
}

// Locale is a place holding population and building slots.
type Locale struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Type            string      `json:"type"`
	Description     string      `json:"description"`
	Coordinates     Coordinates `json:"coordinates"`
	Population      int         `json:"population"`
	PrimaryRaceID   string      `json:"primary_race_id,omitempty"`
	SpecialFeatures []string    `json:"special_features,omitempty"`
	Buildings       []Building  `json:"buildings"`
}
