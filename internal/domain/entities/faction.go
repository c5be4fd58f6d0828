package entities

// FactionResources are coarse ratings generated alongside the faction.
type FactionResources struct {
	Wealth             string `json:"wealth"`
	MilitaryStrength   string `json:"military_strength"`
	PoliticalInfluence string `json:"political_influence"`
}

// Faction is an organized group within a world.
type Faction struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Alignment   string           `json:"alignment"`
	Resources   FactionResources `json:"resources"`
}
