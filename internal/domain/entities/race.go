package entities

// SizeRange is the typical height range for a race.
type SizeRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Physiology holds the biological parameters of a race. Lifespan drives the
// family expansion fertility window.
type Physiology struct {
	Lifespan  int       `json:"lifespan"`
	SizeRange SizeRange `json:"size_range"`
	Diet      string    `json:"diet"`
}

// Race describes one species of a world.
type Race struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Classification    string     `json:"classification"`
	Physiology        Physiology `json:"physiology"`
	SocietalStructure string     `json:"societal_structure"`
}

// DefaultLifespan is used when a race carries no lifespan.
const DefaultLifespan = 80

// LifespanOrDefault returns the race's lifespan, falling back to the default
// when the race is nil or the generated value is missing.
func (r *Race) LifespanOrDefault() int {
	if r == nil || r.Physiology.Lifespan <= 0 {
		return DefaultLifespan
	}
	return r.Physiology.Lifespan
}
