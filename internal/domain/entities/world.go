// Package entities contains core domain data structures.
package entities

import "time"

// World is one simulated world. Each world is an isolated tenant with its own
// storage namespace; the world id doubles as the tenant id.
type World struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	WorldBuilding string    `json:"world_building"`
	CurrentYear   int       `json:"current_year"`
	Creator       string    `json:"creator"`
	CreatedAt     time.Time `json:"created_at"`
}
