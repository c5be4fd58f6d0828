// Package mocks provides hand-rolled mock implementations of the domain ports.
package mocks

import (
	"context"

	"github.com/ersonp/worldloom/internal/domain/entities"
	"github.com/ersonp/worldloom/internal/domain/ports"
)

// Generator is a mock implementation of ports.Generator. Set the descriptor
// fields to control responses, or Err to fail every call. Calls counts
// invocations per method.
type Generator struct {
	World      *ports.WorldDescriptor
	Races      []ports.RaceDescriptor
	Factions   []ports.FactionDescriptor
	Locale     *ports.LocaleDescriptor
	Characters []ports.CharacterDescriptor
	Pact       *ports.PactDescriptor

	// PactFn, when set, overrides Pact per faction pair.
	PactFn func(a, b *entities.Faction) (*ports.PactDescriptor, error)

	Err   error
	Calls map[string]int
}

// NewGenerator creates a new mock Generator.
func NewGenerator() *Generator {
	return &Generator{Calls: make(map[string]int)}
}

func (m *Generator) record(method string) {
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[method]++
}

// GenerateWorld returns the configured world descriptor.
func (m *Generator) GenerateWorld(_ context.Context) (*ports.WorldDescriptor, error) {
	m.record("GenerateWorld")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.World, nil
}

// GenerateRaces returns the configured race descriptors.
func (m *Generator) GenerateRaces(_ context.Context, _ *entities.World, _ int) ([]ports.RaceDescriptor, error) {
	m.record("GenerateRaces")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Races, nil
}

// GenerateFactions returns the configured faction descriptors.
func (m *Generator) GenerateFactions(_ context.Context, _ *entities.World, _ int) ([]ports.FactionDescriptor, error) {
	m.record("GenerateFactions")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Factions, nil
}

// GenerateLocale returns the configured locale descriptor.
func (m *Generator) GenerateLocale(_ context.Context, _ *entities.World, _, _ int) (*ports.LocaleDescriptor, error) {
	m.record("GenerateLocale")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Locale, nil
}

// GenerateCharacters returns the configured character descriptors.
func (m *Generator) GenerateCharacters(_ context.Context, _ *entities.Locale, _ string, _ *entities.Race) ([]ports.CharacterDescriptor, error) {
	m.record("GenerateCharacters")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Characters, nil
}

// GeneratePact returns the configured pact descriptor.
func (m *Generator) GeneratePact(_ context.Context, _ *entities.World, a, b *entities.Faction) (*ports.PactDescriptor, error) {
	m.record("GeneratePact")
	if m.Err != nil {
		return nil, m.Err
	}
	if m.PactFn != nil {
		return m.PactFn(a, b)
	}
	return m.Pact, nil
}
