// Package openai provides a Generator implementation using OpenAI.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/ersonp/worldloom/internal/domain/entities"
	"github.com/ersonp/worldloom/internal/domain/ports"
	"github.com/ersonp/worldloom/internal/infrastructure/config"
)

const worldPrompt = `You are an AI that generates JSON data for fantasy worlds.
Your response must be valid JSON and contain no extra text.

Each world should follow this structure:
{
  "name": "World Name",
  "worldBuilding": "A detailed description of the world, its history, and unique characteristics."
}`

const racesPrompt = `You are an AI that generates JSON data for races in a fantasy world.
Your response must be valid JSON and contain no extra text.

Use the world description to create races that fit into the setting. Avoid
stereotypes and aim for fresh, imaginative designs.

All enum fields must use only the exact predefined values:
- classification: "Sapient", "Semi-Sapient", or "Beast".
- diet: "Herbivore", "Carnivore", "Omnivore", or "Other".
- societal_structure: "None", "Tribal", "Feudal", "Democratic", "Hive Mind", or "Other".

Each race should follow this structure:
{
  "name": "Race Name",
  "classification": "Sapient",
  "physiology": {
    "lifespan": 80,
    "size_range": { "min": 1.5, "max": 2.0 },
    "diet": "Omnivore"
  },
  "intelligence": {
    "societal_structure": "Feudal"
  }
}

Return an array of races.`

const factionsPrompt = `You are an AI that generates JSON data for factions in a medieval fantasy world.
Your response must be valid JSON and contain no extra text.

Each faction should follow this structure:
{
  "name": "Faction Name",
  "description": "A short but immersive description of the faction's history and values.",
  "alignment": "Lawful Good, Neutral, Chaotic Evil, etc.",
  "resources": {
    "wealth": "low, moderate, high",
    "military_strength": "weak, average, strong",
    "political_influence": "low, medium, high"
  }
}

Return an array of factions.`

const localePrompt = `You are an AI that generates JSON data for locales in a medieval fantasy world.
Your response must be valid JSON and contain no extra text.

Each locale should follow this structure:
{
  "name": "Locale Name",
  "type": "Village, Town, City, Fortress, Ruins, Forest, Lake, Mountain, Plains",
  "description": "A short but immersive description of the location.",
  "special_features": ["A list of unique landmarks, events, or history tied to this place."]
}`

const charactersPrompt = `You are an AI that creates immersive NPCs for medieval fantasy games.
Your response must be a valid JSON array and contain no extra text.

Each character should follow this structure:
{
  "name": "Full Name",
  "title": "Optional title",
  "role": "Role in the building",
  "description": "Short summary of appearance and background.",
  "personality": "Brief temperament or habits.",
  "race": "Fantasy race like Elf, Human, Dwarf, etc.",
  "gender": "male" | "female" | "nonbinary",
  "age": 30
}`

const pactPrompt = `You are an AI that generates JSON data for faction relationships (pacts) in a medieval fantasy world.
Your response must be valid JSON and contain no extra text.

Each pact must include a series of historical events that outline a progression
of interactions between the factions leading up to the current date (%d).

Each pact should follow this structure:
{
  "name": "Pact Name",
  "type": "alliance, war, trade, vassalage, rivalry, non-aggression",
  "description": "A short but immersive description of the pact's purpose.",
  "events": [
    { "name": "Event Name", "description": "Event details", "realDate": "YYYY-MM-DD" }
  ]
}`

// Client implements the ports.Generator interface using OpenAI.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new OpenAI generation client.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	model := "gpt-4o-mini"
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
	}, nil
}

// complete issues one chat completion and returns the raw response text.
func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float32) (string, error) {
	var messages []openai.ChatCompletionMessage
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: calling OpenAI: %v", entities.ErrGeneration, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response from OpenAI", entities.ErrGeneration)
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateWorld generates a new world name and backstory.
func (c *Client) GenerateWorld(ctx context.Context) (*ports.WorldDescriptor, error) {
	content, err := c.complete(ctx, worldPrompt,
		"Generate a unique fantasy world with an immersive backstory.", 500, 0.8)
	if err != nil {
		return nil, err
	}

	var desc ports.WorldDescriptor
	if err := parseObject(content, &desc); err != nil {
		return nil, err
	}
	return &desc, nil
}

// GenerateRaces generates count races fitting the world.
func (c *Client) GenerateRaces(ctx context.Context, world *entities.World, count int) ([]ports.RaceDescriptor, error) {
	user := fmt.Sprintf("Generate %d races for the world %q.\n\n### World Context:\n%s",
		count, world.Name, world.WorldBuilding)

	content, err := c.complete(ctx, racesPrompt, user, 4096, 0.8)
	if err != nil {
		return nil, err
	}

	var descs []ports.RaceDescriptor
	if err := parseArray(content, &descs); err != nil {
		return nil, err
	}
	return descs, nil
}

// GenerateFactions generates count factions fitting the world.
func (c *Client) GenerateFactions(ctx context.Context, world *entities.World, count int) ([]ports.FactionDescriptor, error) {
	user := fmt.Sprintf("Generate %d factions for the world %q.\n\n### World Context:\n%s\n\nThe factions should fit the world and feel natural within its politics, conflicts, and cultures.",
		count, world.Name, world.WorldBuilding)

	content, err := c.complete(ctx, factionsPrompt, user, 1500, 0.8)
	if err != nil {
		return nil, err
	}

	var descs []ports.FactionDescriptor
	if err := parseArray(content, &descs); err != nil {
		return nil, err
	}
	return descs, nil
}

// GenerateLocale generates a locale descriptor for map coordinates.
func (c *Client) GenerateLocale(ctx context.Context, world *entities.World, x, y int) (*ports.LocaleDescriptor, error) {
	user := fmt.Sprintf("Generate a locale for the world %q at coordinates (x: %d, y: %d).", world.Name, x, y)

	content, err := c.complete(ctx, localePrompt, user, 300, 0.8)
	if err != nil {
		return nil, err
	}

	var desc ports.LocaleDescriptor
	if err := parseObject(content, &desc); err != nil {
		return nil, err
	}
	return &desc, nil
}

// GenerateCharacters generates the 2-4 character roster of one building.
func (c *Client) GenerateCharacters(ctx context.Context, locale *entities.Locale, building string, race *entities.Race) ([]ports.CharacterDescriptor, error) {
	raceName := "Human"
	if race != nil {
		raceName = race.Name
	}

	user := fmt.Sprintf(`Generate 2 to 4 unique NPCs who work in the %q of the %s %q.

The locale has a population of %d.
Locale description: %s
All characters should be of the %s race.

Each character should have a distinct role (e.g. forge master, apprentice, bookkeeper) and personality. Avoid repeating names or roles.`,
		building, locale.Type, locale.Name, locale.Population, locale.Description, raceName)

	content, err := c.complete(ctx, charactersPrompt, user, 600, 0.85)
	if err != nil {
		return nil, err
	}

	var descs []ports.CharacterDescriptor
	if err := parseArray(content, &descs); err != nil {
		return nil, err
	}
	return descs, nil
}

// GeneratePact generates a pact narrative between two factions.
func (c *Client) GeneratePact(ctx context.Context, world *entities.World, a, b *entities.Faction) (*ports.PactDescriptor, error) {
	system := fmt.Sprintf(pactPrompt, world.CurrentYear)
	user := fmt.Sprintf(`Generate a faction pact between **%s** and **%s** in the world **%s**.

### World Context:
%s

### Faction A:
Name: %s
Description: %s

### Faction B:
Name: %s
Description: %s

The events should show a clear progression of interactions (wars, treaties, betrayals, negotiations) leading to their current relationship.`,
		a.Name, b.Name, world.Name, world.WorldBuilding,
		a.Name, a.Description, b.Name, b.Description)

	content, err := c.complete(ctx, system, user, 1000, 0.8)
	if err != nil {
		return nil, err
	}

	var desc ports.PactDescriptor
	if err := parseObject(content, &desc); err != nil {
		return nil, err
	}
	return &desc, nil
}

// parseObject repairs and parses a single-object response.
func parseObject(content string, v any) error {
	if err := json.Unmarshal([]byte(repairJSON(content)), v); err != nil {
		return fmt.Errorf("%w: parsing response JSON: %v (response: %s)", entities.ErrGeneration, err, content)
	}
	return nil
}

// parseArray repairs and parses an array response, wrapping a bare object.
func parseArray(content string, v any) error {
	if err := json.Unmarshal([]byte(repairJSONArray(content)), v); err != nil {
		return fmt.Errorf("%w: parsing response JSON: %v (response: %s)", entities.ErrGeneration, err, content)
	}
	return nil
}
