package openai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/worldloom/internal/domain/entities"
	"github.com/ersonp/worldloom/internal/domain/ports"
	"github.com/ersonp/worldloom/internal/infrastructure/config"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(config.LLMConfig{})
	require.Error(t, err)

	c, err := NewClient(config.LLMConfig{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", c.model)

	c, err = NewClient(config.LLMConfig{APIKey: "sk-test", Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", c.model)
}

func TestParseObject(t *testing.T) {
	var desc ports.WorldDescriptor
	content := "```json\n{\"name\": \"Aldermoor\", \"worldBuilding\": \"Fens and iron.\",}\n```"

	require.NoError(t, parseObject(content, &desc))
	assert.Equal(t, "Aldermoor", desc.Name)
	assert.Equal(t, "Fens and iron.", desc.WorldBuilding)
}

func TestParseObject_UnparseableIsGenerationError(t *testing.T) {
	var desc ports.WorldDescriptor
	err := parseObject("I couldn't come up with anything, sorry!", &desc)

	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrGeneration))
}

func TestParseArray_WrapsSingleObject(t *testing.T) {
	var descs []ports.CharacterDescriptor
	content := `{"name": "Bram", "role": "owner", "gender": "male", "age": 42}`

	require.NoError(t, parseArray(content, &descs))
	require.Len(t, descs, 1)
	assert.Equal(t, "Bram", descs[0].Name)
}

func TestParseArray_AdjacentObjects(t *testing.T) {
	var descs []ports.CharacterDescriptor
	content := "```json\n[{\"name\": \"Bram\"} {\"name\": \"Sela\"}]\n```"

	require.NoError(t, parseArray(content, &descs))
	require.Len(t, descs, 2)
	assert.Equal(t, "Sela", descs[1].Name)
}
