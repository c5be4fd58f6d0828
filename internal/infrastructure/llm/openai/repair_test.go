package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON_StripsCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"name\": \"x\"}\n```", `{"name": "x"}`},
		{"bare fence", "```\n{\"name\": \"x\"}\n```", `{"name": "x"}`},
		{"no fence", `{"name": "x"}`, `{"name": "x"}`},
		{"surrounding whitespace", "  \n{\"name\": \"x\"}\n  ", `{"name": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairJSON(tt.in))
		})
	}
}

func TestRepairJSON_RemovesTrailingCommas(t *testing.T) {
	in := `{"name": "x", "tags": ["a", "b",],}`

	out := repairJSON(in)

	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "x", v["name"])
}

func TestRepairJSON_SeparatesAdjacentObjects(t *testing.T) {
	in := `[{"name": "a"} {"name": "b"}]`

	out := repairJSON(in)

	var v []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	require.Len(t, v, 2)
	assert.Equal(t, "b", v[1]["name"])
}

func TestRepairJSONArray_WrapsBareObject(t *testing.T) {
	in := "```json\n{\"name\": \"only one\"}\n```"

	out := repairJSONArray(in)

	var v []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	require.Len(t, v, 1)
	assert.Equal(t, "only one", v[0]["name"])
}

func TestRepairJSONArray_LeavesArraysAlone(t *testing.T) {
	in := `[{"name": "a"}, {"name": "b"}]`

	out := repairJSONArray(in)

	var v []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Len(t, v, 2)
}

func TestRepairJSON_CombinedDamage(t *testing.T) {
	// Fenced, trailing commas and adjacent objects in one response.
	in := "```json\n[{\"name\": \"a\",} {\"name\": \"b\",}]\n```"

	out := repairJSON(in)

	var v []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	require.Len(t, v, 2)
	assert.Equal(t, "a", v[0]["name"])
}
