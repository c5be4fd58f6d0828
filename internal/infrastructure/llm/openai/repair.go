package openai

import (
	"regexp"
	"strings"
)

// The generation service promises JSON but delivers free-form model output.
// repairJSON applies the documented repair rules in order; anything that still
// fails to parse afterwards is a hard generation failure, never a guess.

var (
	reTrailingComma   = regexp.MustCompile(`,\s*([\]}])`)
	reAdjacentObjects = regexp.MustCompile(`}\s*{`)
	reAdjacentArrays  = regexp.MustCompile(`]\s*\[`)
)

// repairJSON strips markdown code fences, removes trailing commas before
// closing brackets and separates adjacent objects/arrays.
func repairJSON(content string) string {
	content = stripCodeFence(content)
	content = reTrailingComma.ReplaceAllString(content, "$1")
	content = reAdjacentObjects.ReplaceAllString(content, "}, {")
	content = reAdjacentArrays.ReplaceAllString(content, "],[")
	return strings.TrimSpace(content)
}

// repairJSONArray additionally wraps a bare object so the result parses as an
// array. Used where the documented shape is a list.
func repairJSONArray(content string) string {
	content = repairJSON(content)
	if !strings.HasPrefix(content, "[") {
		content = "[" + content + "]"
	}
	return content
}

// stripCodeFence removes a wrapping markdown code block if present.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}
