package profile

import "github.com/abhisek/persona/internal/llm"

// ProfileSchema is the shape of a generated personality profile.
var ProfileSchema = &llm.Schema{
	Name:        "personality-profile",
	Description: "A short personality profile written from quiz answers",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"description": "A 2-5 word title for the personality, e.g. 'The Curious Builder'",
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "3-4 sentences in second person describing how this person tends to think and act",
			},
			"strengths": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    2,
				"maxItems":    4,
				"description": "Specific strengths, 3-8 words each",
			},
		},
		"required":             []any{"headline", "summary", "strengths"},
		"additionalProperties": false,
	},
}
