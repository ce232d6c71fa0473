package explain

import "github.com/abhisek/quizrunner/internal/llm"

// ExplanationSchema defines the JSON schema for answer explanations.
var ExplanationSchema = &llm.Schema{
	Name:        "answer-explanation",
	Description: "Why the correct options of a multiple-choice question are correct",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the correct options are right and the others are not (2-4 sentences)",
			},
			"key_point": map[string]any{
				"type":        "string",
				"description": "The one fact worth remembering (one sentence)",
			},
		},
		"required":             []any{"explanation", "key_point"},
		"additionalProperties": false,
	},
}
