package advisor

import "github.com/pisaph/pisaph/internal/llm"

// PlanSchema is the structured output requested from the provider.
var PlanSchema = &llm.Schema{
	Name:        "intervention-plan",
	Description: "Interventions to reduce grade repetition, grounded in model results",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "2-4 sentence reading of the model results",
			},
			"recommendations": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": 6,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "Short imperative title (3-8 words)",
						},
						"rationale": map[string]any{
							"type":        "string",
							"description": "Why this helps, citing a risk factor",
						},
						"audience": map[string]any{
							"type":        "string",
							"description": "Who acts on it, e.g. class advisers or DepEd regional offices",
						},
					},
					"required":             []any{"title", "rationale", "audience"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"summary", "recommendations"},
		"additionalProperties": false,
	},
}
