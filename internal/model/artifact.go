package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Artifact is the on-disk JSON form of a trained model.
type Artifact struct {
	Kind      string          `json:"kind"`
	Name      string          `json:"name"`
	Features  []string        `json:"features"`
	Threshold *float64        `json:"threshold,omitempty"`
	Logistic  *LogisticParams `json:"logistic,omitempty"`
	Forest    *ForestParams   `json:"forest,omitempty"`
	Contract  Contract        `json:"contract"`
}

const (
	KindLogistic = "logistic"
	KindForest   = "forest"
)

// artifactSchema describes the shape of a model artifact. Cross-field
// rules (tree structure, contract coverage) are checked in Go after
// schema validation.
var artifactSchema = map[string]any{
	"type":     "object",
	"required": []any{"kind", "features", "contract"},
	"properties": map[string]any{
		"kind": map[string]any{"type": "string", "enum": []any{KindLogistic, KindForest}},
		"name": map[string]any{"type": "string"},
		"features": map[string]any{
			"type":        "array",
			"minItems":    1,
			"uniqueItems": true,
			"items":       map[string]any{"type": "string", "minLength": 1},
		},
		"threshold": map[string]any{"type": "number", "exclusiveMinimum": 0, "exclusiveMaximum": 1},
		"logistic": map[string]any{
			"type":     "object",
			"required": []any{"intercept", "coefficients"},
			"properties": map[string]any{
				"intercept":    map[string]any{"type": "number"},
				"coefficients": map[string]any{"type": "object", "additionalProperties": map[string]any{"type": "number"}},
			},
		},
		"forest": map[string]any{
			"type":     "object",
			"required": []any{"trees"},
			"properties": map[string]any{
				"trees": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type":     "object",
						"required": []any{"nodes"},
						"properties": map[string]any{
							"nodes": map[string]any{"type": "array", "minItems": 1, "items": map[string]any{"type": "object"}},
						},
					},
				},
			},
		},
		"contract": map[string]any{
			"type":     "object",
			"required": []any{"version", "fields"},
			"properties": map[string]any{
				"version": map[string]any{"type": "string"},
				"fields": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []any{"name", "kind"},
						"properties": map[string]any{
							"name": map[string]any{"type": "string", "minLength": 1},
							"kind": map[string]any{"type": "string", "enum": []any{string(FieldNumeric), string(FieldCategorical)}},
						},
					},
				},
			},
		},
	},
}

var compiledArtifactSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	// Round-trip through JSON so the compiler sees plain decoded values.
	defBytes, err := json.Marshal(artifactSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal artifact schema: %w", err)
	}
	var def any
	if err := json.Unmarshal(defBytes, &def); err != nil {
		return nil, fmt.Errorf("parse artifact schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	const url = "schema://model-artifact.json"
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
})

// Load reads, validates and builds the model artifact at path.
// Every failure is returned as *LoadError.
func Load(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	m, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return m, nil
}

// Parse builds a Model from artifact JSON.
func Parse(data []byte) (Model, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := compiledArtifactSchema()
	if err != nil {
		return nil, fmt.Errorf("compile artifact schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return a.Build()
}

// Build turns a decoded artifact into a Model.
func (a Artifact) Build() (Model, error) {
	if len(a.Features) == 0 {
		return nil, errors.New("artifact lists no features")
	}
	if err := a.Contract.validate(a.Features); err != nil {
		return nil, err
	}

	b := base{
		name:      a.Name,
		kind:      a.Kind,
		features:  append([]string(nil), a.Features...),
		threshold: DefaultThreshold,
		contract:  a.Contract,
	}
	if b.name == "" {
		b.name = a.Kind
	}
	if a.Threshold != nil {
		b.threshold = *a.Threshold
	}

	switch a.Kind {
	case KindLogistic:
		if a.Logistic == nil {
			return nil, errors.New(`kind "logistic" requires a "logistic" block`)
		}
		known := make(map[string]bool, len(a.Features))
		for _, f := range a.Features {
			known[f] = true
		}
		for f := range a.Logistic.Coefficients {
			if !known[f] {
				return nil, fmt.Errorf("coefficient for unknown feature %q", f)
			}
		}
		return newLogistic(b, *a.Logistic), nil
	case KindForest:
		if a.Forest == nil {
			return nil, errors.New(`kind "forest" requires a "forest" block`)
		}
		return newForest(b, *a.Forest)
	default:
		return nil, fmt.Errorf("unknown model kind %q", a.Kind)
	}
}
