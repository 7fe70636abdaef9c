package model

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// SupportedContractMajor is the encoding contract major version this build
// understands. Artifacts with another major version are rejected at load.
const SupportedContractMajor = "v1"

// FieldKind distinguishes numeric inputs from categorical selectors.
type FieldKind string

const (
	FieldNumeric     FieldKind = "numeric"
	FieldCategorical FieldKind = "categorical"
)

// Level maps one user-facing categorical label to the code the model was
// trained on.
type Level struct {
	Label string  `json:"label"`
	Code  float64 `json:"code"`
}

// Field describes one model input.
type Field struct {
	Name   string    `json:"name"`
	Label  string    `json:"label,omitempty"`
	Help   string    `json:"help,omitempty"`
	Kind   FieldKind `json:"kind"`
	Min    *float64  `json:"min,omitempty"`
	Max    *float64  `json:"max,omitempty"`
	Levels []Level   `json:"levels,omitempty"`
}

// DisplayLabel returns Label, or Name when no label is set.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// LevelLabels lists the categorical labels in declaration order.
func (f Field) LevelLabels() []string {
	out := make([]string, len(f.Levels))
	for i, l := range f.Levels {
		out[i] = l.Label
	}
	return out
}

// Contract is the versioned mapping from form input to model features. It
// ships inside the model artifact so the encoding always matches training.
type Contract struct {
	Version string  `json:"version"`
	Fields  []Field `json:"fields"`
}

// Field looks up a field by feature name.
func (c Contract) Field(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// CheckVersion verifies the contract version is valid semver with the
// supported major version.
func CheckVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("contract version %q is not valid semver", v)
	}
	if major := semver.Major(v); major != SupportedContractMajor {
		return fmt.Errorf("contract version %s unsupported: need %s.x.y", v, SupportedContractMajor)
	}
	return nil
}

// validate checks the contract against the model's feature list: every
// feature must have exactly one field and categorical codes must be unique.
func (c Contract) validate(features []string) error {
	if err := CheckVersion(c.Version); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		if seen[f.Name] {
			return fmt.Errorf("contract field %q declared twice", f.Name)
		}
		seen[f.Name] = true

		switch f.Kind {
		case FieldNumeric:
			if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
				return fmt.Errorf("contract field %q: min > max", f.Name)
			}
		case FieldCategorical:
			if len(f.Levels) < 2 {
				return fmt.Errorf("contract field %q: categorical needs at least 2 levels", f.Name)
			}
			labels := make(map[string]bool)
			codes := make(map[float64]bool)
			for _, l := range f.Levels {
				key := strings.ToLower(l.Label)
				if labels[key] || codes[l.Code] {
					return fmt.Errorf("contract field %q: duplicate level %q", f.Name, l.Label)
				}
				labels[key] = true
				codes[l.Code] = true
			}
		default:
			return fmt.Errorf("contract field %q: unknown kind %q", f.Name, f.Kind)
		}
	}

	var missing []string
	for _, name := range features {
		if !seen[name] {
			missing = append(missing, name)
		}
		delete(seen, name)
	}
	if len(missing) > 0 {
		return fmt.Errorf("contract has no field for features: %s", strings.Join(missing, ", "))
	}
	if len(seen) > 0 {
		var extra []string
		for name := range seen {
			extra = append(extra, name)
		}
		sort.Strings(extra)
		return fmt.Errorf("contract fields not in feature list: %s", strings.Join(extra, ", "))
	}
	return nil
}

// Encode turns raw form input into a feature record. Every contract field
// must be present and no unknown keys are accepted.
func (c Contract) Encode(input map[string]string) (map[string]float64, error) {
	for name := range input {
		if _, ok := c.Field(name); !ok {
			return nil, &EncodingError{Field: name, Reason: "not part of the model contract"}
		}
	}

	out := make(map[string]float64, len(c.Fields))
	for _, f := range c.Fields {
		raw, ok := input[f.Name]
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			return nil, &EncodingError{Field: f.Name, Reason: "missing value"}
		}
		v, err := f.encode(raw)
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

func (f Field) encode(raw string) (float64, error) {
	switch f.Kind {
	case FieldCategorical:
		for _, l := range f.Levels {
			if strings.EqualFold(l.Label, raw) {
				return l.Code, nil
			}
		}
		return 0, &EncodingError{Field: f.Name, Value: raw, Reason: "unknown level", Allowed: f.LevelLabels()}
	default:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, &EncodingError{Field: f.Name, Value: raw, Reason: "not a number"}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, &EncodingError{Field: f.Name, Value: raw, Reason: "not a finite number"}
		}
		if f.Min != nil && v < *f.Min {
			return 0, &EncodingError{Field: f.Name, Value: raw, Reason: fmt.Sprintf("below minimum %g", *f.Min)}
		}
		if f.Max != nil && v > *f.Max {
			return 0, &EncodingError{Field: f.Name, Value: raw, Reason: fmt.Sprintf("above maximum %g", *f.Max)}
		}
		return v, nil
	}
}
