package model

import (
	"fmt"
	"strings"
)

// LoadError reports a model artifact that could not be turned into a Model.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load model %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// EncodingError reports form input that does not satisfy the encoding contract.
type EncodingError struct {
	Field   string
	Value   string
	Reason  string
	Allowed []string
}

func (e *EncodingError) Error() string {
	msg := fmt.Sprintf("field %q", e.Field)
	if e.Value != "" {
		msg += fmt.Sprintf(" value %q", e.Value)
	}
	msg += ": " + e.Reason
	if len(e.Allowed) > 0 {
		msg += " (allowed: " + strings.Join(e.Allowed, ", ") + ")"
	}
	return msg
}
