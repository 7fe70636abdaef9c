// Package advisor drafts intervention recommendations from evaluation
// results, with the static catalog recommendations as a fallback.
package advisor

import "github.com/pisaph/pisaph/internal/evaluation"

// Input is what the advisor knows about the model and, optionally, one
// student.
type Input struct {
	Result evaluation.Result
	Top    []evaluation.FeatureImportance

	// Profile and Estimate describe a single student. Both are optional.
	Profile  map[string]string
	Estimate *evaluation.Estimate
}

// Recommendation is one suggested intervention.
type Recommendation struct {
	Title     string `json:"title"`
	Rationale string `json:"rationale"`
	Audience  string `json:"audience"`
}

// Plan is the advisor's answer.
type Plan struct {
	Summary         string
	Recommendations []Recommendation

	// Fallback is set when the plan came from the catalog rather than a
	// language model. Reason says why.
	Fallback bool
	Reason   string
	Model    string
}
