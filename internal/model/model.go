// Package model loads pre-trained repetition classifiers and exposes them
// behind a small prediction interface.
package model

import (
	"fmt"
	"math"
)

// Model is a trained binary classifier over named numeric features.
// Implementations are immutable after Load and safe for concurrent use.
type Model interface {
	// Name is the human-readable model name from the artifact.
	Name() string

	// Kind is the artifact kind ("logistic" or "forest").
	Kind() string

	// Features lists the expected input columns in training order.
	Features() []string

	// Contract describes how raw form input maps onto Features.
	Contract() Contract

	// Threshold is the probability at or above which Predict returns 1.
	Threshold() float64

	// Predict returns the predicted label (0 or 1) for every record.
	Predict(batch []map[string]float64) ([]int, error)

	// PredictProba returns the positive-class probability for every record.
	PredictProba(batch []map[string]float64) ([]float64, error)
}

// Linear is implemented by models with one coefficient per feature.
type Linear interface {
	Coefficients() map[string]float64
}

// TreeEnsemble is implemented by models built from decision trees.
type TreeEnsemble interface {
	SplitCounts() map[string]int
}

// DefaultThreshold is the decision threshold used when the artifact omits one.
const DefaultThreshold = 0.5

// base carries the fields every model kind shares.
type base struct {
	name      string
	kind      string
	features  []string
	threshold float64
	contract  Contract
}

func (b *base) Name() string       { return b.name }
func (b *base) Kind() string       { return b.kind }
func (b *base) Contract() Contract { return b.contract }
func (b *base) Threshold() float64 { return b.threshold }

func (b *base) Features() []string {
	out := make([]string, len(b.features))
	copy(out, b.features)
	return out
}

// vector extracts the model's features from one record in training order.
func (b *base) vector(rec map[string]float64, idx int) ([]float64, error) {
	x := make([]float64, len(b.features))
	for i, f := range b.features {
		v, ok := rec[f]
		if !ok {
			return nil, fmt.Errorf("record %d: missing feature %q", idx, f)
		}
		x[i] = v
	}
	return x, nil
}

// labels thresholds probabilities into 0/1 predictions.
func (b *base) labels(probs []float64) []int {
	out := make([]int, len(probs))
	for i, p := range probs {
		if p >= b.threshold {
			out[i] = 1
		}
	}
	return out
}

// sigmoid is the logistic function, stable for large |z|.
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
