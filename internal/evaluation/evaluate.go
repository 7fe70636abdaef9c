// Package evaluation scores a trained model against a labelled holdout set
// and answers one-off probability estimates.
package evaluation

import (
	"fmt"
	"math"
	"sort"

	"github.com/pisaph/pisaph/internal/holdout"
	"github.com/pisaph/pisaph/internal/model"
)

// Confusion is the binary confusion matrix.
type Confusion struct {
	TP, FP, TN, FN int
}

// Result holds the classification metrics of one evaluation.
type Result struct {
	Model     string
	N         int
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
	ROCAUC    float64 // NaN when labels are single-class
	Confusion Confusion
}

// HasAUC reports whether ROC-AUC is defined for this result.
func (r Result) HasAUC() bool { return !math.IsNaN(r.ROCAUC) }

// Scores are the raw model outputs over a record set, in record order.
type Scores struct {
	Labels        []int
	Predictions   []int
	Probabilities []float64
}

// Score checks the records against the model's feature schema and runs
// Predict and PredictProba once each over the full batch.
func Score(m model.Model, records []holdout.Record) (Scores, error) {
	if len(records) == 0 {
		return Scores{}, ErrNoRecords
	}
	if err := checkSchema(m.Features(), records); err != nil {
		return Scores{}, err
	}

	batch := make([]map[string]float64, len(records))
	labels := make([]int, len(records))
	for i, r := range records {
		batch[i] = r.Features
		labels[i] = r.Label
	}

	preds, err := m.Predict(batch)
	if err != nil {
		return Scores{}, fmt.Errorf("predict: %w", err)
	}
	probs, err := m.PredictProba(batch)
	if err != nil {
		return Scores{}, fmt.Errorf("predict proba: %w", err)
	}
	if len(preds) != len(records) || len(probs) != len(records) {
		return Scores{}, fmt.Errorf("model %s returned %d labels and %d probabilities for %d records",
			m.Name(), len(preds), len(probs), len(records))
	}
	for i, p := range probs {
		if !validProbability(p) {
			return Scores{}, fmt.Errorf("model %s returned probability %v outside [0,1] for record %d",
				m.Name(), p, i+1)
		}
	}
	return Scores{Labels: labels, Predictions: preds, Probabilities: probs}, nil
}

// validProbability reports whether p is finite and within [0,1].
func validProbability(p float64) bool {
	return p >= 0 && p <= 1
}

// Evaluate scores the model over records and derives the metrics.
func Evaluate(m model.Model, records []holdout.Record) (Result, error) {
	s, err := Score(m, records)
	if err != nil {
		return Result{}, err
	}
	res := Metrics(s)
	res.Model = m.Name()
	return res, nil
}

// Metrics derives the classification metrics from scored output. Ratios
// with a zero denominator are reported as 0.
func Metrics(s Scores) Result {
	var c Confusion
	for i, y := range s.Labels {
		switch p := s.Predictions[i]; {
		case y == 1 && p == 1:
			c.TP++
		case y == 0 && p == 1:
			c.FP++
		case y == 0:
			c.TN++
		default:
			c.FN++
		}
	}

	n := len(s.Labels)
	res := Result{N: n, Confusion: c}
	res.Accuracy = ratio(c.TP+c.TN, n)
	res.Precision = ratio(c.TP, c.TP+c.FP)
	res.Recall = ratio(c.TP, c.TP+c.FN)
	if sum := res.Precision + res.Recall; sum > 0 {
		res.F1 = 2 * res.Precision * res.Recall / sum
	}
	res.ROCAUC = AUC(ROCCurve(s.Labels, s.Probabilities))
	return res
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// checkSchema requires every record to carry exactly the expected columns.
func checkSchema(features []string, records []holdout.Record) error {
	want := make(map[string]bool, len(features))
	for _, f := range features {
		want[f] = true
	}
	for i, r := range records {
		if len(r.Features) == len(want) && hasAll(r.Features, features) {
			continue
		}
		e := &SchemaMismatchError{Record: i}
		for _, f := range features {
			if _, ok := r.Features[f]; !ok {
				e.Missing = append(e.Missing, f)
			}
		}
		for k := range r.Features {
			if !want[k] {
				e.Extra = append(e.Extra, k)
			}
		}
		sort.Strings(e.Missing)
		sort.Strings(e.Extra)
		return e
	}
	return nil
}

func hasAll(rec map[string]float64, features []string) bool {
	for _, f := range features {
		if _, ok := rec[f]; !ok {
			return false
		}
	}
	return true
}
