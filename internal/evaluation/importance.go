package evaluation

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/pisaph/pisaph/internal/holdout"
	"github.com/pisaph/pisaph/internal/model"
)

// ErrNoImportance is returned for models that expose neither coefficients
// nor tree splits.
var ErrNoImportance = errors.New("evaluation: model does not expose feature importance")

// FeatureImportance is one feature's contribution to the model.
type FeatureImportance struct {
	Feature string
	Score   float64 // raw importance
	Share   float64 // Score normalized so all shares sum to 1
	Sign    int     // direction of effect for linear models, else 0
}

// Importance ranks the model's features, most important first. Linear
// models use |coefficient| times the feature's standard deviation over the
// table; tree ensembles use split counts.
func Importance(m model.Model, t *holdout.Table) ([]FeatureImportance, error) {
	var out []FeatureImportance

	switch mm := m.(type) {
	case model.Linear:
		coefs := mm.Coefficients()
		for _, f := range m.Features() {
			col := t.Column(f)
			if col == nil {
				return nil, &SchemaMismatchError{Missing: []string{f}}
			}
			sd, err := stats.StandardDeviation(col)
			if err != nil {
				return nil, fmt.Errorf("feature %s: %w", f, err)
			}
			c := coefs[f]
			fi := FeatureImportance{Feature: f, Score: math.Abs(c) * sd}
			switch {
			case c > 0:
				fi.Sign = 1
			case c < 0:
				fi.Sign = -1
			}
			out = append(out, fi)
		}
	case model.TreeEnsemble:
		counts := mm.SplitCounts()
		for _, f := range m.Features() {
			out = append(out, FeatureImportance{Feature: f, Score: float64(counts[f])})
		}
	default:
		return nil, ErrNoImportance
	}

	var total float64
	for _, fi := range out {
		total += fi.Score
	}
	for i := range out {
		if total > 0 {
			out[i].Share = out[i].Score / total
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].Feature < out[b].Feature
	})
	return out, nil
}

// Top returns at most n entries from a ranked importance list.
func Top(ranked []FeatureImportance, n int) []FeatureImportance {
	n = max(n, 0)
	if n < len(ranked) {
		return ranked[:n]
	}
	return ranked
}
