package evaluation

import (
	"fmt"

	"github.com/pisaph/pisaph/internal/holdout"
	"github.com/pisaph/pisaph/internal/model"
)

// PredictOne encodes raw form input through the model's contract and
// returns the positive-class probability. Encoding failures are returned
// as *model.EncodingError.
func PredictOne(m model.Model, input map[string]string) (float64, error) {
	rec, err := m.Contract().Encode(input)
	if err != nil {
		return 0, err
	}
	if err := checkSchema(m.Features(), []holdout.Record{{Features: rec}}); err != nil {
		return 0, err
	}

	probs, err := m.PredictProba([]map[string]float64{rec})
	if err != nil {
		return 0, fmt.Errorf("predict proba: %w", err)
	}
	if len(probs) != 1 {
		return 0, fmt.Errorf("model %s returned %d probabilities for one record", m.Name(), len(probs))
	}
	p := probs[0]
	if !validProbability(p) {
		return 0, fmt.Errorf("model %s returned probability %v outside [0,1]", m.Name(), p)
	}
	return p, nil
}
