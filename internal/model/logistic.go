package model

// LogisticParams holds the fitted weights of a logistic regression.
type LogisticParams struct {
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

// Logistic scores records as sigmoid(intercept + Σ coef·x).
type Logistic struct {
	base
	intercept float64
	weights   []float64 // aligned with base.features
	coefs     map[string]float64
}

var (
	_ Model  = (*Logistic)(nil)
	_ Linear = (*Logistic)(nil)
)

func newLogistic(b base, p LogisticParams) *Logistic {
	weights := make([]float64, len(b.features))
	coefs := make(map[string]float64, len(b.features))
	for i, f := range b.features {
		weights[i] = p.Coefficients[f]
		coefs[f] = p.Coefficients[f]
	}
	return &Logistic{base: b, intercept: p.Intercept, weights: weights, coefs: coefs}
}

func (m *Logistic) PredictProba(batch []map[string]float64) ([]float64, error) {
	out := make([]float64, len(batch))
	for i, rec := range batch {
		x, err := m.vector(rec, i)
		if err != nil {
			return nil, err
		}
		z := m.intercept
		for j, w := range m.weights {
			z += w * x[j]
		}
		out[i] = sigmoid(z)
	}
	return out, nil
}

func (m *Logistic) Predict(batch []map[string]float64) ([]int, error) {
	probs, err := m.PredictProba(batch)
	if err != nil {
		return nil, err
	}
	return m.labels(probs), nil
}

// Coefficients returns a copy of the per-feature weights.
func (m *Logistic) Coefficients() map[string]float64 {
	out := make(map[string]float64, len(m.coefs))
	for k, v := range m.coefs {
		out[k] = v
	}
	return out
}
