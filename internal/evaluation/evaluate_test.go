package evaluation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/pisaph/pisaph/internal/holdout"
	"github.com/pisaph/pisaph/internal/model"
)

// stubModel returns canned predictions and counts its calls.
type stubModel struct {
	features     []string
	preds        []int
	probs        []float64
	predictCalls int
	probaCalls   int
}

func (m *stubModel) Name() string             { return "stub" }
func (m *stubModel) Kind() string             { return "stub" }
func (m *stubModel) Features() []string       { return m.features }
func (m *stubModel) Contract() model.Contract { return model.Contract{} }
func (m *stubModel) Threshold() float64       { return 0.5 }

func (m *stubModel) Predict(batch []map[string]float64) ([]int, error) {
	m.predictCalls++
	return m.preds[:len(batch)], nil
}

func (m *stubModel) PredictProba(batch []map[string]float64) ([]float64, error) {
	m.probaCalls++
	if m.probs == nil {
		out := make([]float64, len(batch))
		for i, p := range m.preds[:len(batch)] {
			out[i] = float64(p)
		}
		return out, nil
	}
	return m.probs[:len(batch)], nil
}

func records(labels ...int) []holdout.Record {
	out := make([]holdout.Record, len(labels))
	for i, y := range labels {
		out[i] = holdout.Record{Features: map[string]float64{"x": float64(i)}, Label: y}
	}
	return out
}

func TestEvaluate_WorkedExample(t *testing.T) {
	m := &stubModel{features: []string{"x"}, preds: []int{0, 1, 0, 0}}

	res, err := Evaluate(m, records(0, 1, 1, 0))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if res.Accuracy != 0.75 {
		t.Errorf("accuracy = %v, want 0.75", res.Accuracy)
	}
	if res.Precision != 1.0 {
		t.Errorf("precision = %v, want 1.0", res.Precision)
	}
	if res.Recall != 0.5 {
		t.Errorf("recall = %v, want 0.5", res.Recall)
	}
	if math.Abs(res.F1-2.0/3.0) > 1e-9 {
		t.Errorf("f1 = %v, want 0.667", res.F1)
	}
	want := Confusion{TP: 1, FP: 0, TN: 2, FN: 1}
	if res.Confusion != want {
		t.Errorf("confusion = %+v, want %+v", res.Confusion, want)
	}
	if res.N != 4 || res.Model != "stub" {
		t.Errorf("N = %d, Model = %q", res.N, res.Model)
	}
	if m.predictCalls != 1 || m.probaCalls != 1 {
		t.Errorf("calls: predict=%d proba=%d, want 1 each", m.predictCalls, m.probaCalls)
	}
}

func TestEvaluate_PerfectPredictions(t *testing.T) {
	labels := []int{1, 0, 1, 1, 0}
	m := &stubModel{features: []string{"x"}, preds: labels}

	res, err := Evaluate(m, records(labels...))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Accuracy != 1 || res.Precision != 1 || res.Recall != 1 || res.F1 != 1 {
		t.Errorf("got %+v, want all metrics 1", res)
	}
	if res.ROCAUC != 1 {
		t.Errorf("roc_auc = %v, want 1", res.ROCAUC)
	}
}

func TestEvaluate_NoCorrectPositives(t *testing.T) {
	tests := []struct {
		name   string
		labels []int
		preds  []int
	}{
		{"never predicts positive", []int{1, 0, 1}, []int{0, 0, 0}},
		{"positives all wrong", []int{1, 0, 0}, []int{0, 1, 1}},
		{"no positive labels", []int{0, 0}, []int{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &stubModel{features: []string{"x"}, preds: tt.preds}
			res, err := Evaluate(m, records(tt.labels...))
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if res.Precision != 0 || res.F1 != 0 {
				t.Errorf("precision = %v, f1 = %v, want 0", res.Precision, res.F1)
			}
		})
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	m := &stubModel{features: []string{"x"}, preds: []int{1, 0, 1, 0}, probs: []float64{0.9, 0.2, 0.6, 0.6}}
	recs := records(1, 0, 0, 1)

	a, err := Evaluate(m, recs)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Evaluate(m, recs)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("results differ: %+v vs %+v", a, b)
	}
}

func TestEvaluate_SingleClassAUCIsNaN(t *testing.T) {
	m := &stubModel{features: []string{"x"}, preds: []int{1, 1, 0}}
	res, err := Evaluate(m, records(1, 1, 1))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !math.IsNaN(res.ROCAUC) || res.HasAUC() {
		t.Errorf("roc_auc = %v, want NaN", res.ROCAUC)
	}
}

func TestEvaluate_NoRecords(t *testing.T) {
	m := &stubModel{features: []string{"x"}}
	if _, err := Evaluate(m, nil); !errors.Is(err, ErrNoRecords) {
		t.Fatalf("err = %v, want ErrNoRecords", err)
	}
	if m.predictCalls != 0 {
		t.Error("model called for empty input")
	}
}

func TestEvaluate_SchemaMismatch(t *testing.T) {
	m := &stubModel{features: []string{"ESCS", "FEMALE", "AGE"}, preds: []int{0, 0}}
	recs := []holdout.Record{
		{Features: map[string]float64{"ESCS": 1, "FEMALE": 0, "AGE": 15}},
		{Features: map[string]float64{"ESCS": 1, "GENDER": 0, "SCHOOL": 3}},
	}

	_, err := Evaluate(m, recs)

	var mm *SchemaMismatchError
	if !errors.As(err, &mm) {
		t.Fatalf("expected *SchemaMismatchError, got %T (%v)", err, err)
	}
	if mm.Record != 1 {
		t.Errorf("Record = %d, want 1", mm.Record)
	}
	if got := mm.Missing; len(got) != 2 || got[0] != "AGE" || got[1] != "FEMALE" {
		t.Errorf("Missing = %v, want [AGE FEMALE]", got)
	}
	if got := mm.Extra; len(got) != 2 || got[0] != "GENDER" || got[1] != "SCHOOL" {
		t.Errorf("Extra = %v, want [GENDER SCHOOL]", got)
	}
	if m.predictCalls != 0 {
		t.Error("model called despite schema mismatch")
	}
}

func TestEvaluate_RejectsInvalidProbability(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1.5, -0.1} {
		m := &stubModel{features: []string{"x"}, preds: []int{1, 0}, probs: []float64{0.2, bad}}

		_, err := Evaluate(m, records(1, 0))
		if err == nil {
			t.Fatalf("probability %v: expected error", bad)
		}
		if !strings.Contains(err.Error(), "stub") || !strings.Contains(err.Error(), "record 2") {
			t.Errorf("probability %v: error %q should name the model and record", bad, err)
		}
	}
}

func TestPredictOne_RejectsNaNProbability(t *testing.T) {
	m := &stubModel{preds: []int{0}, probs: []float64{math.NaN()}}

	if _, err := PredictOne(m, map[string]string{}); err == nil {
		t.Fatal("expected error for NaN probability")
	}
}
