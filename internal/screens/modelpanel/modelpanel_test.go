package modelpanel

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/pisaph/pisaph/internal/catalog"
	"github.com/pisaph/pisaph/internal/evaluation"
)

type stubEvaluator struct {
	runs    int
	result  evaluation.Result
	ranked  []evaluation.FeatureImportance
	err     error
	rankErr error
}

func (s *stubEvaluator) Run(context.Context) (evaluation.Result, error) {
	s.runs++
	return s.result, s.err
}

func (s *stubEvaluator) Importance() ([]evaluation.FeatureImportance, error) {
	return s.ranked, s.rankErr
}

func newPanel(t *testing.T, key catalog.Key, eval Evaluator, mode Mode) *PanelScreen {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	entry, err := cat.Lookup(key)
	if err != nil {
		t.Fatal(err)
	}
	return New(cat, entry, eval, mode)
}

func goodEvaluator() *stubEvaluator {
	return &stubEvaluator{
		result: evaluation.Result{
			Model: "repeat-lr", N: 200,
			Accuracy: 0.9, Precision: 0.75, Recall: 0.6, F1: 0.667, ROCAUC: 0.88,
			Confusion: evaluation.Confusion{TP: 30, FP: 10, TN: 150, FN: 10},
		},
		ranked: []evaluation.FeatureImportance{
			{Feature: "ESCS", Share: 0.6, Sign: -1},
			{Feature: "FEMALE", Share: 0.4, Sign: 1},
		},
	}
}

// load runs the panel's Init command and feeds the result back.
func load(p *PanelScreen) {
	p.Update(p.Init()())
}

func TestMetricsView(t *testing.T) {
	p := newPanel(t, catalog.KeyFinalModel, goodEvaluator(), ModeMetrics)

	if !strings.Contains(p.View(120, 200), "Evaluating") {
		t.Error("expected loading state before the result arrives")
	}
	load(p)

	view := p.View(120, 200)
	for _, want := range []string{"90.0%", "0.880", "repeat-lr on 200 holdout records", "Confusion matrix", "ESCS"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestUndefinedAUC(t *testing.T) {
	ev := goodEvaluator()
	ev.result.ROCAUC = math.NaN()
	p := newPanel(t, catalog.KeyFinalModel, ev, ModeMetrics)
	load(p)

	if !strings.Contains(p.View(120, 200), "n/a") {
		t.Error("NaN AUC should render as n/a")
	}
}

func TestEvaluationErrorRenderedInPanel(t *testing.T) {
	ev := &stubEvaluator{err: errors.New("open model.json: no such file")}
	p := newPanel(t, catalog.KeyFinalModel, ev, ModeMetrics)
	load(p)

	view := p.View(120, 200)
	if !strings.Contains(view, "Model unavailable") || !strings.Contains(view, "model.json") {
		t.Errorf("expected error card, got:\n%s", view)
	}
	if !strings.Contains(view, "Final Model") {
		t.Error("section text should still render alongside the error")
	}
	if !strings.Contains(view, "restart pisaph") || strings.Contains(view, "press r") {
		t.Error("load errors are memoized, so the hint should ask for a restart")
	}
}

func TestRerunOnR(t *testing.T) {
	ev := goodEvaluator()
	p := newPanel(t, catalog.KeyFinalModel, ev, ModeMetrics)
	load(p)

	_, cmd := p.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil {
		t.Fatal("r should start a new evaluation")
	}
	p.Update(cmd())
	if ev.runs != 2 {
		t.Errorf("runs = %d, want 2", ev.runs)
	}
}

func TestStaleResultIgnored(t *testing.T) {
	ev := goodEvaluator()
	p := newPanel(t, catalog.KeyFinalModel, ev, ModeMetrics)
	stale := p.Init()()
	p.evaluate()
	p.Update(stale)

	if !p.loading {
		t.Error("a result from an older run should not end loading")
	}
}

func TestImportanceMode(t *testing.T) {
	ev := goodEvaluator()
	p := newPanel(t, catalog.KeyFeatureImportance, ev, ModeImportance)
	load(p)

	if ev.runs != 0 {
		t.Error("importance mode should not run a full evaluation")
	}
	view := p.View(120, 200)
	if !strings.Contains(view, "Feature importance") || !strings.Contains(view, "FEMALE") {
		t.Errorf("expected ranking, got:\n%s", view)
	}
}

func TestImportanceUnsupported(t *testing.T) {
	ev := &stubEvaluator{rankErr: evaluation.ErrNoImportance}
	p := newPanel(t, catalog.KeyFeatureImportance, ev, ModeImportance)
	load(p)

	if !strings.Contains(p.View(120, 200), "does not expose feature importance") {
		t.Error("expected unsupported-model message")
	}
}
