package history

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/pisaph/pisaph/internal/store"
)

type stubRuns struct {
	store.RunRepo
	runs []store.EvaluationRun
	err  error
	opts store.QueryOpts
}

func (s *stubRuns) ListRuns(_ context.Context, opts store.QueryOpts) ([]store.EvaluationRun, error) {
	s.opts = opts
	return s.runs, s.err
}

func loaded(t *testing.T, repo store.RunRepo) *HistoryScreen {
	t.Helper()
	s := New(repo)
	s.Update(s.Init()())
	return s
}

func TestEmptyHistory(t *testing.T) {
	s := loaded(t, &stubRuns{})
	if !strings.Contains(s.View(100, 30), "No evaluation runs yet") {
		t.Error("expected empty state")
	}
}

func TestListsRunsWithLimit(t *testing.T) {
	repo := &stubRuns{runs: []store.EvaluationRun{
		{ID: "a", Timestamp: time.Now(), ModelName: "repeat-lr", Records: 1200, Accuracy: 0.9, F1: 0.5, ROCAUC: 0.81},
		{ID: "b", Timestamp: time.Now(), ModelName: "repeat-rf", Records: 1200, Accuracy: 0.8, ROCAUC: math.NaN()},
	}}
	s := loaded(t, repo)

	if repo.opts.Limit != listLimit {
		t.Errorf("limit = %d, want %d", repo.opts.Limit, listLimit)
	}
	view := s.View(120, 30)
	for _, want := range []string{"repeat-lr", "1,200 records", "0.810", "n/a"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestExpandShowsDetails(t *testing.T) {
	repo := &stubRuns{runs: []store.EvaluationRun{
		{ID: "a", ModelName: "m1", Timestamp: time.Now()},
		{ID: "b", ModelName: "m2", Timestamp: time.Now(), ModelPath: "model.json", TP: 7},
	}}
	s := loaded(t, repo)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	view := s.View(120, 30)
	if !strings.Contains(view, "model.json") || !strings.Contains(view, "TP 7") {
		t.Errorf("expected details of the second run, got:\n%s", view)
	}
	if strings.Contains(view, "run a ") {
		t.Error("first run should stay collapsed")
	}
}

func TestLoadError(t *testing.T) {
	s := loaded(t, &stubRuns{err: errors.New("database is locked")})
	if !strings.Contains(s.View(100, 30), "database is locked") {
		t.Error("expected error message")
	}
}
