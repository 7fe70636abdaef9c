// Package advisor shows an intervention plan drafted from the model's
// evaluation, for the whole holdout or for one student.
package advisor

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pisaph/pisaph/internal/advisor"
	"github.com/pisaph/pisaph/internal/catalog"
	"github.com/pisaph/pisaph/internal/evaluation"
	"github.com/pisaph/pisaph/internal/screen"
	"github.com/pisaph/pisaph/internal/screens/section"
	"github.com/pisaph/pisaph/internal/ui/components"
	"github.com/pisaph/pisaph/internal/ui/layout"
	"github.com/pisaph/pisaph/internal/ui/theme"
)

// Evaluator supplies the metrics and feature ranking the plan is based on.
type Evaluator interface {
	Run(ctx context.Context) (evaluation.Result, error)
	Importance() ([]evaluation.FeatureImportance, error)
}

// Recommender drafts the plan.
type Recommender interface {
	Enabled() bool
	Recommend(ctx context.Context, input advisor.Input) advisor.Plan
	Fallback(reason string) advisor.Plan
}

type planMsg struct {
	plan advisor.Plan
}

// AdvisorScreen requests a plan on open.
type AdvisorScreen struct {
	catalog  *catalog.Catalog
	entry    catalog.Entry
	eval     Evaluator
	rec      Recommender
	profile  map[string]string
	estimate *evaluation.Estimate

	plan   *advisor.Plan
	offset int
}

var _ screen.Screen = (*AdvisorScreen)(nil)
var _ screen.KeyHintProvider = (*AdvisorScreen)(nil)

// New creates an advisor screen for the whole model.
func New(cat *catalog.Catalog, entry catalog.Entry, eval Evaluator, rec Recommender) *AdvisorScreen {
	// The plan replaces the static list.
	entry.Recommendations = nil
	return &AdvisorScreen{catalog: cat, entry: entry, eval: eval, rec: rec}
}

// ForStudent creates an advisor screen focused on one student's estimate.
func ForStudent(cat *catalog.Catalog, entry catalog.Entry, eval Evaluator, rec Recommender,
	profile map[string]string, est evaluation.Estimate) *AdvisorScreen {
	s := New(cat, entry, eval, rec)
	s.profile = profile
	s.estimate = &est
	return s
}

func (s *AdvisorScreen) Init() tea.Cmd {
	eval, rec := s.eval, s.rec
	input := advisor.Input{Profile: s.profile, Estimate: s.estimate}
	return func() tea.Msg {
		ctx := context.Background()
		res, err := eval.Run(ctx)
		if err != nil {
			return planMsg{plan: rec.Fallback(fmt.Sprintf("model unavailable: %v", err))}
		}
		input.Result = res
		// A model without importance still gets a plan.
		input.Top, _ = eval.Importance()
		return planMsg{plan: rec.Recommend(ctx, input)}
	}
}

func (s *AdvisorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case planMsg:
		s.plan = &msg.plan
	case tea.KeyPressMsg:
		s.offset = section.Scroll(msg.String(), s.offset)
	}
	return s, nil
}

func (s *AdvisorScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	blocks := []string{section.Render(s.catalog, s.entry, cw)}

	if s.estimate != nil {
		blocks = append(blocks, s.renderStudent(cw))
	}

	if s.plan == nil {
		status := "Loading recommendations..."
		if s.rec.Enabled() {
			status = "Drafting an intervention plan..."
		}
		blocks = append(blocks, theme.Hint.Render(status))
	} else {
		blocks = append(blocks, renderPlan(*s.plan, cw))
	}

	visible, offset := layout.Scroll(strings.Join(blocks, "\n\n"), s.offset, height)
	s.offset = offset
	return lipgloss.NewStyle().PaddingLeft(2).Render(visible)
}

func (s *AdvisorScreen) renderStudent(width int) string {
	lines := []string{theme.Heading.Render("Student profile")}
	for _, k := range sortedKeys(s.profile) {
		lines = append(lines, fmt.Sprintf("%s: %s", k, s.profile[k]))
	}
	lines = append(lines, theme.Caution.Render(
		fmt.Sprintf("Estimated repetition risk %.1f%%", s.estimate.Probability*100)))
	return components.Card(strings.Join(lines, "\n"), width)
}

func renderPlan(plan advisor.Plan, width int) string {
	var lines []string
	if plan.Summary != "" {
		lines = append(lines, lipgloss.NewStyle().Width(width).Render(theme.Body.Render(plan.Summary)), "")
	}
	for i, r := range plan.Recommendations {
		lines = append(lines,
			theme.Body.Bold(true).Render(fmt.Sprintf("%d. %s", i+1, r.Title)),
			lipgloss.NewStyle().Width(width-3).PaddingLeft(3).Render(r.Rationale),
			theme.Hint.Render("   for "+r.Audience),
		)
	}

	var source string
	switch {
	case plan.Fallback && plan.Reason != "":
		source = "Standard recommendations (" + plan.Reason + ")"
	case plan.Fallback:
		source = "Standard recommendations"
	default:
		source = "Drafted by " + plan.Model + ". Review before acting on it."
	}
	lines = append(lines, "", theme.Hint.Render(source))
	return strings.Join(lines, "\n")
}

func (s *AdvisorScreen) Title() string {
	if s.estimate != nil {
		return "Student Advisor"
	}
	return s.entry.Title
}

func (s *AdvisorScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}
