// Package predict is the single-student estimate form. Its fields are
// built from the model's encoding contract.
package predict

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pisaph/pisaph/internal/catalog"
	"github.com/pisaph/pisaph/internal/evaluation"
	"github.com/pisaph/pisaph/internal/model"
	"github.com/pisaph/pisaph/internal/router"
	"github.com/pisaph/pisaph/internal/screen"
	"github.com/pisaph/pisaph/internal/screens/section"
	"github.com/pisaph/pisaph/internal/ui/components"
	"github.com/pisaph/pisaph/internal/ui/layout"
	"github.com/pisaph/pisaph/internal/ui/theme"
)

// Estimator is the part of evaluation.Service the form needs.
type Estimator interface {
	Contract() (model.Contract, error)
	Estimate(ctx context.Context, input map[string]string) (evaluation.Estimate, error)
}

// AdvisorOpener builds the advisor screen for one student profile.
type AdvisorOpener func(profile map[string]string, est evaluation.Estimate) screen.Screen

const inputWidth = 12

type contractLoadedMsg struct {
	contract model.Contract
	err      error
}

type estimatedMsg struct {
	estimate evaluation.Estimate
	err      error
}

type field struct {
	def    model.Field
	input  components.TextInput
	choice components.Choice
}

func (f *field) value() string {
	if f.def.Kind == model.FieldCategorical {
		return f.choice.Value()
	}
	return f.input.Value()
}

// FormScreen collects one student's inputs and shows the estimate.
type FormScreen struct {
	catalog *catalog.Catalog
	entry   catalog.Entry
	est     Estimator
	advisor AdvisorOpener

	fields  []*field
	focus   int // index into fields, then the buttons
	loaded  bool
	loadErr error

	submitting bool
	estimate   *evaluation.Estimate
	inputErr   *model.EncodingError
	err        error
}

var _ screen.Screen = (*FormScreen)(nil)
var _ screen.KeyHintProvider = (*FormScreen)(nil)
var _ screen.InputCapturer = (*FormScreen)(nil)

// New creates the form. advisor may be nil.
func New(cat *catalog.Catalog, entry catalog.Entry, est Estimator, advisor AdvisorOpener) *FormScreen {
	return &FormScreen{catalog: cat, entry: entry, est: est, advisor: advisor}
}

func (s *FormScreen) Init() tea.Cmd {
	est := s.est
	return func() tea.Msg {
		c, err := est.Contract()
		return contractLoadedMsg{contract: c, err: err}
	}
}

func (s *FormScreen) buttons() int {
	if s.advisor != nil && s.estimate != nil {
		return 2
	}
	return 1
}

func (s *FormScreen) setFields(c model.Contract) tea.Cmd {
	s.fields = make([]*field, len(c.Fields))
	for i, def := range c.Fields {
		f := &field{def: def}
		if def.Kind == model.FieldCategorical {
			f.choice = components.NewChoice(def.LevelLabels())
		} else {
			f.input = components.NewTextInput(placeholder(def), true, inputWidth)
		}
		s.fields[i] = f
	}
	return s.setFocus(0)
}

func placeholder(f model.Field) string {
	switch {
	case f.Min != nil && f.Max != nil:
		return fmt.Sprintf("%g to %g", *f.Min, *f.Max)
	case f.Min != nil:
		return fmt.Sprintf(">= %g", *f.Min)
	case f.Max != nil:
		return fmt.Sprintf("<= %g", *f.Max)
	}
	return "number"
}

func (s *FormScreen) setFocus(i int) tea.Cmd {
	total := len(s.fields) + s.buttons()
	s.focus = (i + total) % total
	var cmd tea.Cmd
	for j, f := range s.fields {
		if f.def.Kind == model.FieldCategorical {
			continue
		}
		if j == s.focus {
			cmd = f.input.Focus()
		} else {
			f.input.Blur()
		}
	}
	return cmd
}

// CapturingInput reports whether a text field has focus.
func (s *FormScreen) CapturingInput() bool {
	if s.focus >= len(s.fields) {
		return false
	}
	return s.fields[s.focus].def.Kind != model.FieldCategorical
}

// Input returns the current form values keyed by feature name.
func (s *FormScreen) Input() map[string]string {
	out := make(map[string]string, len(s.fields))
	for _, f := range s.fields {
		out[f.def.Name] = f.value()
	}
	return out
}

func (s *FormScreen) profile() map[string]string {
	out := make(map[string]string, len(s.fields))
	for _, f := range s.fields {
		out[f.def.DisplayLabel()] = f.value()
	}
	return out
}

func (s *FormScreen) submit() tea.Cmd {
	s.submitting = true
	est, input := s.est, s.Input()
	return func() tea.Msg {
		e, err := est.Estimate(context.Background(), input)
		return estimatedMsg{estimate: e, err: err}
	}
}

func (s *FormScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case contractLoadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.loadErr = msg.err
			return s, nil
		}
		return s, s.setFields(msg.contract)

	case estimatedMsg:
		s.submitting = false
		s.estimate, s.inputErr, s.err = nil, nil, nil
		if msg.err != nil {
			var encErr *model.EncodingError
			if errors.As(msg.err, &encErr) {
				s.inputErr = encErr
				return s, s.focusField(encErr.Field)
			}
			s.err = msg.err
			return s, nil
		}
		e := msg.estimate
		s.estimate = &e
		return s, nil

	case tea.KeyPressMsg:
		if !s.loaded || s.loadErr != nil {
			return s, nil
		}
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *FormScreen) focusField(name string) tea.Cmd {
	for i, f := range s.fields {
		if f.def.Name == name {
			return s.setFocus(i)
		}
	}
	return nil
}

func (s *FormScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		return s.setFocus(s.focus + 1)
	case "shift+tab", "up":
		return s.setFocus(s.focus - 1)
	case "esc":
		// Leave the text field; the next Esc navigates back.
		return s.setFocus(len(s.fields))
	case "enter":
		switch {
		case s.focus < len(s.fields):
			return s.setFocus(s.focus + 1)
		case s.focus == len(s.fields):
			if s.submitting {
				return nil
			}
			return s.submit()
		default:
			profile, est := s.profile(), *s.estimate
			next := s.advisor(profile, est)
			return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}
	}

	if s.focus >= len(s.fields) {
		return nil
	}
	f := s.fields[s.focus]
	var cmd tea.Cmd
	if f.def.Kind == model.FieldCategorical {
		f.choice, cmd = f.choice.Update(msg)
	} else {
		f.input, cmd = f.input.Update(msg)
	}
	return cmd
}

func (s *FormScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	blocks := []string{section.Render(s.catalog, s.entry, cw)}

	switch {
	case !s.loaded:
		blocks = append(blocks, theme.Hint.Render("Loading model..."))
	case s.loadErr != nil:
		blocks = append(blocks, components.Card(
			theme.Negative.Render("Model unavailable")+"\n"+
				lipgloss.NewStyle().Width(cw-4).Render(s.loadErr.Error()), cw))
	default:
		blocks = append(blocks, s.renderForm(cw))
		if r := s.renderResult(cw); r != "" {
			blocks = append(blocks, r)
		}
	}

	// Keep the form in view: show the bottom of the content when it
	// does not fit.
	content := strings.Join(blocks, "\n\n")
	offset := max(lipgloss.Height(content)-height, 0)
	visible, _ := layout.Scroll(content, offset, height)
	return lipgloss.NewStyle().PaddingLeft(2).Render(visible)
}

func (s *FormScreen) renderForm(width int) string {
	labelWidth := 0
	for _, f := range s.fields {
		labelWidth = max(labelWidth, lipgloss.Width(f.def.DisplayLabel()))
	}

	var lines []string
	for i, f := range s.fields {
		focused := i == s.focus
		label := fmt.Sprintf("%-*s", labelWidth, f.def.DisplayLabel())
		if focused {
			label = theme.Selected.Render(label)
		} else {
			label = theme.Body.Render(label)
		}
		var control string
		if f.def.Kind == model.FieldCategorical {
			control = f.choice.View(focused)
		} else {
			control = f.input.View()
		}
		line := label + "  " + control
		if focused && f.def.Help != "" {
			line += "  " + theme.Hint.Render(f.def.Help)
		}
		if s.inputErr != nil && s.inputErr.Field == f.def.Name {
			line += "\n" + strings.Repeat(" ", labelWidth+2) + theme.Negative.Render(s.inputErr.Reason)
		}
		lines = append(lines, line)
	}

	estimate := components.NewButton("Estimate")
	estimate.Focused = s.focus == len(s.fields)
	row := estimate.View()
	if s.buttons() == 2 {
		ask := components.NewButton("Ask advisor")
		ask.Focused = s.focus == len(s.fields)+1
		row += "  " + ask.View()
	}
	lines = append(lines, "", row)
	return components.Card(strings.Join(lines, "\n"), width)
}

func (s *FormScreen) renderResult(width int) string {
	switch {
	case s.submitting:
		return theme.Hint.Render("Estimating...")
	case s.err != nil:
		return theme.Negative.Render(s.err.Error())
	case s.estimate == nil:
		return ""
	}

	e := s.estimate
	verdict := theme.Positive.Render("Not likely to repeat a grade")
	if e.Label == 1 {
		verdict = theme.Negative.Render("Likely to repeat a grade")
	}
	bar := components.ProgressBar{Label: "Repetition risk", Percent: e.Probability, ShowPercent: true, Width: width - 4}
	lines := []string{
		theme.Heading.Render("Estimate"),
		bar.View(),
		verdict + theme.Hint.Render(fmt.Sprintf("  (threshold %.0f%%)", e.Threshold*100)),
	}
	return components.Card(strings.Join(lines, "\n"), width)
}

func (s *FormScreen) Title() string {
	return s.entry.Title
}

func (s *FormScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "←→", Description: "Choose"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Back"},
	}
}
