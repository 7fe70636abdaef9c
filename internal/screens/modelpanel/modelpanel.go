// Package modelpanel shows live evaluation metrics and feature importance
// for the loaded model.
package modelpanel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pisaph/pisaph/internal/catalog"
	"github.com/pisaph/pisaph/internal/evaluation"
	"github.com/pisaph/pisaph/internal/screen"
	"github.com/pisaph/pisaph/internal/screens/section"
	"github.com/pisaph/pisaph/internal/ui/components"
	"github.com/pisaph/pisaph/internal/ui/layout"
	"github.com/pisaph/pisaph/internal/ui/theme"
)

// Evaluator is the part of evaluation.Service the panel needs.
type Evaluator interface {
	Run(ctx context.Context) (evaluation.Result, error)
	Importance() ([]evaluation.FeatureImportance, error)
}

// Mode selects what the panel computes.
type Mode int

const (
	// ModeMetrics evaluates the model and shows metrics plus the top features.
	ModeMetrics Mode = iota
	// ModeImportance shows the full feature ranking.
	ModeImportance
)

// summaryFeatures is how many features the metrics view lists.
const summaryFeatures = 5

type evaluatedMsg struct {
	gen        int
	result     evaluation.Result
	ranked     []evaluation.FeatureImportance
	err        error
	rankingErr error
}

// PanelScreen evaluates on open and again on "r".
type PanelScreen struct {
	catalog *catalog.Catalog
	entry   catalog.Entry
	eval    Evaluator
	mode    Mode

	gen        int
	loading    bool
	result     evaluation.Result
	ranked     []evaluation.FeatureImportance
	err        error
	rankingErr error
	offset     int
}

var _ screen.Screen = (*PanelScreen)(nil)
var _ screen.KeyHintProvider = (*PanelScreen)(nil)

// New creates a panel for entry.
func New(cat *catalog.Catalog, entry catalog.Entry, eval Evaluator, mode Mode) *PanelScreen {
	return &PanelScreen{catalog: cat, entry: entry, eval: eval, mode: mode}
}

func (p *PanelScreen) Init() tea.Cmd {
	return p.evaluate()
}

func (p *PanelScreen) evaluate() tea.Cmd {
	p.gen++
	p.loading = true
	gen, mode, eval := p.gen, p.mode, p.eval
	return func() tea.Msg {
		msg := evaluatedMsg{gen: gen}
		if mode == ModeMetrics {
			msg.result, msg.err = eval.Run(context.Background())
			if msg.err != nil {
				return msg
			}
		}
		msg.ranked, msg.rankingErr = eval.Importance()
		if mode == ModeImportance {
			msg.err, msg.rankingErr = msg.rankingErr, nil
		}
		return msg
	}
}

func (p *PanelScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case evaluatedMsg:
		if msg.gen != p.gen {
			return p, nil
		}
		p.loading = false
		p.result, p.ranked = msg.result, msg.ranked
		p.err, p.rankingErr = msg.err, msg.rankingErr
		return p, nil

	case tea.KeyPressMsg:
		if msg.String() == "r" && !p.loading {
			return p, p.evaluate()
		}
		p.offset = section.Scroll(msg.String(), p.offset)
	}
	return p, nil
}

func (p *PanelScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	blocks := []string{section.Render(p.catalog, p.entry, cw)}
	switch {
	case p.loading:
		blocks = append(blocks, theme.Hint.Render("Evaluating model..."))
	case p.err != nil:
		blocks = append(blocks, renderError(p.err, cw))
	case p.mode == ModeMetrics:
		blocks = append(blocks, renderMetrics(p.result, cw), renderConfusion(p.result.Confusion))
		if p.rankingErr == nil {
			blocks = append(blocks, renderRanking("Top features", evaluation.Top(p.ranked, summaryFeatures), cw))
		}
	default:
		blocks = append(blocks, renderRanking("Feature importance", p.ranked, cw))
	}

	visible, offset := layout.Scroll(strings.Join(blocks, "\n\n"), p.offset, height)
	p.offset = offset
	return lipgloss.NewStyle().PaddingLeft(2).Render(visible)
}

func (p *PanelScreen) Title() string {
	return p.entry.Title
}

func (p *PanelScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "r", Description: "Re-run"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func renderError(err error, width int) string {
	msg := err.Error()
	if errors.Is(err, evaluation.ErrNoImportance) {
		msg = "This model does not expose feature importance."
	}
	body := theme.Negative.Render("Model unavailable") + "\n" +
		lipgloss.NewStyle().Width(width-4).Render(msg) + "\n\n" +
		theme.Hint.Render("Check the model and holdout paths, then restart pisaph to reload them.")
	return components.Card(body, width)
}

func renderMetrics(res evaluation.Result, width int) string {
	type metric struct {
		label string
		value string
	}
	metrics := []metric{
		{"Accuracy", percent(res.Accuracy)},
		{"Precision", percent(res.Precision)},
		{"Recall", percent(res.Recall)},
		{"F1", fmt.Sprintf("%.3f", res.F1)},
		{"ROC-AUC", "n/a"},
	}
	if res.HasAUC() {
		metrics[4].value = fmt.Sprintf("%.3f", res.ROCAUC)
	}
	row := components.CardRow(width, func(cw int) []string {
		out := make([]string, len(metrics))
		for i, m := range metrics {
			out[i] = components.MetricCard("", m.label, m.value, "", cw)
		}
		return out
	})
	caption := theme.Hint.Render(fmt.Sprintf("%s on %d holdout records", res.Model, res.N))
	return row + "\n" + caption
}

func renderConfusion(c evaluation.Confusion) string {
	lines := []string{
		theme.Heading.Render("Confusion matrix"),
		fmt.Sprintf("%-16s %10s %10s", "", "pred. 0", "pred. 1"),
		fmt.Sprintf("%-16s %10d %10s", "actual 0", c.TN, theme.Caution.Render(fmt.Sprintf("%10d", c.FP))),
		fmt.Sprintf("%-16s %10s %10d", "actual 1", theme.Caution.Render(fmt.Sprintf("%10d", c.FN)), c.TP),
	}
	return strings.Join(lines, "\n")
}

func renderRanking(heading string, ranked []evaluation.FeatureImportance, width int) string {
	labelWidth := 0
	for _, fi := range ranked {
		labelWidth = max(labelWidth, lipgloss.Width(fi.Feature)+2)
	}
	lines := []string{theme.Heading.Render(heading)}
	for _, fi := range ranked {
		bar := components.ProgressBar{
			Label:       fi.Feature + " " + direction(fi.Sign),
			LabelWidth:  labelWidth,
			Percent:     fi.Share,
			ShowPercent: true,
			Width:       width,
		}
		lines = append(lines, bar.View())
	}
	if len(ranked) > 0 && ranked[0].Sign != 0 {
		lines = append(lines, theme.Hint.Render("▲ raises repetition risk  ▼ lowers it"))
	}
	return strings.Join(lines, "\n")
}

func direction(sign int) string {
	switch {
	case sign > 0:
		return theme.Negative.Render("▲")
	case sign < 0:
		return theme.Positive.Render("▼")
	}
	return " "
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
