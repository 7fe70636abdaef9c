// Package history lists past evaluation runs.
package history

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/pisaph/pisaph/internal/screen"
	"github.com/pisaph/pisaph/internal/store"
	"github.com/pisaph/pisaph/internal/ui/layout"
	"github.com/pisaph/pisaph/internal/ui/theme"
)

const listLimit = 50

type historyLoadedMsg struct {
	Runs []store.EvaluationRun
	Err  error
}

// HistoryScreen displays recorded evaluation runs, newest first.
type HistoryScreen struct {
	runs     store.RunRepo
	records  []store.EvaluationRun
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(runs store.RunRepo) *HistoryScreen {
	return &HistoryScreen{
		runs:     runs,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	runs := s.runs
	return func() tea.Msg {
		records, err := runs.ListRuns(context.Background(), store.QueryOpts{Limit: listLimit})
		return historyLoadedMsg{Runs: records, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Run History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Runs
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No evaluation runs yet. Open Final Model to run one.")
	}

	var lines []string
	selectedLine := 0
	for i, run := range s.records {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
			selectedLine = len(lines)
		}

		line := fmt.Sprintf("%s%s  %-20s %s records  acc %.1f%%  F1 %.3f  AUC %s",
			prefix, run.Timestamp.Local().Format("Jan 02 15:04"), run.ModelName,
			humanize.Comma(int64(run.Records)), run.Accuracy*100, run.F1, auc(run.ROCAUC))
		lines = append(lines, style.Render(line))

		if s.expanded[i] {
			lines = append(lines, details(run)...)
		}
	}

	// Keep the selection on screen.
	offset := max(selectedLine-height+3, 0)
	visible, _ := layout.Scroll("\n"+strings.Join(lines, "\n"), offset, height)
	return lipgloss.NewStyle().PaddingLeft(2).Render(visible)
}

func details(run store.EvaluationRun) []string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	return []string{
		dim.Render(fmt.Sprintf("      run %s (%s)", run.ID, humanize.Time(run.Timestamp))),
		dim.Render(fmt.Sprintf("      model   %s [%s]", run.ModelPath, run.ModelKind)),
		dim.Render(fmt.Sprintf("      holdout %s", run.HoldoutPath)),
		dim.Render(fmt.Sprintf("      precision %.3f  recall %.3f", run.Precision, run.Recall)),
		dim.Render(fmt.Sprintf("      TP %d  FP %d  TN %d  FN %d", run.TP, run.FP, run.TN, run.FN)),
	}
}

func auc(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}
