// Package welcome shows the splash screen.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pisaph/pisaph/internal/router"
	"github.com/pisaph/pisaph/internal/screen"
	"github.com/pisaph/pisaph/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 2500 * time.Millisecond
)

// Bars grow left to right during the first phase.
var barHeights = []int{2, 3, 5, 4, 6}

type tickMsg time.Time

// WelcomeScreen shows a short splash animation, then replaces itself with
// the home screen on the first key press.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	title        string
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced
// by homeFactory. title is the dashboard title shown under the banner.
func New(title string, homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
		title:       title,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed >= totalDur {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	home := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: home}
	}
}

// chart draws the bar glyph, revealing one bar per tick.
func (w *WelcomeScreen) chart() string {
	shown := int(w.elapsed / tickInterval)
	tallest := 0
	for _, h := range barHeights {
		tallest = max(tallest, h)
	}
	rows := make([]string, tallest)
	for r := range rows {
		var b strings.Builder
		level := tallest - r
		for i, h := range barHeights {
			if i < shown && h >= level {
				b.WriteString("██ ")
			} else {
				b.WriteString("   ")
			}
		}
		rows[r] = b.String()
	}
	return lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Join(rows, "\n"))
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, w.chart())

	if w.elapsed >= phase1End {
		sections = append(sections, "", RenderBanner(width))
	}

	if w.elapsed >= phase2End {
		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(w.title)
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue")
		sections = append(sections, "", tagline, "", hint)
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
