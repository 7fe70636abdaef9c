// Package app wires the screens into the Bubble Tea program.
package app

import (
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/pisaph/pisaph/internal/advisor"
	"github.com/pisaph/pisaph/internal/catalog"
	"github.com/pisaph/pisaph/internal/evaluation"
	"github.com/pisaph/pisaph/internal/router"
	"github.com/pisaph/pisaph/internal/screen"
	advisorscreen "github.com/pisaph/pisaph/internal/screens/advisor"
	"github.com/pisaph/pisaph/internal/screens/history"
	"github.com/pisaph/pisaph/internal/screens/home"
	"github.com/pisaph/pisaph/internal/screens/modelpanel"
	"github.com/pisaph/pisaph/internal/screens/notfound"
	"github.com/pisaph/pisaph/internal/screens/predict"
	"github.com/pisaph/pisaph/internal/screens/section"
	"github.com/pisaph/pisaph/internal/screens/welcome"
	"github.com/pisaph/pisaph/internal/store"
	"github.com/pisaph/pisaph/internal/ui/layout"
)

const brand = "PISA PH"

// Options holds the dependencies shared by every screen.
type Options struct {
	Catalog    *catalog.Catalog
	Evaluation *evaluation.Service
	Advisor    *advisor.Service // nil means catalog recommendations only
	Runs       store.RunRepo    // nil hides run history
	Log        *zap.Logger

	// SkipSplash starts on the home menu.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int
}

// newAppModel creates the root model with the welcome screen on top.
func newAppModel(opts Options) (AppModel, error) {
	if opts.Catalog == nil || opts.Evaluation == nil {
		return AppModel{}, errors.New("app: catalog and evaluation service are required")
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Advisor == nil {
		opts.Advisor = advisor.NewService(nil, opts.Catalog, advisor.DefaultConfig(), opts.Log)
	}

	m := AppModel{opts: opts}
	homeScreen := func() screen.Screen {
		var runs func() screen.Screen
		if opts.Runs != nil {
			runs = func() screen.Screen { return history.New(opts.Runs) }
		}
		return home.New(opts.Catalog, m.navigate, runs)
	}

	if opts.SkipSplash {
		m.router = router.New(homeScreen())
	} else {
		m.router = router.New(welcome.New(opts.Catalog.Title(), homeScreen))
	}
	return m, nil
}

// navigate builds the screen for a section key.
func (m AppModel) navigate(key catalog.Key) screen.Screen {
	cat := m.opts.Catalog
	entry, err := cat.Lookup(key)
	if err != nil {
		m.opts.Log.Warn("navigate to unknown section", zap.String("key", string(key)))
		return notfound.New(string(key))
	}

	switch key {
	case catalog.KeyFinalModel:
		return modelpanel.New(cat, entry, m.opts.Evaluation, modelpanel.ModeMetrics)
	case catalog.KeyFeatureImportance:
		return modelpanel.New(cat, entry, m.opts.Evaluation, modelpanel.ModeImportance)
	case catalog.KeyRecommendations:
		return advisorscreen.New(cat, entry, m.opts.Evaluation, m.opts.Advisor)
	case catalog.KeyRecommender:
		return predict.New(cat, entry, m.opts.Evaluation, m.studentAdvisor)
	}
	return section.New(cat, entry)
}

func (m AppModel) studentAdvisor(profile map[string]string, est evaluation.Estimate) screen.Screen {
	entry, err := m.opts.Catalog.Lookup(catalog.KeyRecommendations)
	if err != nil {
		return notfound.New(string(catalog.KeyRecommendations))
	}
	return advisorscreen.ForStudent(m.opts.Catalog, entry, m.opts.Evaluation, m.opts.Advisor, profile, est)
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.InputCapturer); ok && c.CapturingInput() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) status() string {
	if m.opts.Advisor.Enabled() {
		return "advisor: LLM  "
	}
	return "advisor: static  "
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(brand, title, m.status(), m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m, err := newAppModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
