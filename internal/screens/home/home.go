// Package home is the navigation menu listing every dashboard section.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pisaph/pisaph/internal/catalog"
	"github.com/pisaph/pisaph/internal/router"
	"github.com/pisaph/pisaph/internal/screen"
	"github.com/pisaph/pisaph/internal/ui/components"
	"github.com/pisaph/pisaph/internal/ui/theme"
)

// Navigator builds the screen for a section key. It is never asked for a
// key outside the catalog, but must handle one gracefully.
type Navigator func(key catalog.Key) screen.Screen

// HomeScreen is the main menu.
type HomeScreen struct {
	catalog      *catalog.Catalog
	menu         components.Menu
	descriptions []string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home menu. history may be nil, in which case the Run
// History item is shown disabled.
func New(cat *catalog.Catalog, navigate Navigator, history func() screen.Screen) *HomeScreen {
	var items []components.MenuItem
	var descriptions []string
	for _, e := range cat.Sections() {
		key := e.Key
		items = append(items, components.MenuItem{
			Label:  e.MenuLabel(),
			Action: push(func() screen.Screen { return navigate(key) }),
		})
		descriptions = append(descriptions, cat.Expand(e.Subtitle))
	}

	runs := components.MenuItem{Label: "🗂  Run History"}
	if history != nil {
		runs.Action = push(history)
	} else {
		runs.Disabled = true
	}
	items = append(items, runs, components.MenuItem{
		Label:  "⏻  Quit",
		Action: func() tea.Cmd { return tea.Quit },
	})
	descriptions = append(descriptions, "Past evaluation runs and estimates", "")

	return &HomeScreen{
		catalog:      cat,
		menu:         components.NewMenu(items),
		descriptions: descriptions,
	}
}

func push(build func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		s := build()
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: s}
		}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	sections := []string{
		theme.Title.Render(h.catalog.Title()),
		components.Card(h.menu.View(), cw),
	}
	if d := h.descriptions[h.menu.Selected]; d != "" {
		sections = append(sections, lipgloss.NewStyle().Width(cw).Render(theme.Hint.Render(d)))
	}
	if footer := h.catalog.Footer(); footer != "" {
		sections = append(sections, theme.Hint.Render(footer))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
