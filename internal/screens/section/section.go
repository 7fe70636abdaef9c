// Package section renders a catalog entry as a scrollable screen.
package section

import (
	tea "charm.land/bubbletea/v2"

	"github.com/pisaph/pisaph/internal/catalog"
	"github.com/pisaph/pisaph/internal/screen"
	"github.com/pisaph/pisaph/internal/ui/components"
	"github.com/pisaph/pisaph/internal/ui/layout"
)

// SectionScreen shows one narrative section.
type SectionScreen struct {
	catalog *catalog.Catalog
	entry   catalog.Entry
	offset  int
}

var _ screen.Screen = (*SectionScreen)(nil)

// New creates a screen for entry.
func New(cat *catalog.Catalog, entry catalog.Entry) *SectionScreen {
	return &SectionScreen{catalog: cat, entry: entry}
}

func (s *SectionScreen) Init() tea.Cmd {
	return nil
}

func (s *SectionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		s.offset = Scroll(kmsg.String(), s.offset)
	}
	return s, nil
}

func (s *SectionScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	content := Render(s.catalog, s.entry, cw)
	visible, offset := layout.Scroll(content, s.offset, height)
	s.offset = offset
	return "  " + indent(visible)
}

func (s *SectionScreen) Title() string {
	return s.entry.Title
}

func (s *SectionScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Scroll applies a scroll key to offset. Unknown keys leave it unchanged.
func Scroll(key string, offset int) int {
	switch key {
	case "up", "k":
		return max(offset-1, 0)
	case "down", "j":
		return offset + 1
	case "pgup":
		return max(offset-10, 0)
	case "pgdown", "space", " ":
		return offset + 10
	case "home", "g":
		return 0
	}
	return offset
}
