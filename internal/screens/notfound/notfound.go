package notfound

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pisaph/pisaph/internal/screen"
	"github.com/pisaph/pisaph/internal/ui/theme"
)

// NotFoundScreen is shown for a navigation key with no catalog entry.
type NotFoundScreen struct {
	key string
}

var _ screen.Screen = (*NotFoundScreen)(nil)

// New creates a NotFoundScreen for key.
func New(key string) *NotFoundScreen {
	return &NotFoundScreen{key: key}
}

func (p *NotFoundScreen) Init() tea.Cmd {
	return nil
}

func (p *NotFoundScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return p, nil
}

func (p *NotFoundScreen) View(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render("╌╌ Section not found ╌╌\n\n" +
			theme.Hint.Render(p.key) +
			"\n\nThis section is not in the content catalog.\nPress Esc to go back.")
}

func (p *NotFoundScreen) Title() string {
	return "Not Found"
}
