package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/pisaph/pisaph/internal/ui/theme"
)

// Choice is an inline selector over a small fixed set of options, toggled
// with left/right or space.
type Choice struct {
	Options  []string
	Selected int
}

// NewChoice creates a selector with the first option chosen.
func NewChoice(options []string) Choice {
	return Choice{Options: options}
}

// Update handles keyboard selection.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(c.Options) == 0 {
		return c, nil
	}

	switch kmsg.String() {
	case "left", "h":
		if c.Selected > 0 {
			c.Selected--
		}
	case "right", "l":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "space", " ":
		c.Selected = (c.Selected + 1) % len(c.Options)
	}
	return c, nil
}

// Value returns the chosen option.
func (c Choice) Value() string {
	if c.Selected < 0 || c.Selected >= len(c.Options) {
		return ""
	}
	return c.Options[c.Selected]
}

// View renders the options with the chosen one marked. focused highlights
// the choice.
func (c Choice) View(focused bool) string {
	parts := make([]string, len(c.Options))
	for i, opt := range c.Options {
		switch {
		case i == c.Selected && focused:
			parts[i] = theme.Selected.Render("◉ " + opt)
		case i == c.Selected:
			parts[i] = theme.Unselected.Render("◉ " + opt)
		default:
			parts[i] = theme.Hint.Render("○ " + opt)
		}
	}
	return strings.Join(parts, "   ")
}
