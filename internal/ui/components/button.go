package components

import (
	"github.com/pisaph/pisaph/internal/ui/theme"
)

// Button is a styled button. It has no behaviour of its own; the owning
// screen decides what Enter does when the button is focused.
type Button struct {
	Label   string
	Focused bool
}

// NewButton creates a new button.
func NewButton(label string) Button {
	return Button{Label: label}
}

// View renders the button.
func (b Button) View() string {
	if b.Focused {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}
