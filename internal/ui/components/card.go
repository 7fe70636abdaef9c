package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pisaph/pisaph/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for section content.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 96)
}

// Card wraps content in a rounded border at the given outer width.
func Card(content string, width int) string {
	return theme.Card.Width(width).Render(content)
}

// MetricCard renders one headline number with its label and an optional
// comparison line.
func MetricCard(icon, label, value, delta string, width int) string {
	lines := []string{
		theme.Subtitle.Render(strings.TrimSpace(icon + " " + label)),
		theme.Heading.Render(value),
	}
	if delta != "" {
		lines = append(lines, theme.Caution.Render(delta))
	}
	return Card(strings.Join(lines, "\n"), width)
}

// CardRow lays out cards side by side, splitting width evenly. Narrow
// terminals stack them instead.
func CardRow(width int, render func(cardWidth int) []string) string {
	const minCard = 22
	first := render(minCard)
	if len(first) == 0 {
		return ""
	}
	cardWidth := width / len(first)
	if cardWidth < minCard {
		return lipgloss.JoinVertical(lipgloss.Left, render(width)...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, render(cardWidth)...)
}
