package section

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pisaph/pisaph/internal/catalog"
	"github.com/pisaph/pisaph/internal/ui/components"
	"github.com/pisaph/pisaph/internal/ui/theme"
)

// Render lays out every part of an entry that is present, top to bottom.
// Other screens use it for their introductory text.
func Render(cat *catalog.Catalog, e catalog.Entry, width int) string {
	var blocks []string

	head := theme.Title.Render(strings.TrimSpace(e.Icon + " " + e.Title))
	if e.Subtitle != "" {
		head += "\n" + theme.Subtitle.Render(cat.Expand(e.Subtitle))
	}
	blocks = append(blocks, head)

	if cards := cat.Cards(e); len(cards) > 0 {
		blocks = append(blocks, components.CardRow(width, func(cw int) []string {
			out := make([]string, len(cards))
			for i, c := range cards {
				out[i] = components.MetricCard(c.Icon, c.Label, c.Value, c.Delta, cw)
			}
			return out
		}))
	}

	for _, p := range e.Body {
		blocks = append(blocks, wrap(cat.Expand(p), width))
	}

	if len(e.Findings) > 0 {
		lines := []string{theme.Heading.Render("Key findings")}
		for _, f := range e.Findings {
			lines = append(lines, theme.Body.Bold(true).Render(strings.TrimSpace(f.Icon+" "+f.Title)))
			lines = append(lines, wrap(cat.Expand(f.Content), width-2))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	if len(e.Categories) > 0 {
		blocks = append(blocks, renderCategories(e.Categories, width))
	}

	if len(e.Breakdown) > 0 {
		blocks = append(blocks, renderBreakdown(cat, e.Breakdown))
	}

	for _, t := range e.Themes {
		lines := []string{theme.Heading.Render(t.Title)}
		for _, p := range t.Points {
			lines = append(lines, wrap("• "+cat.Expand(p), width-2))
		}
		if t.Asset != "" {
			lines = append(lines, theme.Hint.Render("chart: "+t.Asset))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	if len(e.Recommendations) > 0 {
		lines := []string{theme.Heading.Render("Recommendations")}
		for i, r := range e.Recommendations {
			lines = append(lines, theme.Body.Bold(true).Render(fmt.Sprintf("%d. %s", i+1, r.Title)))
			lines = append(lines, wrap(cat.Expand(r.Rationale), width-3))
			lines = append(lines, theme.Hint.Render("   for "+r.Audience))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	for _, a := range e.Assets {
		line := theme.Hint.Render(fmt.Sprintf("▣ %s (%s)", a.Title, a.Source))
		if a.Caption != "" {
			line += "\n" + theme.Hint.Render("  "+a.Caption)
		}
		blocks = append(blocks, line)
	}

	return strings.Join(blocks, "\n\n")
}

func renderCategories(cats []catalog.Category, width int) string {
	return components.CardRow(width, func(cw int) []string {
		out := make([]string, len(cats))
		for i, c := range cats {
			lines := []string{theme.Tint(c.Color).Bold(true).Render(c.Title)}
			for _, item := range c.Items {
				lines = append(lines, "• "+item)
			}
			out[i] = components.Card(strings.Join(lines, "\n"), cw)
		}
		return out
	})
}

func renderBreakdown(cat *catalog.Catalog, rows []catalog.BreakdownRow) string {
	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.Label))
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		line := fmt.Sprintf("%-*s  %6s", labelWidth, r.Label, cat.FormatFact(r.Fact))
		if r.Note != "" {
			line += "  " + theme.Hint.Render(cat.Expand(r.Note))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(max(width, 10)).Render(s)
}
