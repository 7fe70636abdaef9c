package catalog

import (
	"fmt"
	"math"
	"regexp"

	"github.com/dustin/go-humanize"
)

// Card is a metric ready for display.
type Card struct {
	Icon  string
	Label string
	Value string
	Delta string
}

// Format renders a fact value: counts with thousands separators,
// percentages with one decimal.
func (f Fact) Format() string {
	switch f.Unit {
	case UnitPercent:
		return fmt.Sprintf("%.1f%%", f.Value)
	default:
		if f.Value == math.Trunc(f.Value) {
			return humanize.Comma(int64(f.Value))
		}
		return humanize.Commaf(f.Value)
	}
}

// Cards resolves an entry's metrics against the catalog facts.
func (c *Catalog) Cards(e Entry) []Card {
	cards := make([]Card, 0, len(e.Metrics))
	for _, m := range e.Metrics {
		f := c.facts[m.Fact]
		card := Card{Icon: m.Icon, Label: m.Label, Value: f.Format()}
		if card.Label == "" {
			card.Label = f.Label
		}
		if m.DeltaFact != "" {
			card.Delta = c.facts[m.DeltaFact].Format()
			if m.DeltaText != "" {
				card.Delta += " " + m.DeltaText
			}
		}
		cards = append(cards, card)
	}
	return cards
}

// FormatFact formats a fact by key, or returns "?" for an unknown key.
func (c *Catalog) FormatFact(key string) string {
	f, ok := c.facts[key]
	if !ok {
		return "?"
	}
	return f.Format()
}

var placeholder = regexp.MustCompile(`\{([a-z0-9_]+)\}`)

// Expand replaces {fact_key} placeholders in narrative text with the
// formatted fact.
func (c *Catalog) Expand(s string) string {
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		return c.FormatFact(m[1 : len(m)-1])
	})
}

// factRefs lists the fact keys referenced by placeholders in s.
func factRefs(s string) []string {
	var out []string
	for _, m := range placeholder.FindAllStringSubmatch(s, -1) {
		out = append(out, m[1])
	}
	return out
}

// texts returns every narrative string of an entry that may carry
// placeholders.
func (e Entry) texts() []string {
	out := []string{e.Subtitle}
	out = append(out, e.Body...)
	for _, f := range e.Findings {
		out = append(out, f.Content)
	}
	for _, b := range e.Breakdown {
		out = append(out, b.Note)
	}
	for _, t := range e.Themes {
		out = append(out, t.Points...)
	}
	for _, r := range e.Recommendations {
		out = append(out, r.Rationale)
	}
	return out
}
