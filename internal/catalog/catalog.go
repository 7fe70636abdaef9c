// Package catalog holds the narrative content of every dashboard section.
// Content is loaded once from YAML and never mutated.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

// Unit controls how a fact is formatted.
type Unit string

const (
	UnitCount   Unit = "count"
	UnitPercent Unit = "percent"
)

// Fact is one narrative number. Sections refer to facts by key so a number
// is stated in exactly one place.
type Fact struct {
	Label string  `yaml:"label"`
	Value float64 `yaml:"value"`
	Unit  Unit    `yaml:"unit"`
}

// Metric is a card showing a fact, optionally with a second fact as delta.
type Metric struct {
	Fact      string `yaml:"fact"`
	Label     string `yaml:"label,omitempty"`
	Icon      string `yaml:"icon,omitempty"`
	DeltaFact string `yaml:"delta_fact,omitempty"`
	DeltaText string `yaml:"delta_text,omitempty"`
}

// Finding is a headline result.
type Finding struct {
	Icon    string `yaml:"icon"`
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// Category groups related variables.
type Category struct {
	Title string   `yaml:"title"`
	Color string   `yaml:"color"`
	Items []string `yaml:"items"`
}

// BreakdownRow is one step of a count breakdown, such as feature reduction.
type BreakdownRow struct {
	Label string `yaml:"label"`
	Fact  string `yaml:"fact"`
	Note  string `yaml:"note,omitempty"`
}

// Theme is a titled block of commentary, used by the EDA section.
type Theme struct {
	Title  string   `yaml:"title"`
	Points []string `yaml:"points"`
	Asset  string   `yaml:"asset,omitempty"`
}

// Asset references an image or chart produced outside this program.
type Asset struct {
	Title   string `yaml:"title"`
	Source  string `yaml:"source"`
	Caption string `yaml:"caption,omitempty"`
}

// Recommendation is a static intervention suggestion.
type Recommendation struct {
	Title     string `yaml:"title"`
	Rationale string `yaml:"rationale"`
	Audience  string `yaml:"audience"`
}

// Entry is the display bundle for one section.
type Entry struct {
	Key             Key              `yaml:"key"`
	Title           string           `yaml:"title"`
	Icon            string           `yaml:"icon,omitempty"`
	Subtitle        string           `yaml:"subtitle,omitempty"`
	Body            []string         `yaml:"body,omitempty"`
	Metrics         []Metric         `yaml:"metrics,omitempty"`
	Findings        []Finding        `yaml:"findings,omitempty"`
	Categories      []Category       `yaml:"categories,omitempty"`
	Breakdown       []BreakdownRow   `yaml:"breakdown,omitempty"`
	Themes          []Theme          `yaml:"themes,omitempty"`
	Assets          []Asset          `yaml:"assets,omitempty"`
	Recommendations []Recommendation `yaml:"recommendations,omitempty"`
}

// MenuLabel is the navigation label: icon plus title.
func (e Entry) MenuLabel() string {
	if e.Icon == "" {
		return e.Title
	}
	return e.Icon + "  " + e.Title
}

type document struct {
	Title    string          `yaml:"title"`
	Footer   string          `yaml:"footer"`
	Facts    map[string]Fact `yaml:"facts"`
	Sections []Entry         `yaml:"sections"`
}

// Catalog is the validated set of sections and facts.
type Catalog struct {
	title    string
	footer   string
	facts    map[string]Fact
	sections []Entry
	byKey    map[Key]int
}

// UnknownSectionError is returned by Lookup for a key not in the catalog.
type UnknownSectionError struct {
	Key Key
}

func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("unknown section %q", string(e.Key))
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Load(defaultYAML)
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Load parses and validates catalog YAML.
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	c := &Catalog{
		title:  doc.Title,
		footer: doc.Footer,
		facts:  doc.Facts,
		byKey:  make(map[Key]int, len(doc.Sections)),
	}
	// Store sections in display order regardless of file order.
	for _, k := range AllKeys() {
		for _, e := range doc.Sections {
			if e.Key == k {
				c.byKey[k] = len(c.sections)
				c.sections = append(c.sections, e)
			}
		}
	}
	return c, nil
}

// Title is the dashboard title.
func (c *Catalog) Title() string { return c.title }

// Footer is the attribution line shown under every section.
func (c *Catalog) Footer() string { return c.footer }

// Lookup returns the section for key, or *UnknownSectionError.
func (c *Catalog) Lookup(key Key) (Entry, error) {
	i, ok := c.byKey[key]
	if !ok {
		return Entry{}, &UnknownSectionError{Key: key}
	}
	return c.sections[i], nil
}

// Sections returns all sections in display order.
func (c *Catalog) Sections() []Entry {
	return slices.Clone(c.sections)
}

// Fact returns a fact by key.
func (c *Catalog) Fact(key string) (Fact, bool) {
	f, ok := c.facts[key]
	return f, ok
}

// FactKeys returns every fact key, sorted.
func (c *Catalog) FactKeys() []string {
	keys := make([]string, 0, len(c.facts))
	for k := range c.facts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
