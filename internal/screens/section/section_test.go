package section

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/pisaph/pisaph/internal/catalog"
)

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

func TestRenderEverySection(t *testing.T) {
	cat := defaultCatalog(t)
	for _, e := range cat.Sections() {
		out := Render(cat, e, 90)
		if !strings.Contains(out, e.Title) {
			t.Errorf("%s: title missing", e.Key)
		}
		if strings.Contains(out, "{") {
			t.Errorf("%s: unexpanded fact placeholder in output", e.Key)
		}
	}
}

func TestRenderUsesFacts(t *testing.T) {
	cat := defaultCatalog(t)
	e, err := cat.Lookup(catalog.KeyLanding)
	if err != nil {
		t.Fatal(err)
	}
	out := Render(cat, e, 90)
	for _, c := range cat.Cards(e) {
		if !strings.Contains(out, c.Value) {
			t.Errorf("card value %q missing", c.Value)
		}
	}
}

func TestScrollKeys(t *testing.T) {
	tests := []struct {
		key    string
		offset int
		want   int
	}{
		{"down", 0, 1},
		{"j", 3, 4},
		{"up", 0, 0},
		{"k", 5, 4},
		{"pgdown", 2, 12},
		{"pgup", 4, 0},
		{"home", 9, 0},
		{"x", 7, 7},
	}
	for _, tt := range tests {
		if got := Scroll(tt.key, tt.offset); got != tt.want {
			t.Errorf("Scroll(%q, %d) = %d, want %d", tt.key, tt.offset, got, tt.want)
		}
	}
}

func TestSectionScreenScrolls(t *testing.T) {
	cat := defaultCatalog(t)
	e, err := cat.Lookup(catalog.KeyEDA)
	if err != nil {
		t.Fatal(err)
	}
	s := New(cat, e)
	if s.Title() != e.Title {
		t.Errorf("title = %q", s.Title())
	}

	top := s.View(100, 5)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.View(100, 5) == top {
		t.Error("view should change after scrolling down")
	}
}
