package notfound

import (
	"strings"
	"testing"
)

func TestViewNamesKey(t *testing.T) {
	p := New("glossary")
	if p.Title() != "Not Found" {
		t.Errorf("title = %q", p.Title())
	}
	view := p.View(80, 20)
	if !strings.Contains(view, "glossary") || !strings.Contains(view, "Esc") {
		t.Errorf("unexpected view:\n%s", view)
	}
}
