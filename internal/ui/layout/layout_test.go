package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{80, 24, false},
		{79, 24, true},
		{80, 23, true},
		{120, 40, false},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("PISA PH", "Final Model", "logreg", 100)
	if w := lipgloss.Width(h); w > 102 {
		t.Errorf("header width = %d, want at most 102", w)
	}
	for _, want := range []string{"PISA PH", "Final Model", "logreg"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestScroll(t *testing.T) {
	content := "a\nb\nc\nd\ne"

	got, off := Scroll(content, 0, 2)
	if got != "a\nb" || off != 0 {
		t.Errorf("Scroll(0) = %q, %d", got, off)
	}

	got, off = Scroll(content, 10, 2)
	if got != "d\ne" || off != 3 {
		t.Errorf("Scroll(10) = %q, %d; want clamped to last page", got, off)
	}

	got, off = Scroll(content, -3, 10)
	if got != content || off != 0 {
		t.Errorf("Scroll(-3) = %q, %d", got, off)
	}
}
