package contract

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

// FuzzTruncateLabel checks that truncated labels always fit the requested width.
func FuzzTruncateLabel(f *testing.F) {
	seeds := []struct {
		label string
		width int
	}{
		{"Big Bang", 4},
		{"Cambrian explosion", 12},
		{"恐竜の絶滅", 5},
		{"", 3},
		{"a", 0},
	}
	for _, seed := range seeds {
		f.Add(seed.label, seed.width)
	}

	f.Fuzz(func(t *testing.T, label string, width int) {
		if width > 1000 {
			width = 1000
		}
		got := TruncateLabel(label, width)
		if width <= 0 && got != "" {
			t.Fatalf("width %d should produce an empty label, got %q", width, got)
		}
		if w := runewidth.StringWidth(got); width > 0 && w > width {
			t.Fatalf("label %q has width %d > %d", got, w, width)
		}
	})
}
