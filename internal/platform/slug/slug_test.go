package slug_test

import (
	"strings"
	"testing"

	"brewlog/internal/platform/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Sunday Stout":      "sunday-stout",
		"  Sunday Stout #2": "sunday-stout-2",
		"Märzen / Oktober":  "märzen-oktober",
		"!!!":               "brew",
	}
	for in, want := range cases {
		if got := slug.Make(in); got != want {
			t.Fatalf("Make(%q): want %q got %q", in, want, got)
		}
	}
	if got := slug.Make(strings.Repeat("ipa ", 40)); len([]rune(got)) > 90 {
		t.Fatalf("slug not capped: %d runes", len([]rune(got)))
	}
}
