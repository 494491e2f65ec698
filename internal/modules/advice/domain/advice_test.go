package domain_test

import (
	"errors"
	"strings"
	"testing"

	"brewlog/internal/modules/advice/domain"
)

func TestPromptAndContextFormat(t *testing.T) {
	t.Parallel()
	ctx := domain.BrewContext("Sunday Stout", "Irish Dry Stout", "Mashing", "mashed at 152F")
	if ctx != "Beer Name: Sunday Stout, Style: Irish Dry Stout. Current Phase: Mashing. Phase Notes: mashed at 152F" {
		t.Fatalf("unexpected context %q", ctx)
	}
	q, err := domain.NewQuery("Mashing", "  is 152F too hot? ", ctx)
	if err != nil {
		t.Fatalf("new query: %v", err)
	}
	want := "Current Phase: Mashing. \nBrew Details: " + ctx + ". \nUser Question: is 152F too hot?"
	if q.Prompt() != want {
		t.Fatalf("unexpected prompt:\n%q\nwant\n%q", q.Prompt(), want)
	}
	if _, err := domain.NewQuery("Mashing", "   ", ctx); err == nil {
		t.Fatalf("empty question must be rejected")
	}
	if !strings.Contains(domain.SystemInstruction, "both Celsius and Fahrenheit") {
		t.Fatalf("system instruction lost the unit rule")
	}
}

func TestResolveNeverFails(t *testing.T) {
	t.Parallel()
	if a := domain.Resolve("gemini", "", errors.New("quota")); a.Text != domain.FallbackFailure || !a.Fallback {
		t.Fatalf("expected failure fallback, got %+v", a)
	}
	if a := domain.Resolve("gemini", "  \n", nil); a.Text != domain.FallbackEmpty || !a.Fallback {
		t.Fatalf("expected empty fallback, got %+v", a)
	}
	if a := domain.Resolve("plugin", " Hold at 152F. ", nil); a.Text != "Hold at 152F." || a.Fallback || a.Provider != "plugin" {
		t.Fatalf("unexpected answer %+v", a)
	}
}

func TestManifestValidate(t *testing.T) {
	t.Parallel()
	m := domain.Manifest{Name: "tips", Version: "1.0.0", Binary: "bin/tips", SHA256: strings.Repeat("a", 64), Enabled: true}
	if err := m.Validate(); err != nil {
		t.Fatalf("valid manifest rejected: %v", err)
	}
	m.SHA256 = strings.Repeat("A", 64)
	if err := m.Validate(); err == nil {
		t.Fatalf("uppercase checksum must be rejected")
	}
	m.SHA256 = strings.Repeat("a", 64)
	m.Binary = ""
	if err := m.Validate(); err == nil {
		t.Fatalf("missing binary must be rejected")
	}
}
