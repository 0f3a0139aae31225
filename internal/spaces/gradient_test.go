package spaces

import (
	"errors"
	"testing"
)

func TestParseGradientPreset(t *testing.T) {
	gradient, err := ParseGradient("from-purple-600 to-pink-500")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gradient.Kind() != GradientPreset {
		t.Fatalf("expected preset kind, got %d", gradient.Kind())
	}
	if gradient.String() != "from-purple-600 to-pink-500" {
		t.Fatalf("preset should round-trip verbatim, got %q", gradient.String())
	}
}

func TestParseGradientCustomPair(t *testing.T) {
	gradient, err := ParseGradient("from-[#6366f1] to-[#a855f7]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gradient.Kind() != GradientCustom {
		t.Fatalf("expected custom kind, got %d", gradient.Kind())
	}
	start, end := gradient.Colors()
	if start != "#6366f1" || end != "#a855f7" {
		t.Fatalf("unexpected colors: %s %s", start, end)
	}
	if gradient.String() != "from-[#6366f1] to-[#a855f7]" {
		t.Fatalf("custom pair should round-trip, got %q", gradient.String())
	}
}

func TestParseGradientEmpty(t *testing.T) {
	gradient, err := ParseGradient("  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gradient.Kind() != GradientNone {
		t.Fatalf("expected none kind for blank input")
	}
	if gradient.String() != "" {
		t.Fatalf("blank gradient should encode to empty string, got %q", gradient.String())
	}
}

func TestParseGradientRejectsMalformedPairs(t *testing.T) {
	malformed := []string{
		"from-[#6366f1]",
		"from-[#6366f1] to-[purple]",
		"from-[6366f1] to-[#a855f7]",
		"from-[#66f1] to-[#a855f7]",
	}
	for _, raw := range malformed {
		if _, err := ParseGradient(raw); !errors.Is(err, ErrInvalidGradient) {
			t.Fatalf("expected ErrInvalidGradient for %q, got %v", raw, err)
		}
	}
}

func TestNewCustomGradientAcceptsShortHex(t *testing.T) {
	gradient, err := NewCustomGradient("#fff", "#000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gradient.String() != "from-[#fff] to-[#000]" {
		t.Fatalf("unexpected encoding: %q", gradient.String())
	}
}

func TestAllPresetsParseAsPresets(t *testing.T) {
	for _, preset := range PresetGradients {
		gradient, err := ParseGradient(preset)
		if err != nil {
			t.Fatalf("preset %q failed to parse: %v", preset, err)
		}
		if gradient.Kind() != GradientPreset {
			t.Fatalf("preset %q parsed as kind %d", preset, gradient.Kind())
		}
	}
}
