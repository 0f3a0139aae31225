package spaces

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// GradientKind tags the two gradient representations.
type GradientKind int

const (
	// GradientNone means no gradient was supplied.
	GradientNone GradientKind = iota
	// GradientPreset names one of the built-in color pairs.
	GradientPreset
	// GradientCustom carries an explicit start/end hex pair.
	GradientCustom
)

// ErrInvalidGradient indicates a gradient descriptor that is neither a
// preset name nor a well-formed custom color pair.
var ErrInvalidGradient = errors.New("spaces: invalid gradient")

var (
	hexColorPattern  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	customPairFormat = regexp.MustCompile(`^from-\[(#[0-9a-fA-F]{3}(?:[0-9a-fA-F]{3})?)\] to-\[(#[0-9a-fA-F]{3}(?:[0-9a-fA-F]{3})?)\]$`)
)

// PresetGradients lists the built-in preset values offered by the picker.
var PresetGradients = []string{
	"from-purple-600 to-pink-500",
	"from-blue-500 to-teal-400",
	"from-red-500 to-orange-400",
	"from-green-500 to-teal-400",
	"from-indigo-500 to-purple-500",
	"from-yellow-400 to-orange-500",
	"from-green-400 to-blue-500",
	"from-pink-500 to-rose-500",
	"from-violet-600 to-yellow-400",
	"from-emerald-400 to-cyan-400",
}

// Gradient is the tagged variant behind the legacy string encoding: either
// a preset name or a custom start/end color pair. The bracket string form
// exists only at the storage and transport boundary.
type Gradient struct {
	kind       GradientKind
	preset     string
	startColor string
	endColor   string
}

// Kind returns the variant tag.
func (g Gradient) Kind() GradientKind {
	return g.kind
}

// Preset returns the preset name for GradientPreset gradients.
func (g Gradient) Preset() string {
	return g.preset
}

// Colors returns the start and end hex colors for GradientCustom gradients.
func (g Gradient) Colors() (string, string) {
	return g.startColor, g.endColor
}

// NewCustomGradient builds a custom gradient from two hex colors.
func NewCustomGradient(startColor, endColor string) (Gradient, error) {
	start := strings.TrimSpace(startColor)
	end := strings.TrimSpace(endColor)
	if !hexColorPattern.MatchString(start) || !hexColorPattern.MatchString(end) {
		return Gradient{}, fmt.Errorf("%w: colors must be #rgb or #rrggbb hex values", ErrInvalidGradient)
	}
	return Gradient{kind: GradientCustom, startColor: start, endColor: end}, nil
}

// NewPresetGradient builds a preset gradient from its descriptor value.
func NewPresetGradient(name string) (Gradient, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || strings.Contains(trimmed, "[") {
		return Gradient{}, fmt.Errorf("%w: %q is not a preset", ErrInvalidGradient, name)
	}
	return Gradient{kind: GradientPreset, preset: trimmed}, nil
}

// ParseGradient decodes the legacy string representation. Empty input maps
// to GradientNone; a "from-[#hex] to-[#hex]" pair maps to GradientCustom;
// anything else without brackets is treated as a preset name.
func ParseGradient(rawInput string) (Gradient, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return Gradient{}, nil
	}
	if strings.HasPrefix(trimmed, "from-[") {
		matches := customPairFormat.FindStringSubmatch(trimmed)
		if matches == nil {
			return Gradient{}, fmt.Errorf("%w: malformed custom pair %q", ErrInvalidGradient, rawInput)
		}
		return NewCustomGradient(matches[1], matches[2])
	}
	return NewPresetGradient(trimmed)
}

// String encodes the gradient back into the legacy representation persisted
// by earlier revisions: the preset value verbatim, or the bracket pair for
// custom gradients.
func (g Gradient) String() string {
	switch g.kind {
	case GradientPreset:
		return g.preset
	case GradientCustom:
		return fmt.Sprintf("from-[%s] to-[%s]", g.startColor, g.endColor)
	default:
		return ""
	}
}
