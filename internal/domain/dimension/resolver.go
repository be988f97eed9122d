// Package dimension turns a size selection into concrete output dimensions.
package dimension

import (
	"fmt"
	"strings"

	"github.com/Stefan-Allen/fileconverter/internal/domain/entity"
)

// ValidateDimension returns value when it lies in [1, entity.MaxDimension] and
// fallback otherwise.
func ValidateDimension(value, fallback int) int {
	if value >= 1 && value <= entity.MaxDimension {
		return value
	}
	return fallback
}

// Resolve maps a selection to the dimensions the image is rendered at.
// For a custom selection every unset field falls back to original.
func Resolve(selection entity.SizeSelection, original, custom entity.Dimensions) entity.Dimensions {
	switch selection.Kind {
	case entity.SizePreset:
		return selection.Preset.Dimensions()
	case entity.SizeCustom:
		out := custom
		if out.Width == 0 {
			out.Width = original.Width
		}
		if out.Height == 0 {
			out.Height = original.Height
		}
		return out
	default:
		return original
	}
}

// ParseSelection reads a wire token: "current", "custom" or the "{w}x{h}"
// token of one of presets.
func ParseSelection(token string, presets []entity.Preset) (entity.SizeSelection, error) {
	token = strings.ToLower(strings.TrimSpace(token))

	switch token {
	case "current":
		return entity.SelectCurrent, nil
	case "custom":
		return entity.SelectCustom, nil
	}

	for _, p := range presets {
		if p.Token() == token {
			return entity.SelectPreset(p), nil
		}
	}

	return entity.SizeSelection{}, fmt.Errorf("%w: %q", entity.ErrUnknownSizeSelection, token)
}
