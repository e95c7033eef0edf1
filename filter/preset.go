package filter

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Resolve picks the expression to use.
// Priority: explicit expression > named preset > fallback
func Resolve(expression, preset string, presets map[string]string, fallback string) (string, error) {
	if strings.TrimSpace(expression) != "" {
		return expression, nil
	}

	if preset != "" {
		if expr, ok := presets[preset]; ok {
			return expr, nil
		}
		return "", &PresetError{Name: preset, Available: PresetNames(presets)}
	}

	return fallback, nil
}

// PresetNames returns the configured preset names in sorted order
func PresetNames(presets map[string]string) []string {
	names := lo.Keys(presets)
	slices.Sort(names)
	return names
}

// ValidatePresets compiles every preset against T and returns the first failure
func ValidatePresets[T any](presets map[string]string) error {
	for _, name := range PresetNames(presets) {
		if _, err := Compile[T](presets[name]); err != nil {
			return &CompilationError{
				Expression: presets[name],
				Reason:     "preset '" + name + "' is invalid",
				Position:   -1,
				Err:        err,
			}
		}
	}
	return nil
}
