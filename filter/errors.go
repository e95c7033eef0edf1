package filter

import (
	"fmt"
)

// Error types for filter operations
type (
	// CompilationError indicates a filter expression could not be compiled
	CompilationError struct {
		Expression string
		Reason     string
		Position   int // -1 if position is unknown
		Err        error
	}

	// EvaluationError indicates a filter could not be evaluated against an item
	EvaluationError struct {
		Expression string
		Item       string
		Reason     string
		Err        error
	}

	// PresetError indicates a named preset does not exist
	PresetError struct {
		Name      string
		Available []string
	}
)

func (e *CompilationError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("compilation error at position %d in '%s': %s", e.Position, e.Expression, e.Reason)
	}
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error for filter '%s' on '%s': %s", e.Expression, e.Item, e.Reason)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

func (e *PresetError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("preset '%s' not found (no presets configured)", e.Name)
	}
	return fmt.Sprintf("preset '%s' not found (available: %v)", e.Name, e.Available)
}
