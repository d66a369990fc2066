package errs

import (
	"fmt"
	"strings"
)

// FormatError reports malformed input: CSV structure, equation shape,
// or an aggregate call without channel references.
type FormatError struct {
	Source string // "csv" or "equation"
	Reason string // human-readable explanation
	Line   int    // 1-based line (0 if unknown)
	Column int    // 1-based column (0 if unknown)
}

func (e *FormatError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%s format error", e.Source))
	if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("at line %d, col %d", e.Line, e.Column))
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	return strings.Join(parts, " - ")
}

// UnknownVariableError is returned when an equation references a
// channel that is not in the dataset.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable: %s", e.Name)
}

// TypeError is returned when the evaluator produces a value of the wrong
// shape or kind.
type TypeError struct {
	Expected string
	Got      string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("expected %s result but got %s", e.Expected, e.Got)
}

// DimensionError is returned when channels combined element-wise have
// different lengths.
type DimensionError struct {
	Channel  string
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("dimension mismatch on channel %s: expected %d values, got %d",
		e.Channel, e.Expected, e.Got)
}

func NewCSVFormatError(reason string) *FormatError {
	return &FormatError{Source: "csv", Reason: reason}
}

func NewEquationFormatError(reason string, line, column int) *FormatError {
	return &FormatError{Source: "equation", Reason: reason, Line: line, Column: column}
}

func NewScalarResult() *TypeError {
	return &TypeError{Expected: "array", Got: "scalar"}
}
