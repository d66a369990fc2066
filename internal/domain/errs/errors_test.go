package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{NewCSVFormatError("CSV must contain a header row and at least one data row"),
			"csv format error - CSV must contain a header row and at least one data row"},
		{NewEquationFormatError("unexpected \"&\"", 1, 11),
			"equation format error - at line 1, col 11 - unexpected \"&\""},
		{&UnknownVariableError{Name: "z"}, "unknown variable: z"},
		{NewScalarResult(), "expected array result but got scalar"},
		{&DimensionError{Channel: "b", Expected: 3, Got: 2},
			"dimension mismatch on channel b: expected 3 values, got 2"},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
		}
	}
}

func TestErrorsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("evaluation error: %w", &UnknownVariableError{Name: "load9"})

	var uv *UnknownVariableError
	if !errors.As(wrapped, &uv) {
		t.Fatal("expected UnknownVariableError through wrapping")
	}
	if uv.Name != "load9" {
		t.Errorf("expected load9, got %s", uv.Name)
	}
}
