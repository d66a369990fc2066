package evaluator

import (
	"errors"
	"math"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/larex/internal/domain/errs"
)

func TestEvaluateElementWise(t *testing.T) {
	res, err := New().Evaluate("(x + y) * 2.0", map[string][]float64{
		"x": {1, 2, 3},
		"y": {10, 20, 30},
	})
	assert.NilError(t, err)
	assert.Assert(t, !res.Scalar)
	assert.DeepEqual(t, res.Values, []float64{22, 44, 66})
}

func TestEvaluateScalar(t *testing.T) {
	res, err := New().Evaluate("1.0 + 2.0", nil)
	assert.NilError(t, err)
	assert.Assert(t, res.Scalar)
	assert.DeepEqual(t, res.Values, []float64{3})
}

func TestEvaluateEmptyColumns(t *testing.T) {
	res, err := New().Evaluate("x * 2.0", map[string][]float64{"x": {}})
	assert.NilError(t, err)
	assert.Assert(t, !res.Scalar)
	assert.Equal(t, len(res.Values), 0)
}

func TestEvaluateDimensionMismatch(t *testing.T) {
	_, err := New().Evaluate("a + b", map[string][]float64{
		"a": {1, 2},
		"b": {1},
	})
	var de *errs.DimensionError
	assert.Assert(t, errors.As(err, &de))
	assert.Equal(t, de.Channel, "b")
	assert.Equal(t, de.Expected, 2)
	assert.Equal(t, de.Got, 1)
}

func TestEvaluateMathFunctions(t *testing.T) {
	tests := []struct {
		expression string
		expected   float64
	}{
		{"sqrt(x)", 2},
		{"exp(0.0 * x)", 1},
		{"ln(x / 4.0)", 0},
		{"log10(x * 25.0)", 2},
		{"sin(0.0 * x)", 0},
		{"cos(0.0 * x)", 1},
		{"tan(0.0 * x)", 0},
		{"fmod(x, 3.0)", 1},
		{"x ** 2.0", 16},
		{"round(x / 3.0)", 1},
		{"ceil(x / 3.0)", 2},
		{"min(x, 1.5)", 1.5},
	}

	eval := New()
	for _, tt := range tests {
		res, err := eval.Evaluate(tt.expression, map[string][]float64{"x": {4}})
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.expression, err)
			continue
		}
		if math.Abs(res.Values[0]-tt.expected) > 1e-12 {
			t.Errorf("%s: expected %v, got %v", tt.expression, tt.expected, res.Values[0])
		}
	}
}

func TestEvaluateCompileError(t *testing.T) {
	_, err := New().Evaluate("x +", map[string][]float64{"x": {1}})
	assert.ErrorContains(t, err, "compile")

	_, err = New().Evaluate("unknown * 2.0", map[string][]float64{"x": {1}})
	assert.ErrorContains(t, err, "compile")
}

func TestFunctionArity(t *testing.T) {
	_, err := fmod(1.0)
	assert.ErrorContains(t, err, "fmod takes 2 arguments")

	_, err = wrapUnary("sqrt", math.Sqrt)(1.0, 2.0)
	assert.ErrorContains(t, err, "sqrt takes 1 argument")
}

func TestToFloat(t *testing.T) {
	for _, v := range []interface{}{3, int64(3), int32(3), float32(3), 3.0} {
		f, err := toFloat(v)
		assert.NilError(t, err)
		assert.Equal(t, f, 3.0)
	}

	_, err := toFloat("3")
	var te *errs.TypeError
	assert.Assert(t, errors.As(err, &te))
}

func TestFmodTakesDivisorSign(t *testing.T) {
	res, err := New().Evaluate("fmod(-x, 3.0)", map[string][]float64{"x": {2, 5, 3}})
	assert.NilError(t, err)
	assert.DeepEqual(t, res.Values, []float64{1, 1, 0})

	got, err := fmod(7.0, -3.0)
	assert.NilError(t, err)
	assert.Equal(t, got, -2.0)

	got, err = fmod(1.0, 0.0)
	assert.NilError(t, err)
	assert.Assert(t, math.IsNaN(got.(float64)))
}
