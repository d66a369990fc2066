package evaluator

import (
	"fmt"
	"math"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/leengari/larex/internal/domain/errs"
)

// Result is what an expression produced: either one value per row, or a
// single scalar when no column was bound.
type Result struct {
	Values []float64
	Scalar bool
}

// Evaluator runs arithmetic expressions over numeric columns using
// expr-lang. Bound columns are combined element-wise.
type Evaluator struct {
	options []expr.Option
}

// New creates an Evaluator with the math helpers registered
func New() *Evaluator {
	opts := []expr.Option{expr.AsFloat64()}
	for name, fn := range mathFunctions {
		opts = append(opts, expr.Function(name, wrapUnary(name, fn)))
	}
	opts = append(opts, expr.Function("fmod", fmod))
	return &Evaluator{options: opts}
}

// Evaluate compiles expression once and runs it for every row index of
// the bound columns. All bound columns must have the same length.
func (e *Evaluator) Evaluate(expression string, bindings map[string][]float64) (Result, error) {
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := -1
	for _, name := range names {
		n := len(bindings[name])
		if rows < 0 {
			rows = n
			continue
		}
		if n != rows {
			return Result{}, &errs.DimensionError{Channel: name, Expected: rows, Got: n}
		}
	}

	env := make(map[string]interface{}, len(names))
	for _, name := range names {
		env[name] = 0.0
	}

	opts := append([]expr.Option{expr.Env(env)}, e.options...)
	program, err := expr.Compile(expression, opts...)
	if err != nil {
		return Result{}, fmt.Errorf("compile %q: %w", expression, err)
	}

	var machine vm.VM

	if rows < 0 {
		out, err := machine.Run(program, env)
		if err != nil {
			return Result{}, fmt.Errorf("evaluate %q: %w", expression, err)
		}
		v, err := toFloat(out)
		if err != nil {
			return Result{}, err
		}
		return Result{Values: []float64{v}, Scalar: true}, nil
	}

	values := make([]float64, rows)
	for i := 0; i < rows; i++ {
		for _, name := range names {
			env[name] = bindings[name][i]
		}
		out, err := machine.Run(program, env)
		if err != nil {
			return Result{}, fmt.Errorf("evaluate %q at row %d: %w", expression, i, err)
		}
		v, err := toFloat(out)
		if err != nil {
			return Result{}, err
		}
		values[i] = v
	}
	return Result{Values: values}, nil
}

var mathFunctions = map[string]func(float64) float64{
	"sqrt":  math.Sqrt,
	"exp":   math.Exp,
	"ln":    math.Log,
	"log10": math.Log10,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
}

func wrapUnary(name string, fn func(float64) float64) func(params ...interface{}) (interface{}, error) {
	return func(params ...interface{}) (interface{}, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("%s takes 1 argument, got %d", name, len(params))
		}
		x, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}
		return fn(x), nil
	}
}

// fmod is the floored remainder, so the result takes the sign of the
// divisor: fmod(-2, 3) == 1. expr-lang only defines % on integers.
func fmod(params ...interface{}) (interface{}, error) {
	if len(params) != 2 {
		return nil, fmt.Errorf("fmod takes 2 arguments, got %d", len(params))
	}
	a, err := toFloat(params[0])
	if err != nil {
		return nil, err
	}
	b, err := toFloat(params[1])
	if err != nil {
		return nil, err
	}
	return a - b*math.Floor(a/b), nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	default:
		return math.NaN(), &errs.TypeError{Expected: "numeric", Got: fmt.Sprintf("%T", v)}
	}
}
