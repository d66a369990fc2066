package equation

import (
	"fmt"

	"github.com/leengari/larex/internal/dataset"
	"github.com/leengari/larex/internal/domain/errs"
	"github.com/leengari/larex/internal/equation/ast"
	"github.com/leengari/larex/internal/equation/parser"
)

// ExpandAggregates rewrites every aggregate call into plain arithmetic:
//
//	AVG({a},{b}) -> (({a} + {b}) / 2)
//	SUM({a},{b}) -> ({a} + {b})
//
// Aggregate arguments must be channel references present in ds.
func ExpandAggregates(expr ast.Expression, ds *dataset.Dataset) (ast.Expression, error) {
	switch e := expr.(type) {
	case *ast.PrefixExpression:
		right, err := ExpandAggregates(e.Right, ds)
		if err != nil {
			return nil, err
		}
		return &ast.PrefixExpression{Operator: e.Operator, Right: right}, nil

	case *ast.BinaryExpression:
		left, err := ExpandAggregates(e.Left, ds)
		if err != nil {
			return nil, err
		}
		right, err := ExpandAggregates(e.Right, ds)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpression{Left: left, Operator: e.Operator, Right: right}, nil

	case *ast.CallExpression:
		if parser.IsAggregate(e.Function) {
			return expandAggregate(e, ds)
		}
		call := &ast.CallExpression{Function: e.Function}
		for _, a := range e.Arguments {
			arg, err := ExpandAggregates(a, ds)
			if err != nil {
				return nil, err
			}
			call.Arguments = append(call.Arguments, arg)
		}
		return call, nil

	default:
		return expr, nil
	}
}

func expandAggregate(call *ast.CallExpression, ds *dataset.Dataset) (ast.Expression, error) {
	var refs []*ast.ChannelRef
	for _, a := range call.Arguments {
		ref, ok := a.(*ast.ChannelRef)
		if !ok {
			return nil, errs.NewEquationFormatError(
				fmt.Sprintf("%s arguments must be channel references, got %s", call.Function, a.String()), 0, 0)
		}
		if !ds.Has(ref.Name) {
			return nil, &errs.UnknownVariableError{Name: ref.Name}
		}
		refs = append(refs, ref)
	}
	if len(refs) == 0 {
		return nil, errs.NewEquationFormatError(
			fmt.Sprintf("%s requires at least one channel reference", call.Function), 0, 0)
	}

	var sum ast.Expression = refs[0]
	for _, ref := range refs[1:] {
		sum = &ast.BinaryExpression{Left: sum, Operator: "+", Right: ref}
	}

	if call.Function == "AVG" {
		return &ast.BinaryExpression{
			Left:     sum,
			Operator: "/",
			Right:    &ast.NumberLiteral{TokenLiteralValue: fmt.Sprint(len(refs)), Value: float64(len(refs))},
		}, nil
	}
	return sum, nil
}

// ResolveChannels checks that every channel referenced by expr exists in ds
func ResolveChannels(expr ast.Expression, ds *dataset.Dataset) error {
	for _, name := range ast.Channels(expr) {
		if !ds.Has(name) {
			return &errs.UnknownVariableError{Name: name}
		}
	}
	return nil
}
