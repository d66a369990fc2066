package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/leengari/larex/internal/domain/errs"
	"github.com/leengari/larex/internal/equation/ast"
)

func TestParseSimpleEquation(t *testing.T) {
	eq, err := ParseEquation("{c} = {a} + {b}")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if eq.Output.Name != "c" {
		t.Errorf("Expected output c, got %s", eq.Output.Name)
	}

	bin, ok := eq.Expr.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("Expected BinaryExpression, got %T", eq.Expr)
	}
	if bin.Operator != "+" {
		t.Errorf("Expected operator +, got %s", bin.Operator)
	}
	if bin.Left.(*ast.ChannelRef).Name != "a" {
		t.Errorf("Expected left side a, got %s", bin.Left)
	}
	if bin.Right.(*ast.ChannelRef).Name != "b" {
		t.Errorf("Expected right side b, got %s", bin.Right)
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"{o} = 1 + 2 * {a}", "(1 + (2 * {a}))"},
		{"{o} = (1 + 2) * {a}", "((1 + 2) * {a})"},
		{"{o} = {a} - {b} - {c}", "(({a} - {b}) - {c})"},
		{"{o} = {a} / {b} % 3", "(({a} / {b}) % 3)"},
		{"{o} = {a} ^ 2 ^ 3", "({a} ^ (2 ^ 3))"},
		{"{o} = -{a} ^ 2", "(-({a} ^ 2))"},
		{"{o} = 2 ^ -{a}", "(2 ^ (-{a}))"},
		{"{o} = --{a}", "(-(-{a}))"},
		{"{o} = AVG({a}, {b}) * 2", "(AVG({a}, {b}) * 2)"},
		{"{o} = max({a}, 1 + {b})", "max({a}, (1 + {b}))"},
		{"{o} = 0.5e1", "5"},
	}

	for _, tt := range tests {
		eq, err := ParseEquation(tt.input)
		if err != nil {
			t.Errorf("%q: parse error: %v", tt.input, err)
			continue
		}
		if got := eq.Expr.String(); got != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestParseSanitizesChannelNames(t *testing.T) {
	eq, err := ParseEquation("{ Out put } = {Load (kN)} * 2")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if eq.Output.Name != "Out_put" {
		t.Errorf("Expected output Out_put, got %s", eq.Output.Name)
	}
	if eq.Output.Raw != " Out put " {
		t.Errorf("Expected raw output %q, got %q", " Out put ", eq.Output.Raw)
	}
	if got := ast.Channels(eq.Expr); len(got) != 1 || got[0] != "Load_kN" {
		t.Errorf("Expected channels [Load_kN], got %v", got)
	}
}

func TestParseFunctionNamesAreCaseInsensitive(t *testing.T) {
	eq, err := ParseEquation("{o} = avg({a}) + SQRT({b})")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got := eq.Expr.String(); got != "(AVG({a}) + sqrt({b}))" {
		t.Errorf("unexpected tree %s", got)
	}
}

func TestParseShapeErrors(t *testing.T) {
	inputs := []string{
		"a + b",
		"{a} + {b}",
		"{a} =",
		"{a} =   ",
		"= {a}",
		"{} = {a}",
		"{  } = {a}",
		"{()} = {a}",
		"c = {a}",
		"$ = {a}",
		"",
	}

	for _, in := range inputs {
		_, err := ParseEquation(in)
		var fe *errs.FormatError
		if !errors.As(err, &fe) {
			t.Errorf("%q: expected FormatError, got %v", in, err)
			continue
		}
		if fe.Reason != ShapeMessage {
			t.Errorf("%q: expected shape message, got %q", in, fe.Reason)
		}
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		input  string
		reason string
	}{
		{"{o} = {a} +", "unexpected end of equation"},
		{"{o} = ({a} + 1", "expected ), got end of equation"},
		{"{o} = {a} {b}", "unexpected {b} after expression"},
		{"{o} = foo({a})", `unknown function "foo"`},
		{"{o} = sqrt {a}", "expected ( after sqrt"},
		{"{o} = sqrt({a}, {b})", "sqrt takes 1 argument, got 2"},
		{"{o} = max()", "max takes at least 1 arguments, got 0"},
		{"{o} = {a} + {}", "empty channel reference"},
		{"{o} = {a} & 1", `unexpected "&"`},
		{"{o} = {a} = {b}", `unexpected "=" after expression`},
	}

	for _, tt := range tests {
		_, err := ParseEquation(tt.input)
		var fe *errs.FormatError
		if !errors.As(err, &fe) {
			t.Errorf("%q: expected FormatError, got %v", tt.input, err)
			continue
		}
		if !strings.Contains(fe.Reason, tt.reason) {
			t.Errorf("%q: expected reason containing %q, got %q", tt.input, tt.reason, fe.Reason)
		}
		if fe.Line == 0 {
			t.Errorf("%q: expected a position, got none", tt.input)
		}
	}
}

func TestParseAggregateAcceptsEmptyArguments(t *testing.T) {
	// Emptiness is reported during expansion, where the dataset is known
	eq, err := ParseEquation("{o} = AVG()")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	call, ok := eq.Expr.(*ast.CallExpression)
	if !ok {
		t.Fatalf("Expected CallExpression, got %T", eq.Expr)
	}
	if len(call.Arguments) != 0 {
		t.Errorf("Expected no arguments, got %d", len(call.Arguments))
	}
}

func TestLookupFunction(t *testing.T) {
	if !IsAggregate("avg") || !IsAggregate("SUM") {
		t.Error("expected AVG and SUM to be aggregates")
	}
	if IsAggregate("sqrt") {
		t.Error("sqrt is not an aggregate")
	}
	if _, ok := LookupFunction("nope"); ok {
		t.Error("unexpected function nope")
	}
}
