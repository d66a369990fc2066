package ast

import (
	"bytes"
	"strconv"
	"strings"
)

// Node is the base interface for all AST nodes
type Node interface {
	TokenLiteral() string
	String() string
}

// Expression represents a value or operation on the right-hand side
type Expression interface {
	Node
	expressionNode()
}

// Equation: {Output} = Expr
type Equation struct {
	Output *ChannelRef
	Expr   Expression
}

func (e *Equation) TokenLiteral() string { return "=" }
func (e *Equation) String() string {
	return e.Output.String() + " = " + e.Expr.String()
}

// ChannelRef is a {name} reference. Raw keeps the text between the
// braces, Name the sanitized channel name.
type ChannelRef struct {
	Raw  string
	Name string
}

func (c *ChannelRef) expressionNode()      {}
func (c *ChannelRef) TokenLiteral() string { return c.Raw }
func (c *ChannelRef) String() string       { return "{" + c.Name + "}" }

// NumberLiteral is a numeric constant
type NumberLiteral struct {
	TokenLiteralValue string
	Value             float64
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.TokenLiteralValue }
func (n *NumberLiteral) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// PrefixExpression: -x, +x
type PrefixExpression struct {
	Operator string
	Right    Expression
}

func (e *PrefixExpression) expressionNode()      {}
func (e *PrefixExpression) TokenLiteral() string { return e.Operator }
func (e *PrefixExpression) String() string {
	return "(" + e.Operator + e.Right.String() + ")"
}

// BinaryExpression: Left Operator Right (e.g. {a} + 1)
type BinaryExpression struct {
	Left     Expression
	Operator string
	Right    Expression
}

func (e *BinaryExpression) expressionNode()      {}
func (e *BinaryExpression) TokenLiteral() string { return e.Operator }
func (e *BinaryExpression) String() string {
	return "(" + e.Left.String() + " " + e.Operator + " " + e.Right.String() + ")"
}

// CallExpression: Function(Arguments...)
type CallExpression struct {
	Function  string
	Arguments []Expression
}

func (e *CallExpression) expressionNode()      {}
func (e *CallExpression) TokenLiteral() string { return e.Function }
func (e *CallExpression) String() string {
	var out bytes.Buffer
	out.WriteString(e.Function)
	out.WriteString("(")
	args := make([]string, len(e.Arguments))
	for i, a := range e.Arguments {
		args[i] = a.String()
	}
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")
	return out.String()
}

// Walk calls fn for every expression in the tree, parents first
func Walk(expr Expression, fn func(Expression)) {
	if expr == nil {
		return
	}
	fn(expr)
	switch e := expr.(type) {
	case *PrefixExpression:
		Walk(e.Right, fn)
	case *BinaryExpression:
		Walk(e.Left, fn)
		Walk(e.Right, fn)
	case *CallExpression:
		for _, a := range e.Arguments {
			Walk(a, fn)
		}
	}
}

// Channels returns the distinct channel names referenced by expr in
// order of first appearance.
func Channels(expr Expression) []string {
	var names []string
	seen := make(map[string]bool)
	Walk(expr, func(e Expression) {
		if ref, ok := e.(*ChannelRef); ok && !seen[ref.Name] {
			seen[ref.Name] = true
			names = append(names, ref.Name)
		}
	})
	return names
}
