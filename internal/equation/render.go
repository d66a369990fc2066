package equation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leengari/larex/internal/equation/ast"
)

// binder hands out evaluator-safe identifiers for channel names, since a
// sanitized channel name may still start with a digit or clash with a
// keyword of the evaluator.
type binder struct {
	ids   map[string]string
	names []string
}

func newBinder() *binder {
	return &binder{ids: make(map[string]string)}
}

func (b *binder) bind(name string) string {
	if id, ok := b.ids[name]; ok {
		return id
	}
	id := fmt.Sprintf("ch%d", len(b.names))
	b.ids[name] = id
	b.names = append(b.names, name)
	return id
}

// render writes expr as a brace-free expr-lang expression
func render(expr ast.Expression, b *binder) string {
	var out strings.Builder
	writeExpr(&out, expr, b)
	return out.String()
}

func writeExpr(out *strings.Builder, expr ast.Expression, b *binder) {
	switch e := expr.(type) {
	case *ast.ChannelRef:
		out.WriteString(b.bind(e.Name))
	case *ast.NumberLiteral:
		out.WriteString(floatLiteral(e.Value))
	case *ast.PrefixExpression:
		out.WriteString("(")
		out.WriteString(e.Operator)
		writeExpr(out, e.Right, b)
		out.WriteString(")")
	case *ast.BinaryExpression:
		if e.Operator == "%" {
			out.WriteString("fmod(")
			writeExpr(out, e.Left, b)
			out.WriteString(", ")
			writeExpr(out, e.Right, b)
			out.WriteString(")")
			return
		}
		op := e.Operator
		if op == "^" {
			op = "**"
		}
		out.WriteString("(")
		writeExpr(out, e.Left, b)
		out.WriteString(" " + op + " ")
		writeExpr(out, e.Right, b)
		out.WriteString(")")
	case *ast.CallExpression:
		out.WriteString(e.Function)
		out.WriteString("(")
		for i, a := range e.Arguments {
			if i > 0 {
				out.WriteString(", ")
			}
			writeExpr(out, a, b)
		}
		out.WriteString(")")
	}
}

// floatLiteral always yields a float literal so that integer constants
// never take the evaluator's integer arithmetic path.
func floatLiteral(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
