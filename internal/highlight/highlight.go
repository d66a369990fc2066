// Package highlight renders equations as HTML for display. Nothing here
// is used when parsing or evaluating an equation.
package highlight

import (
	"html"
	"strings"

	"github.com/leengari/larex/internal/equation/parser"
)

// CSS classes used in the generated markup
const (
	ClassFunction = "larex-fn"
	ClassChannel  = "larex-channel"
	ClassBrace    = "larex-brace"
)

// Markup wraps aggregate keywords, channel names and their braces in
// styling spans. All other text is copied through HTML-escaped.
func Markup(equation string) string {
	var out strings.Builder
	i := 0
	for i < len(equation) {
		switch {
		case equation[i] == '{':
			end := strings.IndexAny(equation[i+1:], "{}")
			if end < 0 || equation[i+1+end] != '}' {
				out.WriteString(html.EscapeString(equation[i : i+1]))
				i++
				continue
			}
			name := equation[i+1 : i+1+end]
			span(&out, ClassBrace, "{")
			span(&out, ClassChannel, name)
			span(&out, ClassBrace, "}")
			i += end + 2
		case isWordStart(equation, i):
			j := i
			for j < len(equation) && isWordByte(equation[j]) {
				j++
			}
			word := equation[i:j]
			if parser.IsAggregate(word) {
				span(&out, ClassFunction, word)
			} else {
				out.WriteString(html.EscapeString(word))
			}
			i = j
		default:
			out.WriteString(html.EscapeString(equation[i : i+1]))
			i++
		}
	}
	return out.String()
}

func span(out *strings.Builder, class, text string) {
	out.WriteString(`<span class="`)
	out.WriteString(class)
	out.WriteString(`">`)
	out.WriteString(html.EscapeString(text))
	out.WriteString(`</span>`)
}

func isWordStart(s string, i int) bool {
	c := s[i]
	if !(c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
		return false
	}
	return i == 0 || !isWordByte(s[i-1])
}

func isWordByte(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}
