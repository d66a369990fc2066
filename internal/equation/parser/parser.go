package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/leengari/larex/internal/dataset"
	"github.com/leengari/larex/internal/domain/errs"
	"github.com/leengari/larex/internal/equation/ast"
	"github.com/leengari/larex/internal/equation/lexer"
)

// ShapeMessage is the reason given when an equation is not {var} = expression
const ShapeMessage = "equation must be of the form {var} = expression"

type Parser struct {
	tokens  []lexer.Token
	curPos  int
	curTok  lexer.Token
	peekTok lexer.Token
}

func New(tokens []lexer.Token) *Parser {
	p := &Parser{tokens: tokens, curPos: 0}
	// Read two tokens to set curTok and peekTok
	p.nextToken()
	p.nextToken()
	return p
}

// ParseEquation tokenizes and parses an equation string
func ParseEquation(input string) (*ast.Equation, error) {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		var illegal *lexer.IllegalTokenError
		if !errors.As(err, &illegal) {
			return nil, err
		}
		// Garbage before "{var} =" is a shape problem, not a typo in the expression
		l := lexer.New(input)
		first, second := l.NextToken(), l.NextToken()
		if first.Type != lexer.CHANNEL || second.Type != lexer.EQUALS {
			return nil, errs.NewEquationFormatError(ShapeMessage, 0, 0)
		}
		return nil, errs.NewEquationFormatError(
			fmt.Sprintf("unexpected %q", illegal.Token.Literal),
			illegal.Token.Line, illegal.Token.Column)
	}
	return New(tokens).Parse()
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	if p.curPos < len(p.tokens) {
		p.peekTok = p.tokens[p.curPos]
		p.curPos++
	} else {
		p.peekTok = p.eofToken()
	}
}

// eofToken sits just past the last token so errors at the end still
// carry a position
func (p *Parser) eofToken() lexer.Token {
	if len(p.tokens) == 0 {
		return lexer.Token{Type: lexer.EOF, Line: 1, Column: 1}
	}
	last := p.tokens[len(p.tokens)-1]
	width := len(last.Literal)
	if last.Type == lexer.CHANNEL {
		width += 2
	}
	return lexer.Token{Type: lexer.EOF, Line: last.Line, Column: last.Column + width}
}

// Parse reads a full equation: CHANNEL '=' expr EOF
func (p *Parser) Parse() (*ast.Equation, error) {
	if p.curTok.Type != lexer.CHANNEL || p.peekTok.Type != lexer.EQUALS {
		return nil, p.shapeError()
	}
	out, err := p.channelRef()
	if err != nil {
		return nil, p.shapeError()
	}
	p.nextToken() // '='
	p.nextToken()

	if p.curTok.Type == lexer.EOF {
		return nil, p.shapeError()
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.curTok.Type != lexer.EOF {
		return nil, p.errorf("unexpected %s after expression", p.describe())
	}

	return &ast.Equation{Output: out, Expr: expr}, nil
}

// expr := term (('+'|'-') term)*
func (p *Parser) parseExpression() (ast.Expression, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.curTok.Type == lexer.PLUS || p.curTok.Type == lexer.MINUS {
		op := p.curTok.Literal
		p.nextToken()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

// term := unary (('*'|'/'|'%') unary)*
func (p *Parser) parseTerm() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for isMultiplicative(p.curTok.Type) {
		op := p.curTok.Literal
		p.nextToken()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

// unary := ('+'|'-') unary | power
func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.curTok.Type == lexer.PLUS || p.curTok.Type == lexer.MINUS {
		op := p.curTok.Literal
		p.nextToken()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.PrefixExpression{Operator: op, Right: right}, nil
	}
	return p.parsePower()
}

// power := primary ('^' unary)?
func (p *Parser) parsePower() (ast.Expression, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.curTok.Type != lexer.CARET {
		return base, nil
	}
	p.nextToken()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpression{Left: base, Operator: "^", Right: exp}, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	switch p.curTok.Type {
	case lexer.NUMBER:
		lit := p.curTok.Literal
		val, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, p.errorf("invalid number %q", lit)
		}
		p.nextToken()
		return &ast.NumberLiteral{TokenLiteralValue: lit, Value: val}, nil
	case lexer.CHANNEL:
		ref, err := p.channelRef()
		if err != nil {
			return nil, err
		}
		p.nextToken()
		return ref, nil
	case lexer.IDENTIFIER:
		return p.parseCall()
	case lexer.PAREN_OPEN:
		p.nextToken()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.curTok.Type != lexer.PAREN_CLOSE {
			return nil, p.errorf("expected ), got %s", p.describe())
		}
		p.nextToken()
		return expr, nil
	default:
		return nil, p.errorf("unexpected %s", p.describe())
	}
}

// IDENT '(' (expr (',' expr)*)? ')'
func (p *Parser) parseCall() (ast.Expression, error) {
	name := p.curTok.Literal
	fn, ok := LookupFunction(name)
	if !ok {
		return nil, p.errorf("unknown function %q", name)
	}
	p.nextToken()

	if p.curTok.Type != lexer.PAREN_OPEN {
		return nil, p.errorf("expected ( after %s, got %s", fn.Name, p.describe())
	}
	p.nextToken()

	call := &ast.CallExpression{Function: fn.Name}
	if p.curTok.Type != lexer.PAREN_CLOSE {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			call.Arguments = append(call.Arguments, arg)
			if p.curTok.Type != lexer.COMMA {
				break
			}
			p.nextToken()
		}
	}
	if p.curTok.Type != lexer.PAREN_CLOSE {
		return nil, p.errorf("expected ) to close %s, got %s", fn.Name, p.describe())
	}
	p.nextToken()

	// Aggregates accept any count here; emptiness is reported on expansion
	if !fn.Aggregate {
		if len(call.Arguments) < fn.MinArgs || (fn.MaxArgs >= 0 && len(call.Arguments) > fn.MaxArgs) {
			return nil, p.errorf("%s takes %s, got %d", fn.Name, fn.arity(), len(call.Arguments))
		}
	}
	return call, nil
}

func (p *Parser) channelRef() (*ast.ChannelRef, error) {
	raw := p.curTok.Literal
	name := dataset.SanitizeName(raw)
	if name == "" {
		return nil, p.errorf("empty channel reference")
	}
	return &ast.ChannelRef{Raw: raw, Name: name}, nil
}

func (p *Parser) describe() string {
	switch p.curTok.Type {
	case lexer.EOF:
		return "end of equation"
	case lexer.CHANNEL:
		return fmt.Sprintf("{%s}", p.curTok.Literal)
	default:
		return fmt.Sprintf("%q", p.curTok.Literal)
	}
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return errs.NewEquationFormatError(fmt.Sprintf(format, args...), p.curTok.Line, p.curTok.Column)
}

func (p *Parser) shapeError() error {
	return errs.NewEquationFormatError(ShapeMessage, 0, 0)
}

func isMultiplicative(t lexer.TokenType) bool {
	return t == lexer.ASTERISK || t == lexer.SLASH || t == lexer.PERCENT
}

// Function describes a callable name accepted in equations
type Function struct {
	Name      string // canonical spelling
	Aggregate bool   // expanded over channels before evaluation
	MinArgs   int
	MaxArgs   int // -1 for variadic
}

func (f Function) arity() string {
	switch {
	case f.MaxArgs < 0:
		return fmt.Sprintf("at least %d arguments", f.MinArgs)
	case f.MinArgs == f.MaxArgs && f.MinArgs == 1:
		return "1 argument"
	case f.MinArgs == f.MaxArgs:
		return fmt.Sprintf("%d arguments", f.MinArgs)
	default:
		return fmt.Sprintf("%d to %d arguments", f.MinArgs, f.MaxArgs)
	}
}

var functions = map[string]Function{
	"AVG":   {Name: "AVG", Aggregate: true, MaxArgs: -1},
	"SUM":   {Name: "SUM", Aggregate: true, MaxArgs: -1},
	"abs":   {Name: "abs", MinArgs: 1, MaxArgs: 1},
	"ceil":  {Name: "ceil", MinArgs: 1, MaxArgs: 1},
	"floor": {Name: "floor", MinArgs: 1, MaxArgs: 1},
	"round": {Name: "round", MinArgs: 1, MaxArgs: 1},
	"sqrt":  {Name: "sqrt", MinArgs: 1, MaxArgs: 1},
	"exp":   {Name: "exp", MinArgs: 1, MaxArgs: 1},
	"ln":    {Name: "ln", MinArgs: 1, MaxArgs: 1},
	"log10": {Name: "log10", MinArgs: 1, MaxArgs: 1},
	"sin":   {Name: "sin", MinArgs: 1, MaxArgs: 1},
	"cos":   {Name: "cos", MinArgs: 1, MaxArgs: 1},
	"tan":   {Name: "tan", MinArgs: 1, MaxArgs: 1},
	"min":   {Name: "min", MinArgs: 1, MaxArgs: -1},
	"max":   {Name: "max", MinArgs: 1, MaxArgs: -1},
}

// LookupFunction resolves a function name. Aggregates match in any case,
// scalar functions are matched case-insensitively as well.
func LookupFunction(name string) (Function, bool) {
	if fn, ok := functions[strings.ToUpper(name)]; ok && fn.Aggregate {
		return fn, true
	}
	fn, ok := functions[strings.ToLower(name)]
	return fn, ok
}

// IsAggregate reports whether name is an aggregate function such as AVG
func IsAggregate(name string) bool {
	fn, ok := LookupFunction(name)
	return ok && fn.Aggregate
}
