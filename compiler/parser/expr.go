package parser

import (
	"strings"

	"github.com/brimdata/spl/compiler/ast"
	"github.com/grafana/regexp"
)

// A bare search term is anything up to whitespace, a pipe, or a paren
// that does not begin with a quote.
var barewordRE = regexp.MustCompile(`^[^\s|()"'][^\s|()]*`)

func asExpr[T ast.Expr](rule func() (T, error)) func() (ast.Expr, error) {
	return func() (ast.Expr, error) {
		v, err := rule()
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

func (p *parser) number() (*ast.Numeric, error) {
	start := p.pos
	loc := numberRE.FindStringIndex(p.rest())
	// A number must not run into an identifier, e.g., 1st or 10.0.0.1.
	if loc == nil || p.fieldCharAt(start+loc[1]) {
		return nil, p.fail("number")
	}
	text := p.src[start : start+loc[1]]
	p.emit(TokenNumber, loc[1])
	return &ast.Numeric{
		Kind:  "Numeric",
		Text:  text,
		Float: strings.ContainsAny(text, ".eE"),
		Loc:   ast.NewLoc(start, p.pos),
	}, nil
}

func (p *parser) fieldCharAt(pos int) bool {
	return pos < len(p.src) && isFieldChar(p.src[pos])
}

func isFieldChar(c byte) bool {
	return isWordChar(c) || c == '-' || c == '$' || c == '.' || c == '@'
}

// str matches a string literal written with one of the given quotes.
func (p *parser) str(kind TokenKind, quotes string) (*ast.String, error) {
	start := p.pos
	s, _, err := p.quoted(kind, quotes)
	if err != nil {
		return nil, err
	}
	return &ast.String{Kind: "String", Value: s, Loc: ast.NewLoc(start, p.pos)}, nil
}

func (p *parser) doubleQuoted() (*ast.String, error) {
	return p.str(TokenString, `"`)
}

func (p *parser) anyQuoted() (*ast.String, error) {
	return p.str(TokenString, `"'`)
}

// fieldName matches a quoted field name or a bare one.  A bare name may
// contain balanced parentheses, e.g., count(x), but an unbalanced
// parenthesis is a syntax error.
func (p *parser) fieldName() (*ast.FieldName, error) {
	p.suggestAll(TokenField, p.fields)
	start := p.pos
	if !p.eof() && (p.src[start] == '"' || p.src[start] == '\'') {
		s, _, err := p.quoted(TokenField, `"'`)
		if err != nil {
			return nil, err
		}
		p.observe(s)
		return &ast.FieldName{Kind: "FieldName", Value: s, Quoted: true, Loc: ast.NewLoc(start, p.pos)}, nil
	}
	n, err := p.scanFieldName()
	if err != nil {
		return nil, err
	}
	name := p.src[start : start+n]
	p.emit(TokenField, n)
	p.observe(name)
	return &ast.FieldName{Kind: "FieldName", Value: name, Loc: ast.NewLoc(start, p.pos)}, nil
}

func (p *parser) scanFieldName() (int, error) {
	s := p.rest()
	var n, depth int
loop:
	for ; n < len(s); n++ {
		switch c := s[n]; {
		case c == '(' && n > 0:
			depth++
		case c == ')' && depth > 0:
			depth--
		case isFieldChar(c) && (n > 0 || c != '-' && c != '.'):
		default:
			break loop
		}
	}
	if depth > 0 {
		return 0, p.errorf(p.pos+n, "unbalanced parentheses in field name")
	}
	if n == 0 {
		return 0, p.fail("field name")
	}
	return n, nil
}

func (p *parser) binary(op string, lhs, rhs ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{
		Kind: "BinaryExpr",
		Op:   op,
		LHS:  lhs,
		RHS:  rhs,
		Loc:  ast.NewLoc(lhs.Pos(), rhs.End()),
	}
}

// chain parses a left-associative sequence of operands separated by any
// of ops.
func (p *parser) chain(operand func() (ast.Expr, error), ops ...string) (ast.Expr, error) {
	lhs, err := operand()
	if err != nil {
		return nil, err
	}
	type tail struct {
		op  string
		rhs ast.Expr
	}
	for {
		t, ok, err := optional(p, func() (tail, error) {
			p.ws()
			op, err := p.oneOfLiterals(TokenOperator, ops...)
			if err != nil {
				return tail{}, err
			}
			p.ws()
			rhs, err := operand()
			return tail{op, rhs}, err
		})
		if err != nil {
			return nil, err
		}
		if !ok {
			return lhs, nil
		}
		lhs = p.binary(t.op, lhs, t.rhs)
	}
}

func (p *parser) expr() (ast.Expr, error) {
	return p.chain(p.andExpr, "or")
}

func (p *parser) andExpr() (ast.Expr, error) {
	return p.chain(p.equalityExpr, "and")
}

func (p *parser) equalityExpr() (ast.Expr, error) {
	return p.chain(p.comparisonExpr, "!=", "==", "=")
}

func (p *parser) comparisonExpr() (ast.Expr, error) {
	return p.chain(p.additiveExpr, ">=", "<=", ">", "<")
}

func (p *parser) additiveExpr() (ast.Expr, error) {
	return p.chain(p.multiplicativeExpr, "+", "-", ".")
}

func (p *parser) multiplicativeExpr() (ast.Expr, error) {
	return p.chain(p.unaryExpr, "*", "/", "%")
}

func (p *parser) unaryExpr() (ast.Expr, error) {
	return oneOf(p, func() (ast.Expr, error) {
		start := p.pos
		if err := p.literal(TokenOperator, "not"); err != nil {
			return nil, err
		}
		p.ws()
		operand, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{
			Kind:    "UnaryExpr",
			Op:      ast.OpNot,
			Operand: operand,
			Loc:     ast.NewLoc(start, operand.End()),
		}, nil
	}, p.primary)
}

// primary matches a call, a group, a number, a double-quoted string, or a
// field name.  Single-quoted text in an expression is a field name.
func (p *parser) primary() (ast.Expr, error) {
	return oneOf(p,
		asExpr(p.call),
		p.group,
		asExpr(p.number),
		asExpr(p.doubleQuoted),
		asExpr(p.fieldName),
	)
}

func (p *parser) call() (*ast.CallExpr, error) {
	start := p.pos
	p.suggestAll(TokenFunction, funcNames)
	name, err := p.match(TokenFunction, identRE, "function")
	if err != nil {
		return nil, err
	}
	if err := p.literal(TokenParen, "("); err != nil {
		return nil, err
	}
	p.ws()
	args, _, err := optional(p, func() ([]ast.Expr, error) {
		return list(p, p.expr, p.comma)
	})
	if err != nil {
		return nil, err
	}
	p.ws()
	if err := p.literal(TokenParen, ")"); err != nil {
		return nil, err
	}
	return &ast.CallExpr{
		Kind: "CallExpr",
		Func: name,
		Args: args,
		Loc:  ast.NewLoc(start, p.pos),
	}, nil
}

func (p *parser) parens(inner func() (ast.Expr, error)) (ast.Expr, error) {
	if err := p.literal(TokenParen, "("); err != nil {
		return nil, err
	}
	p.ws()
	e, err := inner()
	if err != nil {
		return nil, err
	}
	p.ws()
	if err := p.literal(TokenParen, ")"); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) group() (ast.Expr, error) {
	return p.parens(p.expr)
}

// Search expressions use the upper-case boolean operators and juxtaposed
// terms are implicitly ANDed.

func (p *parser) searchExpr() (ast.Expr, error) {
	return p.chain(p.searchAnd, ast.OpSearchOr)
}

func (p *parser) searchAnd() (ast.Expr, error) {
	lhs, err := p.searchNot()
	if err != nil {
		return nil, err
	}
	for {
		rhs, ok, err := optional(p, func() (ast.Expr, error) {
			start := p.pos
			p.ws()
			if err := p.literal(TokenOperator, ast.OpSearchAnd); err == nil {
				p.ws()
			} else if p.pos == start && !p.atParen() {
				return nil, p.fail("search term")
			}
			return p.searchNot()
		})
		if err != nil {
			return nil, err
		}
		if !ok {
			return lhs, nil
		}
		lhs = p.binary(ast.OpSearchAnd, lhs, rhs)
	}
}

func (p *parser) atParen() bool {
	return !p.eof() && p.src[p.pos] == '('
}

func (p *parser) searchNot() (ast.Expr, error) {
	return oneOf(p, func() (ast.Expr, error) {
		start := p.pos
		if err := p.literal(TokenOperator, ast.OpSearchNot); err != nil {
			return nil, err
		}
		p.ws()
		operand, err := p.searchNot()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{
			Kind:    "UnaryExpr",
			Op:      ast.OpSearchNot,
			Operand: operand,
			Loc:     ast.NewLoc(start, operand.End()),
		}, nil
	}, p.searchPrimary)
}

// searchPrimary falls back to a bare word so that any text that is not
// otherwise a search expression becomes a full-text search term.
func (p *parser) searchPrimary() (ast.Expr, error) {
	return oneOf(p,
		p.searchGroup,
		p.compare,
		asExpr(p.anyQuoted),
		asExpr(p.number),
		asExpr(p.bareword),
	)
}

func (p *parser) searchGroup() (ast.Expr, error) {
	return p.parens(p.searchExpr)
}

func (p *parser) compare() (ast.Expr, error) {
	lhs, err := p.fieldName()
	if err != nil {
		return nil, err
	}
	p.ws()
	op, err := p.oneOfLiterals(TokenOperator, "!=", "==", "=", ">=", "<=", ">", "<")
	if err != nil {
		return nil, err
	}
	p.ws()
	rhs, err := oneOf(p, asExpr(p.anyQuoted), asExpr(p.number), asExpr(p.bareword))
	if err != nil {
		return nil, err
	}
	return p.binary(op, lhs, rhs), nil
}

func (p *parser) bareword() (*ast.String, error) {
	start := p.pos
	loc := barewordRE.FindStringIndex(p.rest())
	if loc == nil {
		return nil, p.fail("search term")
	}
	word := p.src[start : start+loc[1]]
	if ast.IsSearchOp(word) {
		return nil, p.fail("search term")
	}
	p.emit(TokenString, loc[1])
	return &ast.String{Kind: "String", Value: word, Loc: ast.NewLoc(start, p.pos)}, nil
}
