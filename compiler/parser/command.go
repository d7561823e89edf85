package parser

import (
	"errors"
	"strconv"

	"github.com/brimdata/spl/compiler/ast"
	"github.com/brimdata/spl/pkg/names"
	"github.com/grafana/regexp"
)

var (
	aggNameRE = regexp.MustCompile(`^[A-Za-z_]+(?:\d+(?:\.\d+)?)?`)
	percRE    = regexp.MustCompile(`^(exactperc|perc|p)(\d+(?:\.\d+)?)$`)
)

func asCommand[T ast.Command](rule func() (T, error)) func() (ast.Command, error) {
	return func() (ast.Command, error) {
		v, err := rule()
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

func (p *parser) query() (*ast.Query, error) {
	p.ws()
	var pipeline []ast.Command
	if !p.eof() && p.src[p.pos] != '|' {
		cmd, ok, err := optional(p, func() (ast.Command, error) {
			return oneOf(p, asCommand(p.searchCommand), p.leadingCommand, asCommand(p.impliedSearch))
		})
		if err != nil {
			return nil, err
		}
		if ok {
			pipeline = append(pipeline, cmd)
		}
	}
	for {
		p.ws()
		if p.eof() {
			break
		}
		if err := p.literal(TokenPipe, "|"); err != nil {
			return nil, p.unexpected()
		}
		p.ws()
		cmd, err := p.command()
		if err != nil {
			return nil, err
		}
		pipeline = append(pipeline, cmd)
	}
	return &ast.Query{
		Kind:     "Query",
		Pipeline: pipeline,
		Loc:      ast.NewLoc(0, len(p.src)),
	}, nil
}

// unexpected reports a syntax error at the farthest position reached.
func (p *parser) unexpected() error {
	pos := max(p.farthest, p.pos)
	if pos >= len(p.src) {
		return p.errorf(pos, "unexpected end of query")
	}
	near := p.src[pos:]
	if i := indexSpace(near); i > 0 {
		near = near[:i]
	}
	return p.errorf(pos, "unexpected "+strconv.Quote(near))
}

func indexSpace(s string) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r', '|':
			return i
		}
	}
	return len(s)
}

func (p *parser) command() (ast.Command, error) {
	start := p.pos
	p.suggestAll(TokenCommand, ast.CommandNames)
	cmd, err := oneOf(p, append([]func() (ast.Command, error){asCommand(p.searchCommand)}, p.commandRules()...)...)
	if errors.Is(err, errNoMatch) {
		if p.farthest <= start {
			if word := identRE.FindString(p.src[start:]); word != "" {
				return nil, p.errorf(start, "unknown command "+strconv.Quote(word)+names.Hint(word, ast.CommandNames))
			}
		}
		return nil, p.unexpected()
	}
	return cmd, err
}

// commandRules returns the rules of every command but search.
func (p *parser) commandRules() []func() (ast.Command, error) {
	return []func() (ast.Command, error){
		asCommand(p.whereCommand),
		asCommand(p.evalCommand),
		asCommand(p.fieldsCommand),
		asCommand(p.statsCommand),
		asCommand(p.streamStatsCommand),
		asCommand(p.sortCommand),
		asCommand(p.rexCommand),
		p.headCommand,
		asCommand(p.makeResultsCommand),
	}
}

// leadingCommand matches a command other than search written at the start
// of a query without a pipe, e.g., "stats count by host".  The command must
// extend to the first pipe or the end of the query.  Otherwise the text is
// an implied search.
func (p *parser) leadingCommand() (ast.Command, error) {
	cmd, err := oneOf(p, p.commandRules()...)
	if err != nil {
		return nil, err
	}
	p.ws()
	if !p.eof() && p.src[p.pos] != '|' {
		return nil, errNoMatch
	}
	return cmd, nil
}

func (p *parser) keyword(s string) error {
	if err := p.literal(TokenCommand, s); err != nil {
		return err
	}
	p.ws()
	return nil
}

func (p *parser) searchCommand() (*ast.SearchCommand, error) {
	start := p.pos
	if err := p.keyword("search"); err != nil {
		return nil, err
	}
	e, _, err := optional(p, p.searchExpr)
	if err != nil {
		return nil, err
	}
	return &ast.SearchCommand{Kind: "SearchCommand", Expr: e, Loc: ast.NewLoc(start, p.pos)}, nil
}

func (p *parser) impliedSearch() (*ast.SearchCommand, error) {
	start := p.pos
	e, err := p.searchExpr()
	if err != nil {
		return nil, err
	}
	return &ast.SearchCommand{Kind: "SearchCommand", Expr: e, Implied: true, Loc: ast.NewLoc(start, p.pos)}, nil
}

func (p *parser) whereCommand() (*ast.WhereCommand, error) {
	start := p.pos
	if err := p.keyword("where"); err != nil {
		return nil, err
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &ast.WhereCommand{Kind: "WhereCommand", Expr: e, Loc: ast.NewLoc(start, p.pos)}, nil
}

func (p *parser) evalCommand() (*ast.EvalCommand, error) {
	start := p.pos
	if err := p.keyword("eval"); err != nil {
		return nil, err
	}
	bindings, err := list(p, p.binding, p.comma)
	if err != nil {
		return nil, err
	}
	return &ast.EvalCommand{Kind: "EvalCommand", Bindings: bindings, Loc: ast.NewLoc(start, p.pos)}, nil
}

func (p *parser) binding() (ast.Binding, error) {
	f, err := p.fieldName()
	if err != nil {
		return ast.Binding{}, err
	}
	p.ws()
	if err := p.literal(TokenOperator, "="); err != nil {
		return ast.Binding{}, err
	}
	p.ws()
	e, err := p.expr()
	if err != nil {
		return ast.Binding{}, err
	}
	return ast.Binding{Field: f, Expr: e, Loc: ast.NewLoc(f.Pos(), e.End())}, nil
}

func (p *parser) fieldsCommand() (*ast.FieldsCommand, error) {
	start := p.pos
	if err := p.keyword("fields"); err != nil {
		return nil, err
	}
	sign, _, err := optional(p, func() (string, error) {
		s, err := p.oneOfLiterals(TokenOperator, "+", "-")
		p.ws()
		return s, err
	})
	if err != nil {
		return nil, err
	}
	fields, err := p.fieldList()
	if err != nil {
		return nil, err
	}
	return &ast.FieldsCommand{
		Kind:   "FieldsCommand",
		Fields: fields,
		Remove: sign == "-",
		Loc:    ast.NewLoc(start, p.pos),
	}, nil
}

func (p *parser) fieldList() ([]*ast.FieldName, error) {
	return list(p, p.fieldName, p.commaOrSpace)
}

func (p *parser) statsCommand() (*ast.StatsCommand, error) {
	start := p.pos
	if err := p.keyword("stats"); err != nil {
		return nil, err
	}
	aggs, by, err := p.statsBody()
	if err != nil {
		return nil, err
	}
	return &ast.StatsCommand{
		Kind:         "StatsCommand",
		Aggregations: aggs,
		GroupBy:      by,
		Loc:          ast.NewLoc(start, p.pos),
	}, nil
}

func (p *parser) streamStatsCommand() (*ast.StreamStatsCommand, error) {
	start := p.pos
	if err := p.keyword("streamstats"); err != nil {
		return nil, err
	}
	aggs, by, err := p.statsBody()
	if err != nil {
		return nil, err
	}
	return &ast.StreamStatsCommand{
		Kind:         "StreamStatsCommand",
		Aggregations: aggs,
		GroupBy:      by,
		Loc:          ast.NewLoc(start, p.pos),
	}, nil
}

func (p *parser) statsBody() ([]*ast.AggTerm, []*ast.FieldName, error) {
	aggs, err := list(p, p.aggTerm, p.commaOrSpace)
	if err != nil {
		return nil, nil, err
	}
	by, _, err := optional(p, func() ([]*ast.FieldName, error) {
		p.ws()
		if err := p.literal(TokenKeyword, "by"); err != nil {
			return nil, err
		}
		p.ws()
		return p.fieldList()
	})
	if err != nil {
		return nil, nil, err
	}
	return aggs, by, nil
}

func (p *parser) aggTerm() (*ast.AggTerm, error) {
	start := p.pos
	p.suggestAll(TokenFunction, aggNames)
	loc := aggNameRE.FindStringIndex(p.rest())
	if loc == nil || p.wordCharAt(p.pos+loc[1]) {
		return nil, p.fail("aggregation")
	}
	name := p.src[start : start+loc[1]]
	if name == "by" || name == "as" {
		return nil, p.fail("aggregation")
	}
	p.emit(TokenFunction, loc[1])
	agg := &ast.AggTerm{Kind: "AggTerm", Func: name}
	if m := percRE.FindStringSubmatch(name); m != nil {
		pct, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil, p.errorf(start, "bad percentile in "+strconv.Quote(name))
		}
		agg.Func = "perc"
		if m[1] == "exactperc" {
			agg.Func = "exactperc"
		}
		agg.Percentile = &pct
	}
	// Empty parentheses are no field, e.g., "count()".
	field, _, err := optional(p, func() (*ast.FieldName, error) {
		p.ws()
		if err := p.literal(TokenParen, "("); err != nil {
			return nil, err
		}
		p.ws()
		f, _, err := optional(p, p.fieldName)
		if err != nil {
			return nil, err
		}
		p.ws()
		return f, p.literal(TokenParen, ")")
	})
	if err != nil {
		return nil, err
	}
	agg.Field = field
	as, _, err := optional(p, func() (*ast.FieldName, error) {
		p.ws()
		if err := p.literal(TokenKeyword, "as"); err != nil {
			return nil, err
		}
		p.ws()
		return p.fieldName()
	})
	if err != nil {
		return nil, err
	}
	agg.As = as
	agg.Loc = ast.NewLoc(start, p.pos)
	p.observe(AggFieldName(agg))
	return agg, nil
}

// AggFieldName returns the name of the output field of an aggregation,
// which is the "as" name if present or otherwise the aggregation as
// written, e.g., "count" or "avg(x)".
func AggFieldName(agg *ast.AggTerm) string {
	if agg.As != nil {
		return agg.As.Value
	}
	name := agg.Func
	if agg.Percentile != nil {
		name += strconv.FormatFloat(*agg.Percentile, 'f', -1, 64)
	}
	if agg.Field != nil {
		name += "(" + agg.Field.Value + ")"
	}
	return name
}

func (p *parser) sortCommand() (*ast.SortCommand, error) {
	start := p.pos
	if err := p.keyword("sort"); err != nil {
		return nil, err
	}
	sort, err := oneOf(p, func() (*ast.SortCommand, error) {
		if err := p.literal(TokenParameter, "limit="); err != nil {
			return nil, err
		}
		n, err := p.number()
		if err != nil {
			return nil, err
		}
		p.ws()
		return p.sortFields(n, true)
	}, func() (*ast.SortCommand, error) {
		// "sort 3 value" has a count but "sort 3" sorts by the field
		// named "3".
		n, err := p.number()
		if err != nil {
			return nil, err
		}
		if _, err := p.match(TokenWhitespace, wsRE, "whitespace"); err != nil {
			return nil, err
		}
		return p.sortFields(n, false)
	}, func() (*ast.SortCommand, error) {
		return p.sortFields(nil, false)
	})
	if err != nil {
		return nil, err
	}
	sort.Loc = ast.NewLoc(start, p.pos)
	return sort, nil
}

func (p *parser) sortFields(count *ast.Numeric, limit bool) (*ast.SortCommand, error) {
	fields, err := list(p, p.sortField, p.commaOrSpace)
	if err != nil {
		return nil, err
	}
	return &ast.SortCommand{
		Kind:   "SortCommand",
		Count:  count,
		Limit:  limit,
		Fields: fields,
	}, nil
}

func (p *parser) sortField() (*ast.SortField, error) {
	start := p.pos
	sign, _, err := optional(p, func() (string, error) {
		s, err := p.oneOfLiterals(TokenOperator, "+", "-")
		p.ws()
		return s, err
	})
	if err != nil {
		return nil, err
	}
	type keyed struct {
		comparator string
		field      *ast.FieldName
	}
	k, err := oneOf(p, func() (keyed, error) {
		cmp, err := p.oneOfLiterals(TokenKeyword, "auto", "str", "num", "ip")
		if err != nil {
			return keyed{}, err
		}
		if err := p.literal(TokenParen, "("); err != nil {
			return keyed{}, err
		}
		p.ws()
		f, err := p.fieldName()
		if err != nil {
			return keyed{}, err
		}
		p.ws()
		return keyed{cmp, f}, p.literal(TokenParen, ")")
	}, func() (keyed, error) {
		f, err := p.fieldName()
		return keyed{"", f}, err
	})
	if err != nil {
		return nil, err
	}
	return &ast.SortField{
		Kind:       "SortField",
		Field:      k.field,
		Comparator: k.comparator,
		Desc:       sign == "-",
		Loc:        ast.NewLoc(start, p.pos),
	}, nil
}

func (p *parser) rexCommand() (*ast.RexCommand, error) {
	start := p.pos
	if err := p.keyword("rex"); err != nil {
		return nil, err
	}
	rex := &ast.RexCommand{Kind: "RexCommand"}
	for {
		optStart := p.pos
		switch {
		case p.literal(TokenParameter, "field=") == nil:
			f, err := p.fieldName()
			if err != nil {
				return nil, err
			}
			if rex.Field != nil {
				return nil, p.errorf(optStart, "rex: field= given more than once")
			}
			rex.Field = f
		case p.literal(TokenParameter, "mode=") == nil:
			mode, err := p.oneOfLiterals(TokenKeyword, "sed")
			if err != nil {
				return nil, err
			}
			rex.Mode = mode
		case rex.Regex == nil && !p.eof() && (p.src[p.pos] == '"' || p.src[p.pos] == '\''):
			s, err := p.str(TokenRegex, `"'`)
			if err != nil {
				return nil, err
			}
			rex.Regex = s
		default:
			if rex.Regex == nil {
				return nil, p.fail("quoted regular expression")
			}
			rex.Loc = ast.NewLoc(start, p.pos)
			return rex, nil
		}
		m := p.mark()
		p.ws()
		if p.eof() || p.src[p.pos] == '|' {
			p.restore(m)
		}
	}
}

// headCommand returns a *ast.HeadCount or a *ast.HeadWhile.  Options may
// appear in any order.
func (p *parser) headCommand() (ast.Command, error) {
	start := p.pos
	if err := p.keyword("head"); err != nil {
		return nil, err
	}
	var (
		count      *ast.Numeric
		limit      bool
		cond       ast.Expr
		null, keep *bool
	)
	for {
		optionStart := p.pos
		switch {
		case p.literal(TokenParameter, "limit=") == nil:
			n, err := p.number()
			if err != nil {
				return nil, err
			}
			if count != nil {
				return nil, p.errorf(optionStart, "head: limit given more than once")
			}
			count, limit = n, true
		case p.literal(TokenParameter, "null=") == nil:
			b, err := p.boolean()
			if err != nil {
				return nil, err
			}
			null = &b
		case p.literal(TokenParameter, "keeplast=") == nil:
			b, err := p.boolean()
			if err != nil {
				return nil, err
			}
			keep = &b
		default:
			n, ok, err := optional(p, p.number)
			if err != nil {
				return nil, err
			}
			if ok {
				if count != nil {
					return nil, p.errorf(optionStart, "head: a count and limit= may not both be given")
				}
				count = n
				break
			}
			e, ok, err := optional(p, p.group)
			if err != nil {
				return nil, err
			}
			if !ok {
				return p.finishHead(start, count, limit, cond, null, keep)
			}
			if cond != nil {
				return nil, p.errorf(optionStart, "head: more than one expression given")
			}
			cond = e
		}
		m := p.mark()
		p.ws()
		if p.eof() || p.src[p.pos] == '|' {
			p.restore(m)
			return p.finishHead(start, count, limit, cond, null, keep)
		}
	}
}

func (p *parser) finishHead(start int, count *ast.Numeric, limit bool, cond ast.Expr, null, keep *bool) (ast.Command, error) {
	loc := ast.NewLoc(start, p.pos)
	if cond != nil {
		if count != nil {
			return nil, p.errorf(start, "head: a count and an expression may not both be given")
		}
		return &ast.HeadWhile{Kind: "HeadWhile", Expr: cond, Null: null, KeepLast: keep, Loc: loc}, nil
	}
	if null != nil || keep != nil {
		return nil, p.errorf(start, "head: null= and keeplast= require an expression")
	}
	return &ast.HeadCount{Kind: "HeadCount", Count: count, Limit: limit, Loc: loc}, nil
}

func (p *parser) boolean() (bool, error) {
	s, err := p.oneOfLiterals(TokenKeyword, "true", "false", "t", "f")
	if err != nil {
		return false, err
	}
	return s[0] == 't', nil
}

func (p *parser) makeResultsCommand() (*ast.MakeResultsCommand, error) {
	start := p.pos
	if err := p.keyword("makeresults"); err != nil {
		return nil, err
	}
	mr := &ast.MakeResultsCommand{Kind: "MakeResultsCommand"}
	for {
		switch {
		case p.literal(TokenParameter, "count=") == nil:
			n, err := p.number()
			if err != nil {
				return nil, err
			}
			mr.Count = n
		case p.literal(TokenParameter, "format=") == nil:
			f, err := p.oneOfLiterals(TokenKeyword, "json", "csv")
			if err != nil {
				return nil, err
			}
			mr.Format = f
		case p.literal(TokenParameter, "data=") == nil:
			s, err := p.anyQuoted()
			if err != nil {
				return nil, err
			}
			mr.Data = s
		default:
			mr.Loc = ast.NewLoc(start, p.pos)
			return mr, nil
		}
		m := p.mark()
		p.ws()
		if p.eof() || p.src[p.pos] == '|' {
			p.restore(m)
		}
	}
}
