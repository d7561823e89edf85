// Package sfmt formats syntax trees as canonical SPL text.  Parsing the
// output of AST yields a tree equal to its input apart from locations.
package sfmt

import (
	"slices"
	"strconv"
	"strings"

	"github.com/brimdata/spl/compiler/ast"
)

// AST returns the canonical text of q with one command per line.
func AST(q *ast.Query) string {
	if q == nil || len(q.Pipeline) == 0 {
		return ""
	}
	c := &canon{formatter: formatter{tab: 2}, first: true}
	for _, cmd := range q.Pipeline {
		c.command(cmd)
	}
	return c.String()
}

// ASTExpr returns the canonical text of a general expression.
func ASTExpr(e ast.Expr) string {
	c := &canon{}
	c.expr(e, 0)
	return c.String()
}

// SearchExpr returns the canonical text of a search expression.
func SearchExpr(e ast.Expr) string {
	c := &canon{}
	c.search(e, 0)
	return c.String()
}

type canon struct {
	formatter
	first bool
	// leading is set until the first term of a leading implied search is
	// written.  A command keyword there is quoted so it parses back as a
	// search term.
	leading bool
}

// next starts a new command.  A search leading the query needs no pipe.
func (c *canon) next(search bool) {
	if c.first {
		c.first = false
		if search {
			return
		}
	} else {
		c.write("\n")
		c.writeTab()
	}
	c.write("| ")
}

func (c *canon) command(cmd ast.Command) {
	switch cmd := cmd.(type) {
	case *ast.SearchCommand:
		c.next(true)
		if !cmd.Implied {
			c.write("search")
			if cmd.Expr != nil {
				c.write(" ")
			}
		}
		if cmd.Expr != nil {
			c.leading = cmd.Implied
			c.search(cmd.Expr, 0)
			c.leading = false
		}
	case *ast.WhereCommand:
		c.next(false)
		c.write("where ")
		c.expr(cmd.Expr, 0)
	case *ast.EvalCommand:
		c.next(false)
		c.write("eval ")
		for k, b := range cmd.Bindings {
			if k > 0 {
				c.write(", ")
			}
			c.field(b.Field)
			c.write("=")
			c.expr(b.Expr, 0)
		}
	case *ast.FieldsCommand:
		c.next(false)
		c.write("fields ")
		if cmd.Remove {
			c.write("- ")
		}
		c.fields(cmd.Fields)
	case *ast.StatsCommand:
		c.next(false)
		c.write("stats ")
		c.stats(cmd.Aggregations, cmd.GroupBy)
	case *ast.StreamStatsCommand:
		c.next(false)
		c.write("streamstats ")
		c.stats(cmd.Aggregations, cmd.GroupBy)
	case *ast.SortCommand:
		c.next(false)
		c.write("sort ")
		if cmd.Count != nil {
			if cmd.Limit {
				c.write("limit=")
			}
			c.write("%s ", cmd.Count.Text)
		}
		for k, f := range cmd.Fields {
			if k > 0 {
				c.write(", ")
			}
			if f.Desc {
				c.write("-")
			}
			if f.Comparator != "" {
				c.write("%s(", f.Comparator)
				c.field(f.Field)
				c.write(")")
			} else {
				c.field(f.Field)
			}
		}
	case *ast.RexCommand:
		c.next(false)
		c.write("rex ")
		if cmd.Field != nil {
			c.write("field=")
			c.field(cmd.Field)
			c.write(" ")
		}
		if cmd.Mode != "" {
			c.write("mode=%s ", cmd.Mode)
		}
		c.write(quote(cmd.Regex.Value, '"'))
	case *ast.HeadCount:
		c.next(false)
		c.write("head")
		if cmd.Count != nil {
			c.write(" ")
			if cmd.Limit {
				c.write("limit=")
			}
			c.write(cmd.Count.Text)
		}
	case *ast.HeadWhile:
		c.next(false)
		c.write("head (")
		c.expr(cmd.Expr, 0)
		c.write(")")
		if cmd.Null != nil {
			c.write(" null=%t", *cmd.Null)
		}
		if cmd.KeepLast != nil {
			c.write(" keeplast=%t", *cmd.KeepLast)
		}
	case *ast.MakeResultsCommand:
		c.next(false)
		c.write("makeresults")
		if cmd.Count != nil {
			c.write(" count=%s", cmd.Count.Text)
		}
		if cmd.Format != "" {
			c.write(" format=%s", cmd.Format)
		}
		if cmd.Data != nil {
			c.write(" data=%s", quote(cmd.Data.Value, '"'))
		}
	default:
		c.next(false)
		c.write("unknown command %T", cmd)
	}
}

func (c *canon) fields(fields []*ast.FieldName) {
	for k, f := range fields {
		if k > 0 {
			c.write(", ")
		}
		c.field(f)
	}
}

func (c *canon) field(f *ast.FieldName) {
	if f.Quoted {
		c.write(quote(f.Value, '\''))
	} else {
		c.write(f.Value)
	}
}

func (c *canon) stats(aggs []*ast.AggTerm, by []*ast.FieldName) {
	for k, a := range aggs {
		if k > 0 {
			c.write(", ")
		}
		c.write(a.Func)
		if a.Percentile != nil {
			c.write(strconv.FormatFloat(*a.Percentile, 'f', -1, 64))
		}
		if a.Field != nil {
			c.write("(")
			c.field(a.Field)
			c.write(")")
		}
		if a.As != nil {
			c.write(" as ")
			c.field(a.As)
		}
	}
	if len(by) > 0 {
		c.write(" by ")
		c.fields(by)
	}
}

// Binding strength of the general expression operators.  Higher binds
// tighter.
func precedence(op string) int {
	switch op {
	case "or":
		return 1
	case "and":
		return 2
	case "=", "==", "!=":
		return 3
	case "<", "<=", ">", ">=":
		return 4
	case "+", "-", ".":
		return 5
	case "*", "/", "%":
		return 6
	case "not":
		return 7
	default:
		return 8
	}
}

func (c *canon) expr(e ast.Expr, parent int) {
	switch e := e.(type) {
	case nil:
		c.write("null()")
	case *ast.FieldName:
		c.field(e)
	case *ast.String:
		c.write(quote(e.Value, '"'))
	case *ast.Numeric:
		c.write(e.Text)
	case *ast.UnaryExpr:
		prec := precedence(e.Op)
		c.maybewrite("(", prec < parent)
		c.write("%s ", e.Op)
		c.expr(e.Operand, prec)
		c.maybewrite(")", prec < parent)
	case *ast.BinaryExpr:
		prec := precedence(e.Op)
		c.maybewrite("(", prec < parent)
		c.expr(e.LHS, prec)
		c.write(" %s ", e.Op)
		// Operators are left associative so an operand on the right at
		// the same level needs parentheses.
		c.expr(e.RHS, prec+1)
		c.maybewrite(")", prec < parent)
	case *ast.CallExpr:
		c.write("%s(", e.Func)
		for k, arg := range e.Args {
			if k > 0 {
				c.write(", ")
			}
			c.expr(arg, 0)
		}
		c.write(")")
	default:
		c.write("unknown expression %T", e)
	}
}

func searchPrecedence(op string) int {
	switch op {
	case ast.OpSearchOr:
		return 1
	case ast.OpSearchAnd:
		return 2
	case ast.OpSearchNot:
		return 3
	default:
		return 4
	}
}

func (c *canon) search(e ast.Expr, parent int) {
	switch e := e.(type) {
	case *ast.UnaryExpr:
		c.leading = false
		prec := searchPrecedence(e.Op)
		c.maybewrite("(", prec < parent)
		c.write("%s ", e.Op)
		c.search(e.Operand, prec)
		c.maybewrite(")", prec < parent)
	case *ast.BinaryExpr:
		if !ast.IsSearchOp(e.Op) {
			c.compare(e)
			return
		}
		prec := searchPrecedence(e.Op)
		c.maybewrite("(", prec < parent)
		c.search(e.LHS, prec)
		if e.Op == ast.OpSearchAnd {
			c.write(" ")
		} else {
			c.write(" %s ", e.Op)
		}
		c.search(e.RHS, prec+1)
		c.maybewrite(")", prec < parent)
	case *ast.String:
		c.term(e.Value)
	case *ast.Numeric:
		c.leading = false
		c.write(e.Text)
	default:
		c.write("unknown search expression %T", e)
	}
}

func (c *canon) compare(e *ast.BinaryExpr) {
	c.leading = false
	if f, ok := e.LHS.(*ast.FieldName); ok {
		c.field(f)
	} else {
		c.search(e.LHS, 4)
	}
	c.write(e.Op)
	switch rhs := e.RHS.(type) {
	case *ast.String:
		c.term(rhs.Value)
	case *ast.Numeric:
		c.write(rhs.Text)
	default:
		c.search(rhs, 4)
	}
}

// term writes a search term bare when it would parse back as the same
// bare word and quoted otherwise.
func (c *canon) term(s string) {
	leading := c.leading
	c.leading = false
	if isBareword(s) && !(leading && slices.Contains(ast.CommandNames, s)) {
		c.write(s)
		return
	}
	c.write(quote(s, '"'))
}

func isBareword(s string) bool {
	if s == "" || ast.IsSearchOp(s) || strings.ContainsAny(s, " \t\r\n|()\"'=<>!") {
		return false
	}
	// A number would parse back as a numeric term.
	_, err := strconv.ParseFloat(s, 64)
	return err != nil
}

func (c *canon) maybewrite(s string, do bool) {
	if do {
		c.write(s)
	}
}
