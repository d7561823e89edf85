package rungen

import (
	"errors"
	"fmt"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/compiler/ast"
	"github.com/brimdata/spl/pkg/names"
	"github.com/brimdata/spl/runtime/sam/expr"
	"github.com/brimdata/spl/runtime/sam/expr/function"
)

// compileExpr compiles a general expression into an Evaluator.  Values are
// dynamically typed so the coercion rules are applied as each record is
// evaluated.
func (b *Builder) compileExpr(e ast.Expr) (expr.Evaluator, error) {
	if e == nil {
		return nil, errors.New("null expression not allowed")
	}
	switch e := e.(type) {
	case *ast.Numeric:
		val, err := compileNumeric(e)
		if err != nil {
			return nil, err
		}
		return expr.NewLiteral(val), nil
	case *ast.String:
		return expr.NewLiteral(spl.NewString(e.Value)), nil
	case *ast.FieldName:
		return expr.NewDottedExpr(e.Path()), nil
	case *ast.UnaryExpr:
		return b.compileUnary(e)
	case *ast.BinaryExpr:
		return b.compileBinary(e)
	case *ast.CallExpr:
		return b.compileCall(e)
	default:
		return nil, fmt.Errorf("invalid expression type %T", e)
	}
}

func compileNumeric(n *ast.Numeric) (spl.Value, error) {
	val, ok := spl.ParseNumber(n.Text)
	if !ok {
		return spl.Missing, errorf(n, "invalid number %q", n.Text)
	}
	return val, nil
}

func (b *Builder) compileExprs(in []ast.Expr) ([]expr.Evaluator, error) {
	var exprs []expr.Evaluator
	for _, e := range in {
		ev, err := b.compileExpr(e)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, ev)
	}
	return exprs, nil
}

func (b *Builder) compileUnary(unary *ast.UnaryExpr) (expr.Evaluator, error) {
	if unary.Op != ast.OpNot {
		return nil, errorf(unary, "unknown unary operator %q", unary.Op)
	}
	e, err := b.compileExpr(unary.Operand)
	if err != nil {
		return nil, err
	}
	return expr.NewLogicalNot(e), nil
}

func (b *Builder) compileBinary(e *ast.BinaryExpr) (expr.Evaluator, error) {
	lhs, err := b.compileExpr(e.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := b.compileExpr(e.RHS)
	if err != nil {
		return nil, err
	}
	var ev expr.Evaluator
	switch op := e.Op; op {
	case ast.OpAnd:
		return expr.NewLogicalAnd(lhs, rhs), nil
	case ast.OpOr:
		return expr.NewLogicalOr(lhs, rhs), nil
	case "=", "==", "!=":
		ev, err = expr.NewCompareEquality(lhs, rhs, op)
	case "<", "<=", ">", ">=":
		ev, err = expr.NewCompareRelative(lhs, rhs, op)
	case "+", "-", "*", "/", "%", ".":
		ev, err = expr.NewArithmetic(lhs, rhs, op)
	default:
		return nil, errorf(e, "invalid binary operator %q", op)
	}
	if err != nil {
		return nil, errorf(e, "%s", err)
	}
	return ev, nil
}

// compileCall compiles a function call.  The conditionals evaluate only
// the arguments they need and so are compiled here rather than through
// the function table.
func (b *Builder) compileCall(call *ast.CallExpr) (expr.Evaluator, error) {
	args, err := b.compileExprs(call.Args)
	if err != nil {
		return nil, err
	}
	nargs := len(args)
	switch call.Func {
	case "case":
		if nargs == 0 || nargs%2 != 0 {
			return nil, errorf(call, "case: requires condition and value pairs")
		}
		var conds, vals []expr.Evaluator
		for k := 0; k < nargs; k += 2 {
			conds = append(conds, args[k])
			vals = append(vals, args[k+1])
		}
		return expr.NewCase(conds, vals), nil
	case "if":
		if nargs != 3 {
			return nil, errorf(call, "if: requires three arguments")
		}
		return expr.NewConditional(args[0], args[1], args[2]), nil
	case "coalesce":
		if nargs == 0 {
			return nil, errorf(call, "coalesce: %s", function.ErrTooFewArgs)
		}
		return expr.NewCoalesce(args), nil
	}
	fn, err := function.New(b.env, call.Func, nargs)
	switch {
	case errors.Is(err, function.ErrNoSuchFunction):
		return nil, errorf(call, "unknown function %q%s", call.Func, names.Hint(call.Func, function.Names))
	case err != nil:
		return nil, errorf(call, "%s: %s", call.Func, err)
	}
	return expr.NewCall(fn, args), nil
}

// compileSearch compiles a search expression.  Bare terms match anywhere
// in a record and comparisons match the value of one field.
func (b *Builder) compileSearch(e ast.Expr) (expr.Evaluator, error) {
	switch e := e.(type) {
	case *ast.String:
		return b.compileSearchTerm(e, e.Value)
	case *ast.Numeric:
		return b.compileSearchTerm(e, e.Text)
	case *ast.FieldName:
		return b.compileSearchTerm(e, e.Value)
	case *ast.UnaryExpr:
		if e.Op != ast.OpSearchNot {
			return nil, errorf(e, "invalid search operator %q", e.Op)
		}
		operand, err := b.compileSearch(e.Operand)
		if err != nil {
			return nil, err
		}
		return expr.NewLogicalNot(operand), nil
	case *ast.BinaryExpr:
		switch e.Op {
		case ast.OpSearchAnd, ast.OpSearchOr:
			lhs, err := b.compileSearch(e.LHS)
			if err != nil {
				return nil, err
			}
			rhs, err := b.compileSearch(e.RHS)
			if err != nil {
				return nil, err
			}
			if e.Op == ast.OpSearchAnd {
				return expr.NewLogicalAnd(lhs, rhs), nil
			}
			return expr.NewLogicalOr(lhs, rhs), nil
		case "=", "==", "!=", "<", "<=", ">", ">=":
			return b.compileSearchCompare(e)
		}
		return nil, errorf(e, "invalid search operator %q", e.Op)
	default:
		return nil, fmt.Errorf("invalid search expression type %T", e)
	}
}

func (b *Builder) compileSearchTerm(n ast.Node, term string) (expr.Evaluator, error) {
	s, err := expr.NewSearchTerm(term)
	if err != nil {
		return nil, errorf(n, "search term %q: %s", term, err)
	}
	return s, nil
}

func (b *Builder) compileSearchCompare(e *ast.BinaryExpr) (expr.Evaluator, error) {
	f, ok := e.LHS.(*ast.FieldName)
	if !ok {
		return nil, errorf(e, "search comparison requires a field name")
	}
	var literal spl.Value
	switch rhs := e.RHS.(type) {
	case *ast.String:
		literal = spl.NewString(rhs.Value)
	case *ast.FieldName:
		literal = spl.NewString(rhs.Value)
	case *ast.Numeric:
		val, err := compileNumeric(rhs)
		if err != nil {
			return nil, err
		}
		literal = val
	default:
		return nil, errorf(e.RHS, "search comparison requires a literal value")
	}
	s, err := expr.NewSearchCompare(f.Path(), e.Op, literal)
	if err != nil {
		return nil, errorf(e, "%s", err)
	}
	return s, nil
}
