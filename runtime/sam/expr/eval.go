package expr

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/pkg/anymath"
	"github.com/brimdata/spl/runtime/sam/expr/coerce"
)

// Evaluator computes a value from a record.  An error from Eval is
// terminal for the query run.
type Evaluator interface {
	Eval(*spl.Record) (spl.Value, error)
}

// RuntimeTypeError is returned when an operator is applied to values
// outside of its coercion rules.
type RuntimeTypeError struct {
	Op  string
	Msg string
}

func (r *RuntimeTypeError) Error() string {
	return fmt.Sprintf("runtime type error: %s: %s", r.Op, r.Msg)
}

func typeError(op string, format string, args ...any) error {
	return &RuntimeTypeError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

type Literal struct {
	val spl.Value
}

var _ Evaluator = (*Literal)(nil)

func NewLiteral(val spl.Value) *Literal {
	return &Literal{val: val}
}

func (l *Literal) Eval(*spl.Record) (spl.Value, error) {
	return l.val, nil
}

// EvalBool evaluates e and applies boolean coercion to the result.
func EvalBool(e Evaluator, rec *spl.Record) (bool, error) {
	val, err := e.Eval(rec)
	if err != nil {
		return false, err
	}
	return val.Truthy(), nil
}

type Not struct {
	expr Evaluator
}

func NewLogicalNot(e Evaluator) *Not {
	return &Not{e}
}

func (n *Not) Eval(rec *spl.Record) (spl.Value, error) {
	b, err := EvalBool(n.expr, rec)
	if err != nil {
		return spl.Missing, err
	}
	return spl.NewBool(!b), nil
}

type And struct {
	lhs Evaluator
	rhs Evaluator
}

func NewLogicalAnd(lhs, rhs Evaluator) *And {
	return &And{lhs, rhs}
}

func (a *And) Eval(rec *spl.Record) (spl.Value, error) {
	lhs, err := EvalBool(a.lhs, rec)
	if err != nil || !lhs {
		return spl.False, err
	}
	rhs, err := EvalBool(a.rhs, rec)
	return spl.NewBool(rhs), err
}

type Or struct {
	lhs Evaluator
	rhs Evaluator
}

func NewLogicalOr(lhs, rhs Evaluator) *Or {
	return &Or{lhs, rhs}
}

func (o *Or) Eval(rec *spl.Record) (spl.Value, error) {
	lhs, err := EvalBool(o.lhs, rec)
	if err != nil || lhs {
		return spl.NewBool(lhs), err
	}
	rhs, err := EvalBool(o.rhs, rec)
	return spl.NewBool(rhs), err
}

func evalOperands(lhs, rhs Evaluator, rec *spl.Record) (spl.Value, spl.Value, error) {
	l, err := lhs.Eval(rec)
	if err != nil {
		return spl.Missing, spl.Missing, err
	}
	r, err := rhs.Eval(rec)
	if err != nil {
		return spl.Missing, spl.Missing, err
	}
	return l, r, nil
}

// Equal implements = and == (and their negation !=).  Strings compare
// without regard to case.
type Equal struct {
	lhs      Evaluator
	rhs      Evaluator
	equality bool
}

func NewCompareEquality(lhs, rhs Evaluator, operator string) (*Equal, error) {
	e := &Equal{lhs: lhs, rhs: rhs}
	switch operator {
	case "=", "==":
		e.equality = true
	case "!=":
	default:
		return nil, fmt.Errorf("unknown equality operator: %s", operator)
	}
	return e, nil
}

func (e *Equal) Eval(rec *spl.Record) (spl.Value, error) {
	lhs, rhs, err := evalOperands(e.lhs, e.rhs, rec)
	if err != nil {
		return spl.Missing, err
	}
	return spl.NewBool(coerce.Equal(lhs, rhs) == e.equality), nil
}

type Compare struct {
	lhs     Evaluator
	rhs     Evaluator
	op      string
	convert func(int) bool
}

func NewCompareRelative(lhs, rhs Evaluator, operator string) (*Compare, error) {
	c := &Compare{lhs: lhs, rhs: rhs, op: operator}
	switch operator {
	case "<":
		c.convert = func(v int) bool { return v < 0 }
	case "<=":
		c.convert = func(v int) bool { return v <= 0 }
	case ">":
		c.convert = func(v int) bool { return v > 0 }
	case ">=":
		c.convert = func(v int) bool { return v >= 0 }
	default:
		return nil, fmt.Errorf("unknown comparison operator: %s", operator)
	}
	return c, nil
}

// Eval is false whenever either side is null or missing.
func (c *Compare) Eval(rec *spl.Record) (spl.Value, error) {
	lhs, rhs, err := evalOperands(c.lhs, c.rhs, rec)
	if err != nil {
		return spl.Missing, err
	}
	if lhs.IsNil() || rhs.IsNil() {
		return spl.False, nil
	}
	result, err := compareOrdered(c.op, lhs, rhs)
	if err != nil {
		return spl.Missing, err
	}
	return spl.NewBool(c.convert(result)), nil
}

// compareOrdered compares numbers numerically and strings by byte order.
// A number compared with a string that looks like a number is compared
// numerically and otherwise as text.
func compareOrdered(op string, a, b spl.Value) (int, error) {
	switch {
	case a.IsNumber() && b.IsNumber():
		return coerce.CompareNumbers(a, b), nil
	case a.Kind() == spl.KindString && b.Kind() == spl.KindString:
		return strings.Compare(a.Str(), b.Str()), nil
	case a.Kind() == spl.KindBool && b.Kind() == spl.KindBool:
		return boolRank(a) - boolRank(b), nil
	case a.IsNumber() && b.Kind() == spl.KindString, a.Kind() == spl.KindString && b.IsNumber():
		an, aok := coerce.ToNumber(a)
		bn, bok := coerce.ToNumber(b)
		if aok && bok {
			return coerce.CompareNumbers(an, bn), nil
		}
		return strings.Compare(a.AsString(), b.AsString()), nil
	}
	return 0, typeError(op, "cannot compare %s with %s", a.Kind(), b.Kind())
}

func boolRank(v spl.Value) int {
	if v.Bool() {
		return 1
	}
	return 0
}

// Arith implements the arithmetic operators.  Integer arithmetic is exact;
// an integer mixed with a float is converted to float.  The + operator
// concatenates when either operand is a string.  A null or missing operand
// yields null.
type Arith struct {
	lhs Evaluator
	rhs Evaluator
	op  string
	fn  *anymath.Function
}

func NewArithmetic(lhs, rhs Evaluator, op string) (Evaluator, error) {
	a := &Arith{lhs: lhs, rhs: rhs, op: op}
	switch op {
	case "+":
		a.fn = anymath.Add
	case "-":
		a.fn = anymath.Sub
	case "*":
		a.fn = anymath.Mul
	case "/":
		a.fn = anymath.Div
	case "%":
		a.fn = anymath.Mod
	case ".":
		return &Concat{lhs, rhs}, nil
	default:
		return nil, fmt.Errorf("unknown arithmetic operator: %s", op)
	}
	return a, nil
}

func (a *Arith) Eval(rec *spl.Record) (spl.Value, error) {
	lhs, rhs, err := evalOperands(a.lhs, a.rhs, rec)
	if err != nil {
		return spl.Missing, err
	}
	if a.op == "+" && (lhs.Kind() == spl.KindString || rhs.Kind() == spl.KindString) {
		return spl.NewString(lhs.AsString() + rhs.AsString()), nil
	}
	if lhs.IsNil() || rhs.IsNil() {
		return spl.Null, nil
	}
	return Apply(a.fn, lhs, rhs)
}

// Apply applies an arithmetic function to two numbers or numeric strings.
func Apply(fn *anymath.Function, lhs, rhs spl.Value) (spl.Value, error) {
	l, lok := coerce.ToNumber(lhs)
	r, rok := coerce.ToNumber(rhs)
	if !lok {
		return spl.Missing, typeError(fn.Name, "not a number: %s", lhs)
	}
	if !rok {
		return spl.Missing, typeError(fn.Name, "not a number: %s", rhs)
	}
	kind, err := coerce.Promote(l, r)
	if err != nil {
		return spl.Missing, typeError(fn.Name, "%s", err)
	}
	if kind == spl.KindFloat {
		return spl.NewFloat(fn.Float64(coerce.ToNumeric[float64](l), coerce.ToNumeric[float64](r))), nil
	}
	if fn.DivLike && r.BigInt().Sign() == 0 {
		return spl.Missing, typeError(fn.Name, "integer divide by zero")
	}
	return spl.NewBigInt(fn.BigInt(new(big.Int), l.BigInt(), r.BigInt())), nil
}

// Concat implements the . operator, which always concatenates the text
// of its operands.
type Concat struct {
	lhs Evaluator
	rhs Evaluator
}

func (c *Concat) Eval(rec *spl.Record) (spl.Value, error) {
	lhs, rhs, err := evalOperands(c.lhs, c.rhs, rec)
	if err != nil {
		return spl.Missing, err
	}
	return spl.NewString(lhs.AsString() + rhs.AsString()), nil
}
