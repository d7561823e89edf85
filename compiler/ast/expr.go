package ast

import (
	"strconv"

	"github.com/brimdata/spl/pkg/field"
)

// Expr is implemented by all expression nodes.  The same node types are
// used for general expressions and search expressions but the two are
// produced by different grammars and compiled by different compilers.
// In particular, the upper-case boolean operators only appear in search
// expressions and the lower-case ones only in general expressions.
type Expr interface {
	Node
	ExprAST()
}

type (
	// FieldName is a possibly dotted reference to a field.  Quoted
	// records whether the name was written as a quoted string.
	FieldName struct {
		Kind   string `json:"kind" unpack:""`
		Value  string `json:"value"`
		Quoted bool   `json:"quoted,omitempty"`
		Loc    `json:"loc"`
	}
	String struct {
		Kind  string `json:"kind" unpack:""`
		Value string `json:"value"`
		Loc   `json:"loc"`
	}
	// Numeric is an integer or float literal.  Integers have arbitrary
	// precision so the literal text is retained rather than a Go number.
	Numeric struct {
		Kind  string `json:"kind" unpack:""`
		Text  string `json:"text"`
		Float bool   `json:"float"`
		Loc   `json:"loc"`
	}
	UnaryExpr struct {
		Kind    string `json:"kind" unpack:""`
		Op      string `json:"op"`
		Operand Expr   `json:"operand"`
		Loc     `json:"loc"`
	}
	// A BinaryExpr is any expression of the form "lhs op rhs" including
	// arithmetic (+, -, *, /, %), string concatenation (.), logical
	// operators (and, or, AND, OR), and comparisons (=, ==, !=, <, <=, >, >=).
	BinaryExpr struct {
		Kind string `json:"kind" unpack:""`
		Op   string `json:"op"`
		LHS  Expr   `json:"lhs"`
		RHS  Expr   `json:"rhs"`
		Loc  `json:"loc"`
	}
	CallExpr struct {
		Kind string `json:"kind" unpack:""`
		Func string `json:"func"`
		Args []Expr `json:"args"`
		Loc  `json:"loc"`
	}
)

func (*FieldName) ExprAST()  {}
func (*String) ExprAST()     {}
func (*Numeric) ExprAST()    {}
func (*UnaryExpr) ExprAST()  {}
func (*BinaryExpr) ExprAST() {}
func (*CallExpr) ExprAST()   {}

// Path returns the dotted path named by f.
func (f *FieldName) Path() field.Path {
	return field.Dotted(f.Value)
}

// Int returns the value of an integer literal that fits in an int.
func (n *Numeric) Int() (int, error) {
	if n.Float {
		return 0, &strconv.NumError{Func: "Int", Num: n.Text, Err: strconv.ErrSyntax}
	}
	return strconv.Atoi(n.Text)
}

// Operators are drawn from a closed set.
const (
	OpAnd       = "and"
	OpOr        = "or"
	OpNot       = "not"
	OpSearchAnd = "AND"
	OpSearchOr  = "OR"
	OpSearchNot = "NOT"
)

// IsSearchOp reports whether op is one of the upper-case boolean
// operators that may only appear in search expressions.
func IsSearchOp(op string) bool {
	return op == OpSearchAnd || op == OpSearchOr || op == OpSearchNot
}
