package expr

import (
	"github.com/brimdata/spl"
)

// Case evaluates condition/value pairs from left to right and returns the
// value of the first pair whose condition is true.  With no match the
// result is missing.  Only the arguments needed are evaluated.
type Case struct {
	conds []Evaluator
	vals  []Evaluator
}

func NewCase(conds, vals []Evaluator) *Case {
	return &Case{conds, vals}
}

func (c *Case) Eval(rec *spl.Record) (spl.Value, error) {
	for k, cond := range c.conds {
		ok, err := EvalBool(cond, rec)
		if err != nil {
			return spl.Missing, err
		}
		if ok {
			return c.vals[k].Eval(rec)
		}
	}
	return spl.Missing, nil
}

type Conditional struct {
	predicate Evaluator
	thenExpr  Evaluator
	elseExpr  Evaluator
}

func NewConditional(predicate, thenExpr, elseExpr Evaluator) *Conditional {
	return &Conditional{
		predicate: predicate,
		thenExpr:  thenExpr,
		elseExpr:  elseExpr,
	}
}

func (c *Conditional) Eval(rec *spl.Record) (spl.Value, error) {
	ok, err := EvalBool(c.predicate, rec)
	if err != nil {
		return spl.Missing, err
	}
	if ok {
		return c.thenExpr.Eval(rec)
	}
	return c.elseExpr.Eval(rec)
}

// Coalesce returns the first argument that is neither null nor missing.
type Coalesce struct {
	exprs []Evaluator
}

func NewCoalesce(exprs []Evaluator) *Coalesce {
	return &Coalesce{exprs}
}

func (c *Coalesce) Eval(rec *spl.Record) (spl.Value, error) {
	for _, e := range c.exprs {
		val, err := e.Eval(rec)
		if err != nil {
			return spl.Missing, err
		}
		if !val.IsNil() {
			return val, nil
		}
	}
	return spl.Null, nil
}
