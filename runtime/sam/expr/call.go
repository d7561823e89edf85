package expr

import (
	"github.com/brimdata/spl"
)

// Function is a built-in function applied to its evaluated arguments.
type Function interface {
	Call([]spl.Value) (spl.Value, error)
}

type Call struct {
	fn    Function
	exprs []Evaluator
	args  []spl.Value
}

func NewCall(fn Function, exprs []Evaluator) *Call {
	return &Call{
		fn:    fn,
		exprs: exprs,
		args:  make([]spl.Value, len(exprs)),
	}
}

// Eval is not safe for concurrent use since the argument slice is reused.
func (c *Call) Eval(rec *spl.Record) (spl.Value, error) {
	for k, e := range c.exprs {
		val, err := e.Eval(rec)
		if err != nil {
			return spl.Missing, err
		}
		c.args[k] = val
	}
	return c.fn.Call(c.args)
}
