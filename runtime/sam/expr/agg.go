package expr

import (
	"github.com/brimdata/spl"
	"github.com/brimdata/spl/runtime/sam/expr/agg"
)

// Aggregator binds an aggregate function to the expression whose values
// it consumes.
type Aggregator struct {
	pattern agg.Pattern
	expr    Evaluator
}

func NewAggregator(op string, expr Evaluator, pct *float64, cfg agg.Config) (*Aggregator, error) {
	pattern, err := agg.NewPattern(op, expr != nil, pct, cfg)
	if err != nil {
		return nil, err
	}
	if expr == nil || op == "count" {
		// Count ignores its argument and counts every record.
		expr = &Literal{spl.True}
	}
	return &Aggregator{
		pattern: pattern,
		expr:    expr,
	}, nil
}

func (a *Aggregator) NewFunction() agg.Function {
	return a.pattern()
}

// Apply feeds the value of the aggregator's expression on rec to f.
// Records where the expression is missing are skipped.
func (a *Aggregator) Apply(f agg.Function, rec *spl.Record) error {
	v, err := a.expr.Eval(rec)
	if err != nil {
		return err
	}
	if !v.IsMissing() {
		f.Consume(v)
	}
	return nil
}
