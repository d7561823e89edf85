// Package filter implements the search and where commands.
package filter

import (
	"github.com/brimdata/spl"
	"github.com/brimdata/spl/runtime/sam/expr"
	"github.com/brimdata/spl/zbuf"
)

type Op struct {
	parent zbuf.Puller
	expr   expr.Evaluator
}

// New returns an operator that passes the records for which e is truthy.
func New(parent zbuf.Puller, e expr.Evaluator) *Op {
	return &Op{
		parent: parent,
		expr:   e,
	}
}

func (o *Op) Pull(done bool) (zbuf.Batch, error) {
	for {
		batch, err := o.parent.Pull(done)
		if batch == nil || err != nil {
			return nil, err
		}
		recs := batch.Records()
		out := make([]*spl.Record, 0, len(recs))
		for _, rec := range recs {
			ok, err := expr.EvalBool(o.expr, rec)
			if err != nil {
				o.parent.Pull(true)
				return nil, err
			}
			if ok {
				out = append(out, rec)
			}
		}
		if len(out) > 0 {
			return zbuf.NewArray(out), nil
		}
	}
}
