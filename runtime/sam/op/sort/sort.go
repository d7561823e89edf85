// Package sort implements the unlimited form of the sort command, a
// stable sort of the entire input.
package sort

import (
	"github.com/brimdata/spl"
	"github.com/brimdata/spl/runtime/sam/expr"
	"github.com/brimdata/spl/zbuf"
)

type Op struct {
	parent     zbuf.Puller
	comparator *expr.Comparator

	records []*spl.Record
	eos     bool
}

func New(parent zbuf.Puller, comparator *expr.Comparator) *Op {
	return &Op{
		parent:     parent,
		comparator: comparator,
	}
}

func (o *Op) Pull(done bool) (zbuf.Batch, error) {
	if o.eos {
		o.eos = false
		return nil, nil
	}
	if done {
		o.records = nil
		_, err := o.parent.Pull(true)
		return nil, err
	}
	for {
		batch, err := o.parent.Pull(false)
		if err != nil {
			o.records = nil
			return nil, err
		}
		if batch == nil {
			if len(o.records) == 0 {
				return nil, nil
			}
			out := o.records
			o.records = nil
			o.comparator.SortStable(out)
			o.eos = true
			return zbuf.NewArray(out), nil
		}
		o.records = append(o.records, batch.Records()...)
	}
}
