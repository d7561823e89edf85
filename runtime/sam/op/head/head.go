// Package head implements the two forms of the head command: a count of
// records and an expression that ends the output at the first record for
// which it is false.
package head

import (
	"github.com/brimdata/spl"
	"github.com/brimdata/spl/runtime/sam/expr"
	"github.com/brimdata/spl/zbuf"
)

const DefaultLimit = 10

// Op passes the first limit records.  Once the limit is reached the parent
// is released with Pull(true) so upstream operators stop reading.
type Op struct {
	parent zbuf.Puller
	limit  int
	count  int
	eos    bool
}

func New(parent zbuf.Puller, limit int) *Op {
	return &Op{
		parent: parent,
		limit:  limit,
	}
}

func (o *Op) Pull(done bool) (zbuf.Batch, error) {
	if o.eos {
		return nil, nil
	}
	if done || o.count >= o.limit {
		o.eos = true
		_, err := o.parent.Pull(true)
		return nil, err
	}
	batch, err := o.parent.Pull(false)
	if batch == nil || err != nil {
		o.eos = true
		return nil, err
	}
	recs := batch.Records()
	if remaining := o.limit - o.count; len(recs) >= remaining {
		recs = recs[:remaining]
		o.eos = true
		if _, err := o.parent.Pull(true); err != nil {
			return nil, err
		}
	}
	o.count += len(recs)
	return zbuf.NewArray(recs), nil
}

// While passes records until the first record for which the predicate is
// false.  That record is passed too when keepLast is set.  A predicate that
// is null or missing counts as true when null is set and as false
// otherwise.
type While struct {
	parent   zbuf.Puller
	pred     expr.Evaluator
	null     bool
	keepLast bool
	eos      bool
}

func NewWhile(parent zbuf.Puller, pred expr.Evaluator, null, keepLast bool) *While {
	return &While{
		parent:   parent,
		pred:     pred,
		null:     null,
		keepLast: keepLast,
	}
}

func (w *While) Pull(done bool) (zbuf.Batch, error) {
	if w.eos {
		return nil, nil
	}
	if done {
		w.eos = true
		_, err := w.parent.Pull(true)
		return nil, err
	}
	for {
		batch, err := w.parent.Pull(false)
		if batch == nil || err != nil {
			w.eos = true
			return nil, err
		}
		recs := batch.Records()
		for k, rec := range recs {
			ok, err := w.test(rec)
			if err != nil {
				w.eos = true
				w.parent.Pull(true)
				return nil, err
			}
			if ok {
				continue
			}
			if w.keepLast {
				k++
			}
			w.eos = true
			if _, err := w.parent.Pull(true); err != nil {
				return nil, err
			}
			if k == 0 {
				return nil, nil
			}
			return zbuf.NewArray(recs[:k]), nil
		}
		if len(recs) > 0 {
			return batch, nil
		}
	}
}

func (w *While) test(rec *spl.Record) (bool, error) {
	val, err := w.pred.Eval(rec)
	if err != nil {
		return false, err
	}
	if val.IsNil() {
		return w.null, nil
	}
	return val.Truthy(), nil
}
