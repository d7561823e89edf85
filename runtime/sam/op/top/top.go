// Package top implements the sort command with a result limit.
package top

import (
	"container/heap"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/runtime/sam/expr"
	"github.com/brimdata/spl/zbuf"
)

// DefaultLimit is the number of records sort returns when no count is
// given.
const DefaultLimit = 10_000

// Op produces the first limit records that a stable sort with the same
// comparator would produce.  It keeps at most limit records in a heap
// whose root is the worst record kept, so it runs in O(N log limit) time
// and O(limit) space.
type Op struct {
	parent     zbuf.Puller
	limit      int
	comparator *expr.Comparator

	eos     bool
	records *expr.RecordHeap
}

func New(parent zbuf.Puller, limit int, comparator *expr.Comparator) *Op {
	return &Op{
		parent:     parent,
		limit:      limit,
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
			if o.records == nil {
				return nil, nil
			}
			o.eos = true
			return o.sorted(), nil
		}
		for _, rec := range batch.Records() {
			o.consume(rec)
		}
	}
}

func (o *Op) consume(rec *spl.Record) {
	if o.records == nil {
		// package heap implements a min-heap.  Reverse the order to get a
		// max-heap.
		o.records = expr.NewRecordHeap(o.comparator.Compare, true)
	}
	if o.records.Len() < o.limit {
		heap.Push(o.records, rec)
		return
	}
	if o.limit > 0 && o.records.Beats(rec) {
		heap.Pop(o.records)
		heap.Push(o.records, rec)
	}
}

func (o *Op) sorted() zbuf.Batch {
	out := make([]*spl.Record, o.records.Len())
	for i := o.records.Len() - 1; i >= 0; i-- {
		out[i] = heap.Pop(o.records).(*spl.Record)
	}
	o.records = nil
	if len(out) == 0 {
		o.eos = false
		return nil
	}
	return zbuf.NewArray(out)
}
