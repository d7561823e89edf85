// Package meter counts the records pulled from a query's source.
package meter

import (
	"github.com/brimdata/spl/runtime"
	"github.com/brimdata/spl/zbuf"
)

// Op passes batches through unchanged and adds their size to the run's
// records read.  It sits directly on the source, ahead of any filtering.
type Op struct {
	rctx   *runtime.Context
	parent zbuf.Puller
}

func New(rctx *runtime.Context, parent zbuf.Puller) *Op {
	return &Op{rctx: rctx, parent: parent}
}

func (o *Op) Pull(done bool) (zbuf.Batch, error) {
	batch, err := o.parent.Pull(done)
	if batch != nil {
		o.rctx.AddRecordsRead(len(batch.Records()))
	}
	return batch, err
}
