package exec

import (
	"iter"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/runtime"
	"github.com/brimdata/spl/runtime/sam/op"
	"github.com/brimdata/spl/sio"
	"github.com/brimdata/spl/zbuf"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// Query runs a compiled pipeline as a zbuf.Puller and implements a Close()
// method that gracefully tears down the pipeline.  Its AsReader() and All()
// methods provide convenient means to consume the output.
type Query struct {
	zbuf.Puller
	ID   ksuid.KSUID
	rctx *runtime.Context
}

var _ runtime.Query = (*Query)(nil)

// NewQuery returns a Query for puller.  Panics raised while pulling are
// returned as errors.
func NewQuery(rctx *runtime.Context, id ksuid.KSUID, puller zbuf.Puller) *Query {
	rctx.Metrics.Queries.Inc()
	return &Query{
		Puller: op.NewCatcher(puller),
		ID:     id,
		rctx:   rctx,
	}
}

func (q *Query) Context() *runtime.Context {
	return q.rctx
}

func (q *Query) AsReader() sio.Reader {
	return zbuf.PullerReader(q)
}

// All returns an iterator over the output records.  Iteration stops after
// the first error.  Stopping early releases the pipeline's sources.
func (q *Query) All() iter.Seq2[*spl.Record, error] {
	return func(yield func(*spl.Record, error) bool) {
		for {
			batch, err := q.Pull(false)
			if err != nil {
				yield(nil, err)
				return
			}
			if batch == nil {
				return
			}
			for _, rec := range batch.Records() {
				if !yield(rec, nil) {
					q.Pull(true)
					return
				}
			}
		}
	}
}

func (q *Query) Progress() runtime.Progress {
	return q.rctx.Progress()
}

func (q *Query) Close() error {
	q.rctx.Cancel()
	p := q.Progress()
	q.rctx.Logger.Debug("query closed",
		zap.Int64("records_read", p.RecordsRead),
		zap.Int64("records_emitted", p.RecordsEmitted))
	return nil
}

func (q *Query) Pull(done bool) (zbuf.Batch, error) {
	batch, err := q.Puller.Pull(done)
	if batch != nil {
		q.rctx.AddRecordsEmitted(len(batch.Records()))
	}
	return batch, err
}
