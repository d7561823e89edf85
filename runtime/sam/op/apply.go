package op

import (
	"github.com/brimdata/spl"
	"github.com/brimdata/spl/zbuf"
)

// MapFunc transforms one record.  A nil record with a nil error drops the
// record from the output.
type MapFunc func(*spl.Record) (*spl.Record, error)

type applier struct {
	parent zbuf.Puller
	fn     MapFunc
}

// NewApplier returns a Puller that applies fn to every record pulled from
// parent.  An error from fn ends the run.
func NewApplier(parent zbuf.Puller, fn MapFunc) zbuf.Puller {
	return &applier{
		parent: parent,
		fn:     fn,
	}
}

func (a *applier) Pull(done bool) (zbuf.Batch, error) {
	for {
		batch, err := a.parent.Pull(done)
		if batch == nil || err != nil {
			return nil, err
		}
		recs := batch.Records()
		out := make([]*spl.Record, 0, len(recs))
		for _, rec := range recs {
			rec, err := a.fn(rec)
			if err != nil {
				a.parent.Pull(true)
				return nil, err
			}
			if rec != nil {
				out = append(out, rec)
			}
		}
		if len(out) > 0 {
			return zbuf.NewArray(out), nil
		}
	}
}
