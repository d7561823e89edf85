// Package zbuf provides the batches and pullers that carry records
// between the operators of a running query.
package zbuf

import (
	"github.com/brimdata/spl"
	"github.com/brimdata/spl/sio"
)

// Batch is a bundle of records passed between operators.  The receiver
// of a batch owns its records and may modify them.
type Batch interface {
	Records() []*spl.Record
}

// Puller is the interface implemented by every operator.  Pull returns
// the next batch or a nil batch at end of stream.  When done is true, the
// caller is telling the puller that it wants no more data for the current
// stream and the puller should release its resources and return end of
// stream.
type Puller interface {
	Pull(done bool) (Batch, error)
}

// ReadBatch reads up to n records from r and returns them as a Batch.  At
// end of stream, it returns a nil Batch and nil error.
func ReadBatch(r sio.Reader, n int) (Batch, error) {
	recs := make([]*spl.Record, 0, n)
	for len(recs) < n {
		rec, err := r.Read()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			break
		}
		recs = append(recs, rec)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return NewArray(recs), nil
}

// NewPuller returns a Puller that reads batches of up to n records from r.
// Pull(true) closes r if it is an io.Closer.
func NewPuller(r sio.Reader, n int) Puller {
	return &readerPuller{reader: r, n: max(n, 1)}
}

type readerPuller struct {
	reader sio.Reader
	n      int
	eos    bool
}

func (r *readerPuller) Pull(done bool) (Batch, error) {
	if r.eos {
		return nil, nil
	}
	if done {
		r.eos = true
		return nil, sio.CloseReaders([]sio.Reader{r.reader})
	}
	batch, err := ReadBatch(r.reader, r.n)
	if batch == nil || err != nil {
		r.eos = true
	}
	return batch, err
}

// PullerReader returns a sio.Reader over the records of p.
func PullerReader(p Puller) sio.Reader {
	return &pullerReader{puller: p}
}

type pullerReader struct {
	puller Puller
	recs   []*spl.Record
}

func (r *pullerReader) Read() (*spl.Record, error) {
	for len(r.recs) == 0 {
		batch, err := r.puller.Pull(false)
		if batch == nil || err != nil {
			return nil, err
		}
		r.recs = batch.Records()
	}
	rec := r.recs[0]
	r.recs = r.recs[1:]
	return rec, nil
}

// CopyPuller writes every record pulled from src to dst.
func CopyPuller(dst sio.Writer, src Puller) error {
	for {
		batch, err := src.Pull(false)
		if batch == nil || err != nil {
			return err
		}
		for _, rec := range batch.Records() {
			if err := dst.Write(rec); err != nil {
				src.Pull(true)
				return err
			}
		}
	}
}
