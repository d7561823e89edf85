// Package makeresults implements the makeresults command, which generates
// records rather than reading them.
package makeresults

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/brimdata/spl"
	"github.com/brimdata/spl/runtime"
	"github.com/brimdata/spl/sio"
	"github.com/brimdata/spl/sio/csvio"
	"github.com/brimdata/spl/sio/jsonio"
	"github.com/brimdata/spl/zbuf"
)

const (
	RawField  = "_raw"
	TimeField = "_time"

	batchSize = 1000
)

// ParseData reads the records of a data argument in the given format,
// "json" (the default) or "csv".  Each record is stamped with a _raw field
// holding its JSON form as read.  A _time field given as text is parsed
// as a date and replaced by seconds since the Unix epoch.
func ParseData(format, data string) ([]*spl.Record, error) {
	var r sio.Reader
	switch format {
	case "", "json":
		r = jsonio.NewReader(strings.NewReader(data))
	case "csv":
		r = csvio.NewReader(strings.NewReader(data), csvio.ReaderOpts{})
	default:
		return nil, fmt.Errorf("makeresults: unknown format %q", format)
	}
	var recs []*spl.Record
	for {
		rec, err := r.Read()
		if err != nil {
			return nil, fmt.Errorf("makeresults: %w", err)
		}
		if rec == nil {
			return recs, nil
		}
		if _, ok := rec.Get(RawField); !ok {
			rec.Put(RawField, spl.NewString(rec.String()))
		}
		if err := parseTime(rec); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
}

func parseTime(rec *spl.Record) error {
	val, ok := rec.Get(TimeField)
	if !ok || val.Kind() != spl.KindString {
		return nil
	}
	t, err := dateparse.ParseAny(val.Str())
	if err != nil {
		return fmt.Errorf("makeresults: %s: %w", TimeField, err)
	}
	rec.Put(TimeField, epoch(t))
	return nil
}

func epoch(t time.Time) spl.Value {
	if t.Nanosecond() == 0 {
		return spl.NewInt(t.Unix())
	}
	return spl.NewFloat(math.Round(float64(t.UnixNano())/1e6) / 1e3)
}

// Op passes its parent's records through and then appends the records
// given to New or, when there are none, count records holding only the
// current time.  Records without a _time field get the time the first
// record was generated.  Generated records count as records read.
type Op struct {
	rctx    *runtime.Context
	parent  zbuf.Puller
	count   int
	records []*spl.Record

	now  spl.Value
	sent int
}

// New returns an Op appending to parent.  A nil parent is an empty input.
func New(rctx *runtime.Context, parent zbuf.Puller, count int, records []*spl.Record) *Op {
	if records != nil {
		count = len(records)
	}
	return &Op{
		rctx:    rctx,
		parent:  parent,
		count:   count,
		records: records,
	}
}

func (o *Op) Pull(done bool) (zbuf.Batch, error) {
	if o.parent != nil {
		batch, err := o.parent.Pull(done)
		if err != nil {
			return nil, err
		}
		if batch != nil {
			return batch, nil
		}
		o.parent = nil
	}
	if done || o.sent >= o.count {
		o.sent = o.count
		return nil, nil
	}
	if o.now.IsMissing() {
		o.now = epoch(o.rctx.Clock.Now().Truncate(time.Second))
	}
	n := min(o.count-o.sent, batchSize)
	out := make([]*spl.Record, 0, n)
	for range n {
		var rec *spl.Record
		if o.records != nil {
			rec = o.records[o.sent].Copy()
		} else {
			rec = spl.NewRecord()
		}
		if _, ok := rec.Get(TimeField); !ok {
			rec.Put(TimeField, o.now)
		}
		out = append(out, rec)
		o.sent++
	}
	o.rctx.AddRecordsRead(n)
	return zbuf.NewArray(out), nil
}
