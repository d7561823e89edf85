package zbuf

import (
	"github.com/brimdata/spl"
	"github.com/brimdata/spl/sio"
)

// Array is a slice of records that implements the Batch, Puller, and
// sio.Reader interfaces.
type Array struct {
	records []*spl.Record
}

var _ Batch = (*Array)(nil)
var _ Puller = (*Array)(nil)
var _ sio.Reader = (*Array)(nil)
var _ sio.Writer = (*Array)(nil)

func NewArray(recs []*spl.Record) *Array {
	return &Array{records: recs}
}

func (a *Array) Records() []*spl.Record {
	return a.records
}

func (a *Array) Append(rec *spl.Record) {
	a.records = append(a.records, rec)
}

// Write appends a copy of rec.
func (a *Array) Write(rec *spl.Record) error {
	a.Append(rec.Copy())
	return nil
}

// Read removes the first element of the Array and returns it,
// or it returns nil if the Array is empty.
func (a *Array) Read() (*spl.Record, error) {
	var rec *spl.Record
	if len(a.records) > 0 {
		rec = a.records[0]
		a.records = a.records[1:]
	}
	return rec, nil
}

// Pull returns the remaining records as a single batch.
func (a *Array) Pull(done bool) (Batch, error) {
	if done || len(a.records) == 0 {
		a.records = nil
		return nil, nil
	}
	out := NewArray(a.records)
	a.records = nil
	return out, nil
}
