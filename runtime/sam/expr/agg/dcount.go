package agg

import (
	"github.com/axiomhq/hyperloglog"
	"github.com/brimdata/spl"
)

// DCount uses hyperloglog to approximate the count of unique values for
// a field.
type DCount struct {
	scratch []byte
	sketch  *hyperloglog.Sketch
}

var _ Function = (*DCount)(nil)

func NewDCount() *DCount {
	return &DCount{
		sketch: hyperloglog.New(),
	}
}

func (d *DCount) Consume(val spl.Value) {
	if val.IsNil() {
		return
	}
	// The JSON form keeps 1 and "1" apart.
	d.scratch = append(d.scratch[:0], val.String()...)
	d.sketch.Insert(d.scratch)
}

func (d *DCount) Result() spl.Value {
	return spl.NewInt(int64(d.sketch.Estimate()))
}
