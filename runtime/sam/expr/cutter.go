package expr

import (
	"github.com/brimdata/spl"
	"github.com/brimdata/spl/pkg/field"
)

// Cutter retains the listed paths of a record in the order listed.
// Nested paths retain the leaf only, inside freshly created parents.
type Cutter struct {
	paths field.List
}

func NewCutter(paths field.List) *Cutter {
	return &Cutter{paths}
}

func (c *Cutter) Cut(rec *spl.Record) *spl.Record {
	out := spl.NewRecord()
	for _, path := range c.paths {
		if val := rec.Deref(path); !val.IsMissing() {
			out.Set(path, val.Copy())
		}
	}
	return out
}

// Dropper deletes the listed paths from a copy of a record.
type Dropper struct {
	paths field.List
}

func NewDropper(paths field.List) *Dropper {
	return &Dropper{paths}
}

func (d *Dropper) Drop(rec *spl.Record) *spl.Record {
	out := rec.Copy()
	for _, path := range d.paths {
		out.Delete(path)
	}
	return out
}
