package agg

import "github.com/brimdata/spl"

// Distinct counts the distinct non-null values exactly.
type Distinct struct {
	seen map[string]struct{}
}

var _ Function = (*Distinct)(nil)

func NewDistinct() *Distinct {
	return &Distinct{seen: make(map[string]struct{})}
}

func (d *Distinct) Consume(val spl.Value) {
	if val.IsNil() {
		return
	}
	d.seen[val.String()] = struct{}{}
}

func (d *Distinct) Result() spl.Value {
	return spl.NewInt(int64(len(d.seen)))
}
