package agg

import (
	"math"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/runtime/sam/expr/coerce"
)

// Variance computes the running variance or standard deviation with
// Welford's algorithm.  The sample variant of a single value is 0, not
// undefined.
type Variance struct {
	stdev      bool
	population bool

	n    uint64
	mean float64
	m2   float64
}

var _ Function = (*Variance)(nil)

func (v *Variance) Consume(val spl.Value) {
	x, ok := coerce.ToFloat(val)
	if !ok {
		return
	}
	v.n++
	delta := x - v.mean
	v.mean += delta / float64(v.n)
	v.m2 += delta * (x - v.mean)
}

func (v *Variance) Result() spl.Value {
	if v.n == 0 {
		return spl.Missing
	}
	var result float64
	switch {
	case v.population:
		result = v.m2 / float64(v.n)
	case v.n > 1:
		result = v.m2 / float64(v.n-1)
	}
	if v.stdev {
		result = math.Sqrt(result)
	}
	return spl.NewFloat(result)
}
