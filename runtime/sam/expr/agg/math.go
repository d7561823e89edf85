package agg

import (
	"math/big"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/pkg/anymath"
	"github.com/brimdata/spl/runtime/sam/expr/coerce"
)

// Count counts every value consumed, including null values.
type Count int64

var _ Function = (*Count)(nil)

func (c *Count) Consume(spl.Value) {
	*c++
}

func (c Count) Result() spl.Value {
	return spl.NewInt(int64(c))
}

// mathReducer folds numbers with an anymath function.  Integer inputs are
// reduced exactly until a float is seen.  Values that are not numbers are
// skipped.
type mathReducer struct {
	function *anymath.Function
	state    spl.Value
}

var _ Function = (*mathReducer)(nil)

var (
	reduceSum = anymath.Add
	reduceMin = anymath.Min
	reduceMax = anymath.Max
)

func newMathReducer(f *anymath.Function) *mathReducer {
	return &mathReducer{function: f}
}

func (m *mathReducer) Consume(val spl.Value) {
	num, ok := coerce.ToNumber(val)
	if !ok {
		return
	}
	if m.state.IsMissing() {
		m.state = num
		return
	}
	m.state = apply(m.function, m.state, num)
}

func (m *mathReducer) Result() spl.Value {
	return m.state
}

func apply(fn *anymath.Function, a, b spl.Value) spl.Value {
	if kind, _ := coerce.Promote(a, b); kind == spl.KindFloat {
		return spl.NewFloat(fn.Float64(coerce.ToNumeric[float64](a), coerce.ToNumeric[float64](b)))
	}
	return spl.NewBigInt(fn.BigInt(new(big.Int), a.BigInt(), b.BigInt()))
}

type Avg struct {
	sum   float64
	count uint64
}

var _ Function = (*Avg)(nil)

func (a *Avg) Consume(val spl.Value) {
	if f, ok := coerce.ToFloat(val); ok {
		a.sum += f
		a.count++
	}
}

func (a *Avg) Result() spl.Value {
	if a.count > 0 {
		return spl.NewFloat(a.sum / float64(a.count))
	}
	return spl.Missing
}

// Range is the difference between the largest and smallest numbers seen.
type Range struct {
	min mathReducer
	max mathReducer
}

var _ Function = (*Range)(nil)

func (r *Range) Consume(val spl.Value) {
	if r.min.function == nil {
		r.min.function, r.max.function = reduceMin, reduceMax
	}
	r.min.Consume(val)
	r.max.Consume(val)
}

func (r *Range) Result() spl.Value {
	if r.min.state.IsMissing() {
		return spl.Missing
	}
	return apply(anymath.Sub, r.max.state, r.min.state)
}

type First struct {
	val spl.Value
}

func (f *First) Consume(val spl.Value) {
	if f.val.IsMissing() {
		f.val = val.Copy()
	}
}

func (f *First) Result() spl.Value {
	return f.val
}

type Last struct {
	val spl.Value
}

func (l *Last) Consume(val spl.Value) {
	l.val = val.Copy()
}

func (l *Last) Result() spl.Value {
	return l.val
}
