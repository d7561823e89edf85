package agg

import (
	"math"
	"slices"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/runtime/sam/expr/coerce"
)

// Percentile computes the p-th percentile of the numbers consumed.  Values
// are retained exactly and the nearest-rank percentile is returned until
// more than threshold values have been seen, at which point the values move
// into a t-digest and the result becomes an estimate.  A negative threshold
// never switches.
type Percentile struct {
	p           float64
	threshold   int
	compression float64

	vals   []spl.Value
	sorted bool
	digest *TDigest
}

var _ Function = (*Percentile)(nil)

func NewPercentile(p float64, threshold int, compression float64) *Percentile {
	return &Percentile{
		p:           p,
		threshold:   threshold,
		compression: compression,
	}
}

func (p *Percentile) Consume(val spl.Value) {
	num, ok := coerce.ToNumber(val)
	if !ok {
		return
	}
	if p.digest != nil {
		p.digest.Add(coerce.ToNumeric[float64](num), 1)
		return
	}
	p.vals = append(p.vals, num)
	p.sorted = false
	if p.threshold >= 0 && len(p.vals) > p.threshold {
		p.digest = NewTDigest(p.compression)
		for _, v := range p.vals {
			p.digest.Add(coerce.ToNumeric[float64](v), 1)
		}
		p.vals = nil
	}
}

func (p *Percentile) Result() spl.Value {
	if p.digest != nil {
		return spl.NewFloat(p.digest.Quantile(p.p / 100))
	}
	if len(p.vals) == 0 {
		return spl.Missing
	}
	if !p.sorted {
		slices.SortFunc(p.vals, coerce.CompareNumbers)
		p.sorted = true
	}
	return p.vals[NearestRank(len(p.vals), p.p)]
}

// NearestRank returns the zero-based index of the p-th percentile of n
// sorted values.
func NearestRank(n int, p float64) int {
	k := int(math.Ceil(float64(n)*p/100)) - 1
	return min(max(k, 0), n-1)
}
