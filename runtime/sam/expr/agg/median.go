package agg

import (
	"container/heap"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/runtime/sam/expr/coerce"
)

// Median maintains the running median of the numbers consumed in two
// heaps: lower holds the smaller half with its largest value at the root
// and upper holds the larger half with its smallest value at the root.
// upper always holds ceil(n/2) values so for an even count the result is
// the upper of the two middle values.
type Median struct {
	lower numberHeap
	upper numberHeap
}

var _ Function = (*Median)(nil)

func (m *Median) Consume(val spl.Value) {
	num, ok := coerce.ToNumber(val)
	if !ok {
		return
	}
	m.lower.max = true
	if m.upper.Len() > 0 && coerce.CompareNumbers(num, m.upper.vals[0]) < 0 {
		heap.Push(&m.lower, num)
	} else {
		heap.Push(&m.upper, num)
	}
	n := m.lower.Len() + m.upper.Len()
	want := (n + 1) / 2
	for m.upper.Len() > want {
		heap.Push(&m.lower, heap.Pop(&m.upper))
	}
	for m.upper.Len() < want {
		heap.Push(&m.upper, heap.Pop(&m.lower))
	}
}

func (m *Median) Result() spl.Value {
	if m.upper.Len() == 0 {
		return spl.Missing
	}
	return m.upper.vals[0]
}

type numberHeap struct {
	vals []spl.Value
	max  bool
}

func (h *numberHeap) Len() int { return len(h.vals) }

func (h *numberHeap) Less(i, j int) bool {
	v := coerce.CompareNumbers(h.vals[i], h.vals[j])
	if h.max {
		return v > 0
	}
	return v < 0
}

func (h *numberHeap) Swap(i, j int) { h.vals[i], h.vals[j] = h.vals[j], h.vals[i] }

func (h *numberHeap) Push(x any) { h.vals = append(h.vals, x.(spl.Value)) }

func (h *numberHeap) Pop() any {
	n := len(h.vals) - 1
	x := h.vals[n]
	h.vals = h.vals[:n]
	return x
}
