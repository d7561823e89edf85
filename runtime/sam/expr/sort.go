package expr

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/order"
	"github.com/brimdata/spl/pkg/field"
	"github.com/brimdata/spl/runtime/sam/expr/coerce"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var ErrIPComparator = errors.New("the ip sort comparator is not implemented")

// SortExpr is one key of a sort.  Compare is one of "auto", "num", or
// "str".  An empty Compare is the same as "auto".
type SortExpr struct {
	Path    field.Path
	Compare string
	Order   order.Which
	Nulls   order.Nulls
}

func NewSortExpr(path field.Path, compare string, o order.Which) SortExpr {
	return SortExpr{Path: path, Compare: compare, Order: o}
}

type valueCompareFn func(a, b spl.Value) int

type Comparator struct {
	exprs    []SortExpr
	compares []valueCompareFn
}

// NewComparator returns a record comparator for exprs.  To compare records
// a and b, it iterates over the elements e of exprs, stopping when
// e(a)!=e(b).  A Comparator is not safe for concurrent use.
func NewComparator(exprs ...SortExpr) (*Comparator, error) {
	c := &Comparator{exprs: slices.Clone(exprs)}
	var collator *collate.Collator
	for _, e := range exprs {
		switch e.Compare {
		case "", "auto":
			c.compares = append(c.compares, compareAuto)
		case "num":
			c.compares = append(c.compares, compareNum)
		case "str":
			if collator == nil {
				collator = collate.New(language.Und)
			}
			c.compares = append(c.compares, func(a, b spl.Value) int {
				return collator.CompareString(a.AsString(), b.AsString())
			})
		case "ip":
			return nil, ErrIPComparator
		default:
			return nil, fmt.Errorf("unknown sort comparator: %s", e.Compare)
		}
	}
	return c, nil
}

// Compare returns an integer comparing two records according to the
// receiver's configuration.  The result will be 0 if a==b, -1 if a < b,
// and +1 if a > b.
func (c *Comparator) Compare(a, b *spl.Record) int {
	for k, e := range c.exprs {
		aval := a.Deref(e.Path)
		bval := b.Deref(e.Path)
		v, ok := e.Nulls.Compare(aval.IsNil(), bval.IsNil())
		if !ok {
			v = e.Order.Apply(c.compares[k](aval, bval))
		}
		if v != 0 {
			return v
		}
	}
	return 0
}

// SortStable sorts recs according to c, with equal records in their
// original order.
func (c *Comparator) SortStable(recs []*spl.Record) {
	slices.SortStableFunc(recs, c.Compare)
}

// compareAuto compares numerically when both values look like numbers
// and as text otherwise.
func compareAuto(a, b spl.Value) int {
	if an, ok := coerce.ToNumber(a); ok {
		if bn, ok := coerce.ToNumber(b); ok {
			return coerce.CompareNumbers(an, bn)
		}
	}
	return strings.Compare(a.AsString(), b.AsString())
}

// compareNum compares numbers exactly, integers with arbitrary precision.
// Values that are not numbers sort after numbers and among themselves as
// text.
func compareNum(a, b spl.Value) int {
	an, aok := coerce.ToNumber(a)
	bn, bok := coerce.ToNumber(b)
	switch {
	case aok && bok:
		return coerce.CompareNumbers(an, bn)
	case aok:
		return -1
	case bok:
		return 1
	}
	return strings.Compare(a.AsString(), b.AsString())
}

type sequenced struct {
	rec *spl.Record
	seq uint64
}

// RecordHeap is a heap of records (see container/heap) ordered by a
// comparator with ties broken by arrival order, so that the heap order is
// total and a bounded top-N selection is stable.
type RecordHeap struct {
	items   []sequenced
	seq     uint64
	compare func(a, b *spl.Record) int
	reverse bool
}

// NewRecordHeap returns a heap whose root is the least record under
// compare or, if reverse is true, the greatest.
func NewRecordHeap(compare func(a, b *spl.Record) int, reverse bool) *RecordHeap {
	return &RecordHeap{compare: compare, reverse: reverse}
}

func (r *RecordHeap) Len() int { return len(r.items) }

func (r *RecordHeap) Swap(i, j int) { r.items[i], r.items[j] = r.items[j], r.items[i] }

func (r *RecordHeap) Less(i, j int) bool {
	v := r.cmp(r.items[i], r.items[j])
	if r.reverse {
		return v > 0
	}
	return v < 0
}

func (r *RecordHeap) cmp(a, b sequenced) int {
	if v := r.compare(a.rec, b.rec); v != 0 {
		return v
	}
	switch {
	case a.seq < b.seq:
		return -1
	case a.seq > b.seq:
		return 1
	}
	return 0
}

// Push adds x as element Len(). Implements heap.Interface.
func (r *RecordHeap) Push(x any) {
	r.items = append(r.items, sequenced{x.(*spl.Record), r.seq})
	r.seq++
}

// Pop removes the last element. Implements heap.Interface.
func (r *RecordHeap) Pop() any {
	item := r.items[len(r.items)-1]
	r.items = r.items[:len(r.items)-1]
	return item.rec
}

// Root returns the record at the root of the heap.
func (r *RecordHeap) Root() *spl.Record {
	return r.items[0].rec
}

// Beats reports whether rec, if pushed now, would order before the root.
func (r *RecordHeap) Beats(rec *spl.Record) bool {
	// A new record arrives after every record in the heap so it loses ties.
	return r.compare(rec, r.items[0].rec) < 0
}
