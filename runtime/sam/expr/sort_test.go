package expr_test

import (
	"container/heap"
	"testing"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/order"
	"github.com/brimdata/spl/pkg/field"
	"github.com/brimdata/spl/runtime/sam/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(t *testing.T, ss ...string) []*spl.Record {
	var out []*spl.Record
	for _, s := range ss {
		out = append(out, record(t, s))
	}
	return out
}

func sorted(t *testing.T, recs []*spl.Record, exprs ...expr.SortExpr) []string {
	t.Helper()
	c, err := expr.NewComparator(exprs...)
	require.NoError(t, err)
	c.SortStable(recs)
	var out []string
	for _, r := range recs {
		out = append(out, r.String())
	}
	return out
}

func TestComparators(t *testing.T) {
	input := func() []*spl.Record {
		return records(t, `{"v":"10"}`, `{"v":9}`, `{"v":"b"}`, `{"v":"A"}`, `{}`, `{"v":"a"}`)
	}
	v := field.Dotted("v")

	assert.Equal(t,
		[]string{`{"v":9}`, `{"v":"10"}`, `{"v":"A"}`, `{"v":"a"}`, `{"v":"b"}`, `{}`},
		sorted(t, input(), expr.NewSortExpr(v, "auto", order.Asc)))

	assert.Equal(t,
		[]string{`{"v":9}`, `{"v":"10"}`, `{"v":"A"}`, `{"v":"a"}`, `{"v":"b"}`, `{}`},
		sorted(t, input(), expr.NewSortExpr(v, "num", order.Asc)))

	// The locale-aware collation orders lower case before upper case.
	assert.Equal(t,
		[]string{`{"v":"10"}`, `{"v":9}`, `{"v":"a"}`, `{"v":"A"}`, `{"v":"b"}`, `{}`},
		sorted(t, input(), expr.NewSortExpr(v, "str", order.Asc)))

	assert.Equal(t,
		[]string{`{"v":"b"}`, `{"v":"a"}`, `{"v":"A"}`, `{"v":"10"}`, `{"v":9}`, `{}`},
		sorted(t, input(), expr.NewSortExpr(v, "auto", order.Desc)))
}

func TestMultiFieldSort(t *testing.T) {
	recs := records(t,
		`{"a":1,"b":"x","i":0}`,
		`{"a":2,"b":"y","i":1}`,
		`{"a":1,"b":"y","i":2}`,
		`{"a":2,"b":"y","i":3}`,
	)
	c, err := expr.NewComparator(
		expr.NewSortExpr(field.Dotted("b"), "", order.Desc),
		expr.NewSortExpr(field.Dotted("a"), "num", order.Asc),
	)
	require.NoError(t, err)
	c.SortStable(recs)
	var got []string
	for _, r := range recs {
		v, _ := r.Get("i")
		got = append(got, v.String())
	}
	assert.Equal(t, []string{"2", "1", "3", "0"}, got)
}

func TestComparatorErrors(t *testing.T) {
	_, err := expr.NewComparator(expr.NewSortExpr(field.Dotted("x"), "ip", order.Asc))
	assert.ErrorIs(t, err, expr.ErrIPComparator)
	_, err = expr.NewComparator(expr.NewSortExpr(field.Dotted("x"), "nope", order.Asc))
	assert.Error(t, err)
}

func TestRecordHeapBreaksTiesByArrival(t *testing.T) {
	c, err := expr.NewComparator(expr.NewSortExpr(field.Dotted("k"), "", order.Asc))
	require.NoError(t, err)
	h := expr.NewRecordHeap(c.Compare, true)
	for _, r := range records(t, `{"k":1,"i":0}`, `{"k":1,"i":1}`, `{"k":0,"i":2}`) {
		heap.Push(h, r)
	}
	// The root of the reversed heap is the worst record: the later of the
	// two equal keys.
	assert.Equal(t, `{"k":1,"i":1}`, h.Root().String())
	assert.False(t, h.Beats(record(t, `{"k":1}`)))
	assert.True(t, h.Beats(record(t, `{"k":0}`)))
	var order []string
	for h.Len() > 0 {
		order = append(order, heap.Pop(h).(*spl.Record).String())
	}
	assert.Equal(t, []string{`{"k":1,"i":1}`, `{"k":1,"i":0}`, `{"k":0,"i":2}`}, order)
}
