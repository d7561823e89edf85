package aggregate_test

import (
	"strings"
	"testing"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/pkg/field"
	"github.com/brimdata/spl/runtime/sam/expr"
	"github.com/brimdata/spl/runtime/sam/expr/agg"
	"github.com/brimdata/spl/runtime/sam/op/aggregate"
	"github.com/brimdata/spl/zbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func input(t *testing.T, ss ...string) *zbuf.Array {
	t.Helper()
	var recs []*spl.Record
	for _, s := range ss {
		rec, err := spl.ParseRecordJSON([]byte(s))
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	return zbuf.NewArray(recs)
}

func drain(t *testing.T, p zbuf.Puller) string {
	t.Helper()
	var out []string
	for {
		b, err := p.Pull(false)
		require.NoError(t, err)
		if b == nil {
			return strings.Join(out, " ")
		}
		for _, rec := range b.Records() {
			out = append(out, rec.String())
		}
	}
}

func term(t *testing.T, name, op, path string) aggregate.Term {
	t.Helper()
	var e expr.Evaluator
	if path != "" {
		e = expr.NewDottedExpr(field.Dotted(path))
	}
	a, err := expr.NewAggregator(op, e, nil, agg.Config{})
	require.NoError(t, err)
	return aggregate.Term{Name: field.New(name), Agg: a}
}

func TestStatsGroupOrder(t *testing.T) {
	parent := input(t,
		`{"country":"US","events":5}`,
		`{"country":"CA","events":1}`,
		`{"country":"US"}`,
	)
	op := aggregate.New(parent, []aggregate.Term{term(t, "total", "count", "events")}, field.DottedList("country"))
	assert.Equal(t, `{"country":"US","total":2} {"country":"CA","total":1}`, drain(t, op))
}

func TestStatsNoGroups(t *testing.T) {
	terms := []aggregate.Term{
		term(t, "count", "count", ""),
		term(t, "avg(x)", "avg", "x"),
		term(t, "max(x)", "max", "x"),
	}
	op := aggregate.New(input(t, `{"x":1}`, `{"x":"5"}`, `{"y":2}`), terms, nil)
	assert.Equal(t, `{"count":3,"avg(x)":3.0,"max(x)":5}`, drain(t, op))

	// An empty input still has a count.
	op = aggregate.New(input(t), terms, nil)
	assert.Equal(t, `{"count":0}`, drain(t, op))
}

func TestStatsMultipleKeys(t *testing.T) {
	parent := input(t,
		`{"a":1,"b":{"c":"x"},"v":1}`,
		`{"a":1,"b":{"c":"y"},"v":2}`,
		`{"a":"1","b":{"c":"x"},"v":3}`,
		`{"a":1,"b":{"c":"x"},"v":4}`,
		`{"a":1,"v":5}`,
	)
	op := aggregate.New(parent, []aggregate.Term{term(t, "sum", "sum", "v")}, field.DottedList("a,b.c"))
	assert.Equal(t,
		`{"a":1,"b":{"c":"x"},"sum":5} {"a":1,"b":{"c":"y"},"sum":2} {"a":"1","b":{"c":"x"},"sum":3}`,
		drain(t, op))
}

func TestStatsRuntimeError(t *testing.T) {
	div, err := expr.NewArithmetic(expr.NewDottedExpr(field.Dotted("x")), expr.NewLiteral(spl.NewInt(0)), "/")
	require.NoError(t, err)
	a, err := expr.NewAggregator("sum", div, nil, agg.Config{})
	require.NoError(t, err)
	op := aggregate.New(input(t, `{"x":1}`), []aggregate.Term{{Name: field.New("s"), Agg: a}}, nil)
	_, err = op.Pull(false)
	var rte *expr.RuntimeTypeError
	assert.ErrorAs(t, err, &rte)
}
