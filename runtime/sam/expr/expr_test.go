package expr_test

import (
	"testing"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/pkg/field"
	"github.com/brimdata/spl/runtime/sam/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, s string) *spl.Record {
	t.Helper()
	rec, err := spl.ParseRecordJSON([]byte(s))
	require.NoError(t, err)
	return rec
}

func lit(v spl.Value) expr.Evaluator {
	return expr.NewLiteral(v)
}

func dot(path string) expr.Evaluator {
	return expr.NewDottedExpr(field.Dotted(path))
}

func TestArithmetic(t *testing.T) {
	big := spl.NewString("9223372036854775807")
	tests := []struct {
		lhs, rhs spl.Value
		op       string
		expected string
	}{
		{spl.NewInt(2), spl.NewInt(3), "+", "5"},
		{spl.NewInt(2), spl.NewFloat(0.5), "+", "2.5"},
		{spl.NewInt(7), spl.NewInt(2), "/", "3"},
		{spl.NewFloat(7), spl.NewInt(2), "/", "3.5"},
		{spl.NewInt(7), spl.NewInt(2), "%", "1"},
		{spl.NewInt(-3), spl.NewInt(4), "*", "-12"},
		{spl.NewString("a"), spl.NewInt(1), "+", `"a1"`},
		{spl.NewInt(1), spl.NewString("a"), "+", `"1a"`},
		{spl.NewInt(1), spl.NewInt(2), ".", `"12"`},
		{spl.NewString("3"), spl.NewInt(2), "*", "6"},
		{spl.Null, spl.NewInt(2), "-", "null"},
		{spl.Missing, spl.NewInt(2), "*", "null"},
		{big, spl.NewInt(10), "*", "92233720368547758070"},
	}
	for _, tc := range tests {
		e, err := expr.NewArithmetic(lit(tc.lhs), lit(tc.rhs), tc.op)
		require.NoError(t, err)
		val, err := e.Eval(spl.NewRecord())
		require.NoError(t, err, "%s %s %s", tc.lhs, tc.op, tc.rhs)
		assert.Equal(t, tc.expected, val.String(), "%s %s %s", tc.lhs, tc.op, tc.rhs)
	}
}

func TestArithmeticTypeErrors(t *testing.T) {
	tests := []struct {
		lhs, rhs spl.Value
		op       string
		msg      string
	}{
		{spl.NewInt(1), spl.NewInt(0), "/", "integer divide by zero"},
		{spl.NewInt(1), spl.NewInt(0), "%", "integer divide by zero"},
		{spl.NewString("x"), spl.NewInt(2), "%", "not a number"},
		{spl.NewBool(true), spl.NewInt(2), "-", "not a number"},
	}
	for _, tc := range tests {
		e, err := expr.NewArithmetic(lit(tc.lhs), lit(tc.rhs), tc.op)
		require.NoError(t, err)
		_, err = e.Eval(spl.NewRecord())
		var rte *expr.RuntimeTypeError
		require.ErrorAs(t, err, &rte)
		assert.Contains(t, rte.Error(), tc.msg)
	}
}

func TestFloatDivideByZero(t *testing.T) {
	e, err := expr.NewArithmetic(lit(spl.NewFloat(1)), lit(spl.NewInt(0)), "/")
	require.NoError(t, err)
	val, err := e.Eval(spl.NewRecord())
	require.NoError(t, err)
	assert.Equal(t, "Infinity", val.AsString())
}

func TestEquality(t *testing.T) {
	rec := record(t, `{"country":"US","n":1,"f":1.0}`)
	tests := []struct {
		lhs      expr.Evaluator
		rhs      expr.Evaluator
		op       string
		expected bool
	}{
		{dot("country"), lit(spl.NewString("us")), "=", true},
		{dot("country"), lit(spl.NewString("us")), "==", true},
		{dot("country"), lit(spl.NewString("us")), "!=", false},
		{dot("country"), lit(spl.NewString("AUS")), "!=", true},
		{dot("n"), dot("f"), "=", true},
		{dot("n"), lit(spl.NewString("1")), "=", false},
		{dot("nope"), lit(spl.Null), "=", true},
	}
	for _, tc := range tests {
		e, err := expr.NewCompareEquality(tc.lhs, tc.rhs, tc.op)
		require.NoError(t, err)
		ok, err := expr.EvalBool(e, rec)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, ok)
	}
}

func TestRelative(t *testing.T) {
	rec := record(t, `{"a":2,"b":10,"s":"2","t":"10","arr":[1]}`)
	tests := []struct {
		lhs, rhs string
		op       string
		expected bool
	}{
		{"a", "b", "<", true},
		{"s", "t", "<", false},
		{"a", "t", "<", true},
		{"b", "b", ">=", true},
		{"nope", "b", "<", false},
		{"nope", "b", ">=", false},
	}
	for _, tc := range tests {
		e, err := expr.NewCompareRelative(dot(tc.lhs), dot(tc.rhs), tc.op)
		require.NoError(t, err)
		ok, err := expr.EvalBool(e, rec)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, ok, "%s %s %s", tc.lhs, tc.op, tc.rhs)
	}
	e, err := expr.NewCompareRelative(dot("arr"), dot("a"), "<")
	require.NoError(t, err)
	_, err = e.Eval(rec)
	var rte *expr.RuntimeTypeError
	assert.ErrorAs(t, err, &rte)
}

func TestLogic(t *testing.T) {
	failing, err := expr.NewArithmetic(lit(spl.NewInt(1)), lit(spl.NewInt(0)), "/")
	require.NoError(t, err)
	rec := spl.NewRecord()
	// The right side is not evaluated when the left decides the result.
	ok, err := expr.EvalBool(expr.NewLogicalAnd(lit(spl.False), failing), rec)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = expr.EvalBool(expr.NewLogicalOr(lit(spl.NewString("x")), failing), rec)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = expr.EvalBool(expr.NewLogicalNot(lit(spl.NewInt(0))), rec)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = expr.EvalBool(expr.NewLogicalAnd(lit(spl.True), failing), rec)
	assert.Error(t, err)
}

func TestConditionals(t *testing.T) {
	failing, err := expr.NewArithmetic(lit(spl.NewInt(1)), lit(spl.NewInt(0)), "/")
	require.NoError(t, err)
	rec := record(t, `{"a":5}`)
	gt := func(n int64) expr.Evaluator {
		e, err := expr.NewCompareRelative(dot("a"), lit(spl.NewInt(n)), ">")
		require.NoError(t, err)
		return e
	}
	c := expr.NewCase(
		[]expr.Evaluator{gt(10), gt(1), failing},
		[]expr.Evaluator{lit(spl.NewString("big")), lit(spl.NewString("small")), failing},
	)
	val, err := c.Eval(rec)
	require.NoError(t, err)
	assert.Equal(t, `"small"`, val.String())

	none := expr.NewCase([]expr.Evaluator{gt(10)}, []expr.Evaluator{lit(spl.True)})
	val, err = none.Eval(rec)
	require.NoError(t, err)
	assert.True(t, val.IsMissing())

	val, err = expr.NewConditional(gt(1), lit(spl.NewInt(1)), failing).Eval(rec)
	require.NoError(t, err)
	assert.Equal(t, "1", val.String())

	val, err = expr.NewCoalesce([]expr.Evaluator{dot("x"), lit(spl.Null), dot("a")}).Eval(rec)
	require.NoError(t, err)
	assert.Equal(t, "5", val.String())
	val, err = expr.NewCoalesce([]expr.Evaluator{dot("x")}).Eval(rec)
	require.NoError(t, err)
	assert.True(t, val.IsNull())
}

func TestDottedPath(t *testing.T) {
	rec := record(t, `{"a":{"b":{"c":1}},"x":2}`)
	val, err := dot("a.b.c").Eval(rec)
	require.NoError(t, err)
	assert.Equal(t, "1", val.String())
	val, err = dot("a.nope.c").Eval(rec)
	require.NoError(t, err)
	assert.True(t, val.IsMissing())
	val, err = dot("x.y").Eval(rec)
	require.NoError(t, err)
	assert.True(t, val.IsMissing())
}

func TestPutter(t *testing.T) {
	rec := record(t, `{"a":1}`)
	sum, err := expr.NewArithmetic(dot("a"), lit(spl.NewInt(1)), "+")
	require.NoError(t, err)
	double, err := expr.NewArithmetic(dot("y"), lit(spl.NewInt(2)), "*")
	require.NoError(t, err)
	p := expr.NewPutter([]expr.Assignment{
		{LHS: field.Dotted("y"), RHS: sum},
		{LHS: field.Dotted("z"), RHS: double},
		{LHS: field.Dotted("n.m.o"), RHS: lit(spl.NewString("deep"))},
	})
	out, err := p.Eval(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"y":2,"z":4,"n":{"m":{"o":"deep"}}}`, out.String())
	assert.Equal(t, `{"a":1}`, rec.String(), "input is not modified")
}

func TestCutterAndDropper(t *testing.T) {
	rec := record(t, `{"a":1,"b":{"c":2,"d":3},"e":4}`)
	cut := expr.NewCutter(field.DottedList("e,b.c,nope"))
	assert.Equal(t, `{"e":4,"b":{"c":2}}`, cut.Cut(rec).String())
	drop := expr.NewDropper(field.DottedList("a,b.d,nope"))
	assert.Equal(t, `{"b":{"c":2},"e":4}`, drop.Drop(rec).String())
	assert.Equal(t, `{"a":1,"b":{"c":2,"d":3},"e":4}`, rec.String())
}

func TestSearchTerm(t *testing.T) {
	us, err := expr.NewSearchTerm("US")
	require.NoError(t, err)
	tests := []struct {
		rec      string
		expected bool
	}{
		{`{"country":"AUS"}`, false},
		{`{"country":"US"}`, true},
		{`{"country":"us"}`, true},
		{`{"where":"made in the US."}`, true},
		{`{"nested":{"list":["x","us"]}}`, true},
		{`{"country":"USA"}`, false},
	}
	for _, tc := range tests {
		ok, err := expr.EvalBool(us, record(t, tc.rec))
		require.NoError(t, err)
		assert.Equal(t, tc.expected, ok, tc.rec)
	}

	num, err := expr.NewSearchTerm("404")
	require.NoError(t, err)
	ok, err := expr.EvalBool(num, record(t, `{"status":404}`))
	require.NoError(t, err)
	assert.True(t, ok)

	wild, err := expr.NewSearchTerm("err*")
	require.NoError(t, err)
	ok, err = expr.EvalBool(wild, record(t, `{"msg":"Errors happened"}`))
	require.NoError(t, err)
	assert.True(t, ok)

	ip, err := expr.NewSearchTerm("10.0.0.1")
	require.NoError(t, err)
	ok, err = expr.EvalBool(ip, record(t, `{"src":"10.0.0.1"}`))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = expr.EvalBool(ip, record(t, `{"src":"10.0.0.10"}`))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSearchCompare(t *testing.T) {
	tests := []struct {
		path     string
		op       string
		literal  spl.Value
		rec      string
		expected bool
	}{
		{"host", "=", spl.NewString("web*"), `{"host":"WEB01"}`, true},
		{"host", "=", spl.NewString("web*"), `{"host":"db01"}`, false},
		{"host", "!=", spl.NewString("web*"), `{"host":"db01"}`, true},
		{"status", ">=", spl.NewInt(400), `{"status":"404"}`, true},
		{"status", ">=", spl.NewInt(400), `{"status":200}`, false},
		{"status", "=", spl.NewInt(404), `{"status":404.0}`, true},
		{"status", "=", spl.NewInt(404), `{}`, false},
		{"status", "!=", spl.NewInt(404), `{}`, false},
		{"name", "<", spl.NewString("m"), `{"name":"bob"}`, true},
		{"a.b", "=", spl.NewString("X"), `{"a":{"b":"x"}}`, true},
	}
	for _, tc := range tests {
		s, err := expr.NewSearchCompare(field.Dotted(tc.path), tc.op, tc.literal)
		require.NoError(t, err)
		ok, err := expr.EvalBool(s, record(t, tc.rec))
		require.NoError(t, err)
		assert.Equal(t, tc.expected, ok, "%s%s%s on %s", tc.path, tc.op, tc.literal, tc.rec)
	}
}
