package compiler_test

import (
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/compiler"
	"github.com/brimdata/spl/compiler/parser"
	"github.com/brimdata/spl/runtime"
	"github.com/brimdata/spl/runtime/sam/expr"
	"github.com/brimdata/spl/sio"
	"github.com/brimdata/spl/sio/jsonio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, conf compiler.Config, query, input string) (*runtime.Context, []*spl.Record, error) {
	t.Helper()
	c, err := compiler.New(conf, nil)
	require.NoError(t, err)
	rctx := runtime.NewContext(context.Background())
	var readers []sio.Reader
	if input != "" {
		readers = append(readers, jsonio.NewReader(strings.NewReader(input)))
	}
	q, err := c.Compile(rctx, query, readers)
	if err != nil {
		return rctx, nil, err
	}
	defer q.Close()
	var out []*spl.Record
	for rec, err := range q.All() {
		if err != nil {
			return rctx, out, err
		}
		out = append(out, rec)
	}
	return rctx, out, nil
}

func run(t *testing.T, query, input string) []string {
	t.Helper()
	_, recs, err := compile(t, compiler.Config{}, query, input)
	require.NoError(t, err, "query: %s", query)
	return strs(recs)
}

func strs(recs []*spl.Record) []string {
	var out []string
	for _, rec := range recs {
		out = append(out, rec.String())
	}
	return out
}

func TestSearchFullText(t *testing.T) {
	out := run(t, "search US", `{"country":"AUS"} {"country":"US"}`)
	assert.Equal(t, []string{`{"country":"US"}`}, out)

	out = run(t, "us", `{"country":"AUS"} {"country":"US"}`)
	assert.Equal(t, []string{`{"country":"US"}`}, out)
}

func TestStatsGroupOrder(t *testing.T) {
	input := `{"country":"US","events":3} {"country":"CA","events":1} {"country":"US","events":5}`
	out := run(t, "| stats count(events) as total by country", input)
	assert.Equal(t, []string{`{"country":"US","total":2}`, `{"country":"CA","total":1}`}, out)
}

func TestStatsOutputNames(t *testing.T) {
	input := `{"a":{"b":1}} {"a":{"b":3}}`
	out := run(t, "| stats count as n.total max(a.b)", input)
	assert.Equal(t, []string{`{"n":{"total":2},"max(a.b)":3}`}, out)

	out = run(t, "| streamstats sum(a.b) as s.b", input)
	assert.Equal(t, []string{`{"a":{"b":1},"s":{"b":1}}`, `{"a":{"b":3},"s":{"b":4}}`}, out)
}

func TestLeadingCommandWithoutPipe(t *testing.T) {
	input := `{"country":"US","events":3} {"country":"CA","events":1} {"country":"US","events":5}`
	out := run(t, "stats count(events) as total by country", input)
	assert.Equal(t, []string{`{"country":"US","total":2}`, `{"country":"CA","total":1}`}, out)

	_, recs, err := compile(t, compiler.Config{}, "streamstats stdev(value)", `{"value":1} {"value":3} {"value":5}`)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for k, expected := range []float64{0, math.Sqrt2, 2} {
		v, ok := recs[k].Get("stdev(value)")
		require.True(t, ok)
		f, ok := v.AsFloat()
		require.True(t, ok)
		assert.InDelta(t, expected, f, 1e-12)
	}

	// A quoted keyword is a search term.
	out = run(t, `"stats" count`, `{"msg":"stats count"} {"msg":"stats"}`)
	assert.Equal(t, []string{`{"msg":"stats count"}`}, out)
}

func TestSortCount(t *testing.T) {
	input := `{"value":5} {"value":3} {"value":9} {"value":1} {"value":4} {"value":2}`
	out := run(t, "| sort 3 value", input)
	assert.Equal(t, []string{`{"value":1}`, `{"value":2}`, `{"value":3}`}, out)

	out = run(t, "| sort limit=2 -value", input)
	assert.Equal(t, []string{`{"value":9}`, `{"value":5}`}, out)

	out = run(t, "| sort 0 value", input)
	assert.Len(t, out, 6)
}

func TestRexSed(t *testing.T) {
	out := run(t, `| rex field=name mode=sed 's/ay/ames/'`, `{"name":"jay"}`)
	assert.Equal(t, []string{`{"name":"james"}`}, out)
}

func TestRexExtract(t *testing.T) {
	out := run(t, `| rex field=email "(?<user>\w+)@(?<domain>\S+)"`, `{"email":"ann@example.com"}`)
	assert.Equal(t, []string{`{"email":"ann@example.com","user":"ann","domain":"example.com"}`}, out)
}

func TestStreamStatsStdev(t *testing.T) {
	_, recs, err := compile(t, compiler.Config{}, "| streamstats stdev(value)", `{"value":1} {"value":3} {"value":5}`)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	expected := []float64{0, math.Sqrt2, 2}
	for k, rec := range recs {
		v, ok := rec.Get("stdev(value)")
		require.True(t, ok)
		f, ok := v.AsFloat()
		require.True(t, ok)
		assert.InDelta(t, expected[k], f, 1e-12)
	}
}

func TestHeadWhile(t *testing.T) {
	input := `{"value":1} {"value":2} {"value":0} {"value":3}`
	assert.Equal(t, []string{`{"value":1}`, `{"value":2}`}, run(t, "| head (value)", input))
	assert.Equal(t, []string{`{"value":1}`, `{"value":2}`, `{"value":0}`}, run(t, "| head (value) keeplast=true", input))

	input = `{"value":1} {"value":null} {"value":0}`
	assert.Equal(t, []string{`{"value":1}`}, run(t, "| head (value)", input))
	assert.Equal(t, []string{`{"value":1}`, `{"value":null}`}, run(t, "| head (value) null=true", input))
}

func TestHeadCount(t *testing.T) {
	input := strings.Repeat(`{"n":1} `, 20)
	assert.Len(t, run(t, "| head", input), 10)
	assert.Len(t, run(t, "| head 3", input), 3)
	assert.Len(t, run(t, "| head limit=30", input), 20)
}

func TestEvalAndFields(t *testing.T) {
	out := run(t, `| eval total = a + b, label = "n" . total, big = 9223372036854775807 + 1 | fields label, big`, `{"a":1,"b":2.5}`)
	assert.Equal(t, []string{`{"label":"n3.5","big":9223372036854775808}`}, out)

	out = run(t, `| eval x.y = if(a > 1, "big", "small") | fields - a`, `{"a":2,"c":1}`)
	assert.Equal(t, []string{`{"c":1,"x":{"y":"big"}}`}, out)

	out = run(t, `| where case(a = "X", true(), a = "y", false()) and not isnull(a)`, `{"a":"x"} {"a":"y"} {"a":"z"}`)
	assert.Equal(t, []string{`{"a":"x"}`}, out)
}

func TestMakeResults(t *testing.T) {
	rctx, recs, err := compile(t, compiler.Config{}, `| makeresults format=json data="[{\"a\":1},{\"a\":2}]" | stats sum(a)`, "")
	require.NoError(t, err)
	assert.Equal(t, []string{`{"sum(a)":3}`}, strs(recs))
	assert.EqualValues(t, 2, rctx.RecordsRead())

	rctx, recs, err = compile(t, compiler.Config{}, "| makeresults count=3 | stats count", "")
	require.NoError(t, err)
	assert.Equal(t, []string{`{"count":3}`}, strs(recs))
	assert.EqualValues(t, 3, rctx.RecordsRead())
}

func TestRecordsReadCountsSource(t *testing.T) {
	rctx, recs, err := compile(t, compiler.Config{}, "x=1 | stats count", `{"x":1} {"x":2} {"x":3}`)
	require.NoError(t, err)
	assert.Equal(t, []string{`{"count":1}`}, strs(recs))
	assert.EqualValues(t, 3, rctx.RecordsRead())
	assert.EqualValues(t, 1, rctx.Progress().RecordsEmitted)
}

func TestParallelEval(t *testing.T) {
	var b strings.Builder
	for range 1000 {
		b.WriteString(`{"n":1}`)
	}
	conf := compiler.Config{Parallelism: 4}
	rctx, recs, err := compile(t, conf, "| eval m = n * 2 | stats count, sum(m)", b.String())
	require.NoError(t, err)
	assert.Equal(t, []string{`{"count":1000,"sum(m)":2000}`}, strs(recs))
	assert.EqualValues(t, 1000, rctx.RecordsRead())

	_, recs, err = compile(t, conf, "| eval m = n", `{"n":1} {"n":2} {"n":3} {"n":4} {"n":5}`)
	require.NoError(t, err)
	out := strs(recs)
	slices.Sort(out)
	assert.Equal(t, []string{
		`{"n":1,"m":1}`, `{"n":2,"m":2}`, `{"n":3,"m":3}`, `{"n":4,"m":4}`, `{"n":5,"m":5}`,
	}, out)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		query string
		msg   string
	}{
		{"| stats cnt(x)", `unknown aggregation "cnt" (did you mean "count"?)`},
		{"| stats avg", "field argument is required"},
		{"| stats avg()", "field argument is required"},
		{"| eval y = lenn(x)", `unknown function "lenn" (did you mean "len"?)`},
		{"| eval y = round()", "too few arguments"},
		{"| eval y = case(a)", "condition and value pairs"},
		{"| sort ip(addr)", "ip sort comparator"},
		{"| rex mode=sed 's/a'", "rex:"},
		{"| rex '(?<x>'", "rex:"},
		{"| makeresults format=json", "format and data"},
		{`| makeresults format=json data="[1]"`, "not an object"},
	}
	for _, tc := range tests {
		_, recs, err := compile(t, compiler.Config{}, tc.query, `{"x":1}`)
		var cerr *compiler.CompileError
		require.True(t, errors.As(err, &cerr), "query %q: %v", tc.query, err)
		assert.Contains(t, cerr.Msg, tc.msg, "query %q", tc.query)
		assert.Nil(t, recs)
	}
}

func TestSyntaxErrorBeforeCompile(t *testing.T) {
	_, _, err := compile(t, compiler.Config{}, "| head limit=5 3", "")
	var serr *parser.SyntaxError
	assert.True(t, errors.As(err, &serr))
}

func TestRuntimeTypeErrorIsTerminal(t *testing.T) {
	_, recs, err := compile(t, compiler.Config{}, `| eval y = x % "b"`, `{"x":1} {"x":2}`)
	var terr *expr.RuntimeTypeError
	require.True(t, errors.As(err, &terr), "%v", err)
	assert.Empty(t, recs)
}

func TestParseConfig(t *testing.T) {
	conf, err := compiler.ParseConfig([]byte("parallelism: 4\nsort_limit: -1\ntdigest_compression: 100\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, conf.Parallelism)
	assert.Equal(t, -1, conf.SortLimit)
	assert.Equal(t, 100.0, conf.TDigestCompression)

	conf = conf.WithDefaults()
	assert.Equal(t, 10_000, conf.PercentileThreshold)
	assert.Equal(t, 1, conf.BatchSize)

	conf, err = compiler.ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, compiler.Config{}, conf)

	_, err = compiler.ParseConfig([]byte("parallelsim: 4\n"))
	assert.Error(t, err)
}
