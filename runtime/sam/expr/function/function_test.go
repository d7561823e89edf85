package function_test

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/brimdata/spl"
	"github.com/brimdata/spl/runtime/sam/expr"
	"github.com/brimdata/spl/runtime/sam/expr/function"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, env *function.Env, name string, args ...spl.Value) (spl.Value, error) {
	t.Helper()
	f, err := function.New(env, name, len(args))
	require.NoError(t, err, name)
	return f.Call(args)
}

func TestFunctions(t *testing.T) {
	s := spl.NewString
	i := spl.NewInt
	tests := []struct {
		name     string
		args     []spl.Value
		expected string
	}{
		{"true", nil, "true"},
		{"false", nil, "false"},
		{"null", nil, "null"},
		{"isnull", []spl.Value{spl.Null}, "true"},
		{"isnull", []spl.Value{spl.Missing}, "true"},
		{"isnull", []spl.Value{s("")}, "false"},
		{"isnum", []spl.Value{i(1)}, "true"},
		{"isnum", []spl.Value{spl.NewFloat(1.5)}, "true"},
		{"isnum", []spl.Value{s("1")}, "false"},
		{"len", []spl.Value{s("héllo")}, "5"},
		{"len", []spl.Value{spl.NewArray([]spl.Value{i(1), i(2)})}, "2"},
		{"len", []spl.Value{i(1234)}, "4"},
		{"len", []spl.Value{spl.Null}, "null"},
		{"lower", []spl.Value{s("MiXeD")}, `"mixed"`},
		{"upper", []spl.Value{s("MiXeD")}, `"MIXED"`},
		{"levenshtein", []spl.Value{s("kitten"), s("sitting")}, "3"},
		{"match", []spl.Value{s("error: disk"), s(`^err`)}, "true"},
		{"match", []spl.Value{s("warn"), s(`^err`)}, "false"},
		{"match", []spl.Value{spl.Null, s(`x`)}, "false"},
		{"replace", []spl.Value{s("2024-01-02"), s(`(\d+)-(\d+)-(\d+)`), s(`\3/\2/\1`)}, `"02/01/2024"`},
		{"replace", []spl.Value{s("aaa"), s("a"), s("b")}, `"bbb"`},
		{"replace", []spl.Value{s("user@example"), s(`(?<u>\w+)@`), s("$")}, `"$example"`},
		{"round", []spl.Value{spl.NewFloat(2.5)}, "3.0"},
		{"round", []spl.Value{spl.NewFloat(-2.5)}, "-3.0"},
		{"round", []spl.Value{spl.NewFloat(3.14159), i(2)}, "3.14"},
		{"round", []spl.Value{i(7)}, "7"},
		{"round", []spl.Value{s("1.26"), i(1)}, "1.3"},
		{"tonumber", []spl.Value{s("42")}, "42"},
		{"tonumber", []spl.Value{s("4.5")}, "4.5"},
		{"tonumber", []spl.Value{s("abc")}, "null"},
		{"tonumber", []spl.Value{s("ff"), i(16)}, "255"},
		{"tostring", []spl.Value{i(42)}, `"42"`},
		{"tostring", []spl.Value{i(255), s("hex")}, `"0xff"`},
		{"tostring", []spl.Value{i(-1234567), s("commas")}, `"-1,234,567"`},
		{"tostring", []spl.Value{spl.NewFloat(1234.5), s("commas")}, `"1,234.50"`},
		{"strftime", []spl.Value{i(0), s("%Y-%m-%d %H:%M:%S")}, `"1970-01-01 00:00:00"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			val, err := call(t, nil, tc.name, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, val.String())
		})
	}
}

func TestArgCount(t *testing.T) {
	_, err := function.New(nil, "round", 0)
	assert.ErrorIs(t, err, function.ErrTooFewArgs)
	_, err = function.New(nil, "round", 3)
	assert.ErrorIs(t, err, function.ErrTooManyArgs)
	_, err = function.New(nil, "true", 1)
	assert.ErrorIs(t, err, function.ErrTooManyArgs)
	_, err = function.New(nil, "nope", 1)
	assert.ErrorIs(t, err, function.ErrNoSuchFunction)
}

func TestRuntimeTypeErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []spl.Value
	}{
		{"round", []spl.Value{spl.NewString("x")}},
		{"lower", []spl.Value{spl.NewInt(1)}},
		{"match", []spl.Value{spl.NewString("x"), spl.NewString("(")}},
		{"tostring", []spl.Value{spl.NewFloat(1), spl.NewString("hex")}},
	} {
		_, err := call(t, nil, tc.name, tc.args...)
		var rte *expr.RuntimeTypeError
		assert.ErrorAs(t, err, &rte, tc.name)
	}
}

func TestNowUsesClock(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Unix(1700000000, 0))
	val, err := call(t, &function.Env{Clock: mock}, "now")
	require.NoError(t, err)
	assert.Equal(t, "1700000000", val.String())
	mock.Add(time.Minute)
	val, err = call(t, &function.Env{Clock: mock}, "now")
	require.NoError(t, err)
	assert.Equal(t, "1700000060", val.String())
}

func TestRandom(t *testing.T) {
	val, err := call(t, nil, "random")
	require.NoError(t, err)
	require.Equal(t, spl.KindInt, val.Kind())
	assert.GreaterOrEqual(t, val.BigInt().Int64(), int64(0))
}

func TestRegexpCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	cache, err := function.NewRegexpCache(2, reg)
	require.NoError(t, err)
	env := &function.Env{Regexps: cache}
	for range 3 {
		val, err := call(t, env, "match", spl.NewString("abc"), spl.NewString("b"))
		require.NoError(t, err)
		assert.True(t, val.Bool())
	}
	families, err := reg.Gather()
	require.NoError(t, err)
	counts := map[string]float64{}
	for _, mf := range families {
		counts[mf.GetName()] = mf.GetMetric()[0].GetCounter().GetValue()
	}
	assert.Equal(t, 2.0, counts["spl_regexp_cache_hits_total"])
	assert.Equal(t, 1.0, counts["spl_regexp_cache_misses_total"])
}

func TestTranslatePattern(t *testing.T) {
	assert.Equal(t, `(?P<user>\w+)@(?P<host>.*)`, function.TranslatePattern(`(?<user>\w+)@(?<host>.*)`))
	assert.Equal(t, `\(?<x>`, function.TranslatePattern(`\(?<x>`))
	assert.Equal(t, `(?P<a>x)`, function.TranslatePattern(`(?P<a>x)`))
}

func TestExpandReplacement(t *testing.T) {
	assert.Equal(t, "${1}-${0}", function.ExpandReplacement(`\1-&`))
	assert.Equal(t, "a&b$$", function.ExpandReplacement(`a\&b$`))
}
