package spl_test

import (
	"math"
	"strings"
	"testing"

	"github.com/brimdata/spl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONNumbers(t *testing.T) {
	val, err := spl.ParseJSON([]byte("18446744073709551616"))
	require.NoError(t, err)
	assert.Equal(t, spl.KindInt, val.Kind())
	assert.Equal(t, "18446744073709551616", val.String())

	val, err = spl.ParseJSON([]byte("2.0"))
	require.NoError(t, err)
	assert.Equal(t, spl.KindFloat, val.Kind())
	assert.Equal(t, "2.0", val.String())

	val, err = spl.ParseJSON([]byte("1e3"))
	require.NoError(t, err)
	assert.Equal(t, spl.KindFloat, val.Kind())
	assert.Equal(t, "1000.0", val.String())
}

func TestParseJSONErrors(t *testing.T) {
	for _, s := range []string{"", "   ", `{"a":1} x`, "}"} {
		_, err := spl.ParseJSON([]byte(s))
		assert.Error(t, err, "input %q", s)
	}
	_, err := spl.ParseRecordJSON([]byte("[1]"))
	assert.ErrorContains(t, err, "not an object")
}

func TestRecordJSONKeyOrder(t *testing.T) {
	const s = `{"z":1,"a":[true,null,"s"],"m":{"y":-1.5,"b":{}}}`
	var rec spl.Record
	require.NoError(t, rec.UnmarshalJSON([]byte(s)))
	b, err := rec.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, s, string(b))
}

func TestNonFiniteFloatsAreStrings(t *testing.T) {
	rec := spl.NewRecord(
		spl.NewField("x", spl.NewFloat(math.NaN())),
		spl.NewField("y", spl.NewFloat(math.Inf(1))),
	)
	assert.Equal(t, `{"x":"NaN","y":"Infinity"}`, rec.String())
}

func TestDecoder(t *testing.T) {
	d := spl.NewDecoder(strings.NewReader(`{"a":1} {"a":2}` + "\n" + `[3]`))
	var out []string
	for {
		val, err := d.Decode()
		require.NoError(t, err)
		if val.IsMissing() {
			break
		}
		out = append(out, val.String())
	}
	assert.Equal(t, []string{`{"a":1}`, `{"a":2}`, `[3]`}, out)

	d = spl.NewDecoder(strings.NewReader(`{"a":1} }`))
	_, err := d.Decode()
	require.NoError(t, err)
	_, err = d.Decode()
	assert.Error(t, err)
}
