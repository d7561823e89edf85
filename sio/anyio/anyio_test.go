package anyio

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/sio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r sio.Reader) []string {
	t.Helper()
	var out []string
	for {
		rec, err := r.Read()
		require.NoError(t, err)
		if rec == nil {
			return out
		}
		out = append(out, rec.String())
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"  {\"a\":1}\n{\"a\":2}", []string{`{"a":1}`, `{"a":2}`}},
		{`[{"a":1}]`, []string{`{"a":1}`}},
		{"a,b\n1,x\n", []string{`{"a":1,"b":"x"}`}},
		{"a\tb\n1\tx\n", []string{`{"a":1,"b":"x"}`}},
		{"", nil},
	}
	for _, tc := range tests {
		r, err := NewReader(strings.NewReader(tc.input), ReaderOpts{})
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.expected, readAll(t, r), "input %q", tc.input)
	}
	_, err := NewReader(strings.NewReader("just text\n"), ReaderOpts{})
	assert.ErrorContains(t, err, "format detection error")
}

func TestGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(`{"a":"gz"}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	r, err := NewReader(&buf, ReaderOpts{})
	require.NoError(t, err)
	assert.Equal(t, []string{`{"a":"gz"}`}, readAll(t, r))
}

func TestOpenAndWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("x\n1\n"), 0o644))
	f, err := Open(context.Background(), path, ReaderOpts{})
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, path, f.String())
	assert.Equal(t, []string{`{"x":1}`}, readAll(t, f))

	var out bytes.Buffer
	w, err := NewWriter(sio.NopCloser(&out), WriterOpts{Format: "csv"})
	require.NoError(t, err)
	require.NoError(t, w.Write(spl.NewRecord(spl.NewField("x", spl.NewInt(1)))))
	require.NoError(t, w.Close())
	assert.Equal(t, "x\n1\n", out.String())

	_, err = NewWriter(sio.NopCloser(&out), WriterOpts{Format: "parquet"})
	assert.Error(t, err)
}
