package zbuf_test

import (
	"strings"
	"testing"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/sio"
	"github.com/brimdata/spl/sio/jsonio"
	"github.com/brimdata/spl/zbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeReader struct {
	sio.Reader
	closed bool
}

func (c *closeReader) Close() error {
	c.closed = true
	return nil
}

func TestPullerBatchSize(t *testing.T) {
	r := jsonio.NewReader(strings.NewReader(`{"a":1}{"a":2}{"a":3}`))
	p := zbuf.NewPuller(r, 2)
	batch, err := p.Pull(false)
	require.NoError(t, err)
	assert.Len(t, batch.Records(), 2)
	batch, err = p.Pull(false)
	require.NoError(t, err)
	assert.Len(t, batch.Records(), 1)
	batch, err = p.Pull(false)
	require.NoError(t, err)
	assert.Nil(t, batch)
}

func TestPullerDoneClosesReader(t *testing.T) {
	r := &closeReader{Reader: zbuf.NewArray([]*spl.Record{spl.NewRecord()})}
	p := zbuf.NewPuller(r, 1)
	batch, err := p.Pull(true)
	require.NoError(t, err)
	assert.Nil(t, batch)
	assert.True(t, r.closed)
}

func TestArrayWriteCopiesRecord(t *testing.T) {
	var a zbuf.Array
	rec := spl.NewRecord(spl.NewField("a", spl.NewInt(1)))
	require.NoError(t, a.Write(rec))
	rec.Put("a", spl.NewInt(2))
	assert.Equal(t, `{"a":1}`, a.Records()[0].String())
}

func TestPullerReaderAndCopy(t *testing.T) {
	recs := []*spl.Record{
		spl.NewRecord(spl.NewField("a", spl.NewInt(1))),
		spl.NewRecord(spl.NewField("a", spl.NewInt(2))),
	}
	var out zbuf.Array
	require.NoError(t, sio.Copy(&out, zbuf.PullerReader(zbuf.NewArray(recs))))
	assert.Len(t, out.Records(), 2)
	var again zbuf.Array
	require.NoError(t, zbuf.CopyPuller(&again, zbuf.NewArray(out.Records())))
	assert.Equal(t, `{"a":2}`, again.Records()[1].String())
}

func TestFileNamesReadErrors(t *testing.T) {
	c := &closeReader{}
	f := zbuf.NewFile(jsonio.NewReader(strings.NewReader(`{"a":1} nope`)), c, "app.json")
	rec, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, rec.String())
	_, err = f.Read()
	assert.ErrorContains(t, err, "app.json: value 2: ")
	assert.Equal(t, "app.json", f.String())
	require.NoError(t, f.Close())
	assert.True(t, c.closed)
}
