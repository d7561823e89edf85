package exec_test

import (
	"context"
	"testing"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/runtime"
	"github.com/brimdata/spl/runtime/exec"
	"github.com/brimdata/spl/zbuf"
	"github.com/brimdata/spl/zbuf/mock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func records(n int) *zbuf.Array {
	var recs []*spl.Record
	for k := range n {
		recs = append(recs, spl.NewRecord(spl.NewField("n", spl.NewInt(int64(k)))))
	}
	return zbuf.NewArray(recs)
}

func TestAllCountsEmitted(t *testing.T) {
	rctx := runtime.NewContext(context.Background())
	q := exec.NewQuery(rctx, ksuid.New(), zbuf.NewPuller(records(5), 2))
	defer q.Close()
	var n int
	for rec, err := range q.All() {
		require.NoError(t, err)
		require.NotNil(t, rec)
		n++
	}
	assert.Equal(t, 5, n)
	assert.EqualValues(t, 5, q.Progress().RecordsEmitted)
	assert.Same(t, rctx, q.Context())
}

func TestAllEarlyStopReleasesPipeline(t *testing.T) {
	ctrl := gomock.NewController(t)
	parent := mock.NewMockPuller(ctrl)
	gomock.InOrder(
		parent.EXPECT().Pull(false).Return(records(3), nil),
		parent.EXPECT().Pull(true).Return(nil, nil),
	)
	q := exec.NewQuery(runtime.NewContext(context.Background()), ksuid.New(), parent)
	defer q.Close()
	for rec := range q.All() {
		n, _ := rec.Get("n")
		if n.Truthy() {
			break
		}
	}
}

func TestPanicBecomesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	parent := mock.NewMockPuller(ctrl)
	parent.EXPECT().Pull(false).DoAndReturn(func(bool) (zbuf.Batch, error) {
		var rec *spl.Record
		rec.Put("x", spl.Null)
		return nil, nil
	})
	q := exec.NewQuery(runtime.NewContext(context.Background()), ksuid.New(), parent)
	defer q.Close()
	_, err := q.Pull(false)
	assert.ErrorContains(t, err, "panic")
}

func TestAsReader(t *testing.T) {
	q := exec.NewQuery(runtime.NewContext(context.Background()), ksuid.New(), records(2))
	r := q.AsReader()
	rec, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, `{"n":0}`, rec.String())
	require.NoError(t, q.Close())
}

func TestCloseCancelsContext(t *testing.T) {
	defer goleak.VerifyNone(t)
	rctx := runtime.NewContext(context.Background())
	q := exec.NewQuery(rctx, ksuid.New(), records(1))
	require.NoError(t, q.Close())
	assert.Error(t, rctx.Err())
	assert.Equal(t, 1.0, testutil.ToFloat64(rctx.Metrics.Queries))
}
