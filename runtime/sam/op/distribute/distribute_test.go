package distribute_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/pkg/field"
	"github.com/brimdata/spl/runtime"
	"github.com/brimdata/spl/runtime/sam/expr"
	"github.com/brimdata/spl/runtime/sam/op"
	"github.com/brimdata/spl/runtime/sam/op/distribute"
	"github.com/brimdata/spl/runtime/sam/op/meter"
	"github.com/brimdata/spl/zbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// source emits n records {"i":k} in batches of size and remembers whether
// it was released.
type source struct {
	n, size  int
	next     int
	released atomic.Bool
}

func (s *source) Pull(done bool) (zbuf.Batch, error) {
	if done {
		s.released.Store(true)
		return nil, nil
	}
	if s.next >= s.n {
		return nil, nil
	}
	var recs []*spl.Record
	for range s.size {
		if s.next >= s.n {
			break
		}
		recs = append(recs, spl.NewRecord(spl.NewField("i", spl.NewInt(int64(s.next)))))
		s.next++
	}
	return zbuf.NewArray(recs), nil
}

func doubler(t *testing.T) distribute.Builder {
	return func(parent zbuf.Puller) (zbuf.Puller, error) {
		double, err := expr.NewArithmetic(expr.NewDottedExpr(field.Dotted("i")), expr.NewLiteral(spl.NewInt(2)), "*")
		if err != nil {
			return nil, err
		}
		putter := expr.NewPutter([]expr.Assignment{{LHS: field.Dotted("d"), RHS: double}})
		return op.NewApplier(parent, putter.Eval), nil
	}
}

// collect returns the "i" field of each output record.  If doubled is set,
// each record must also have "d" equal to twice "i".
func collect(t *testing.T, p zbuf.Puller, doubled bool) ([]int64, error) {
	var out []int64
	for {
		b, err := p.Pull(false)
		if err != nil {
			return out, err
		}
		if b == nil {
			return out, nil
		}
		for _, rec := range b.Records() {
			i, _ := rec.Get("i")
			if doubled {
				d, ok := rec.Get("d")
				require.True(t, ok)
				assert.Equal(t, 2*i.BigInt().Int64(), d.BigInt().Int64())
			}
			out = append(out, i.BigInt().Int64())
		}
	}
}

func TestEveryRecordOnce(t *testing.T) {
	for _, units := range []int{1, 2, 3, 8} {
		t.Run(fmt.Sprint(units), func(t *testing.T) {
			rctx := runtime.DefaultContext()
			defer rctx.Cancel()
			src := &source{n: 1000, size: 7}
			d, err := distribute.New(rctx, meter.New(rctx, src), units, doubler(t))
			require.NoError(t, err)
			got, err := collect(t, d, true)
			require.NoError(t, err)
			sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
			require.Len(t, got, 1000)
			for k, v := range got {
				assert.Equal(t, int64(k), v)
			}
			assert.Equal(t, int64(1000), rctx.RecordsRead())
		})
	}
}

var errBoom = errors.New("boom")

type failAt struct {
	parent zbuf.Puller
	i      int64
	panics bool
}

func (f *failAt) Pull(done bool) (zbuf.Batch, error) {
	b, err := f.parent.Pull(done)
	if b == nil || err != nil {
		return b, err
	}
	for _, rec := range b.Records() {
		if v, _ := rec.Get("i"); v.BigInt().Int64() == f.i {
			if f.panics {
				panic("unit crashed")
			}
			return nil, errBoom
		}
	}
	return b, nil
}

func TestUnitFailure(t *testing.T) {
	for _, panics := range []bool{false, true} {
		rctx := runtime.DefaultContext()
		src := &source{n: 100_000, size: 4}
		d, err := distribute.New(rctx, src, 4, func(parent zbuf.Puller) (zbuf.Puller, error) {
			return &failAt{parent: parent, i: 501, panics: panics}, nil
		})
		require.NoError(t, err)
		_, err = collect(t, d, false)
		var derr *distribute.Error
		require.ErrorAs(t, err, &derr)
		// Records are dealt round-robin so record 501 goes to unit 501 mod 4.
		assert.Equal(t, 1, derr.Unit)
		if panics {
			assert.ErrorContains(t, err, "unit crashed")
		} else {
			assert.ErrorIs(t, err, errBoom)
		}
		b, err := d.Pull(false)
		assert.NoError(t, err)
		assert.Nil(t, b)
		rctx.Cancel()
		assert.True(t, src.released.Load(), "source is released after a unit fails")
	}
}

func TestCancel(t *testing.T) {
	rctx := runtime.DefaultContext()
	src := &source{n: 1_000_000, size: 10}
	d, err := distribute.New(rctx, src, 4, doubler(t))
	require.NoError(t, err)
	b, err := d.Pull(false)
	require.NoError(t, err)
	require.NotNil(t, b)
	b, err = d.Pull(true)
	require.NoError(t, err)
	assert.Nil(t, b)
	b, err = d.Pull(false)
	require.NoError(t, err)
	assert.Nil(t, b)
	rctx.Cancel()
	assert.True(t, src.released.Load())
	assert.Less(t, src.next, src.n)
}

func TestContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rctx := runtime.NewContext(ctx)
	d, err := distribute.New(rctx, &source{n: 1_000_000, size: 10}, 2, doubler(t))
	require.NoError(t, err)
	_, err = d.Pull(false)
	require.NoError(t, err)
	cancel()
	rctx.Cancel()
}

func TestBuildError(t *testing.T) {
	rctx := runtime.DefaultContext()
	defer rctx.Cancel()
	_, err := distribute.New(rctx, &source{}, 2, func(zbuf.Puller) (zbuf.Puller, error) {
		return nil, errBoom
	})
	assert.ErrorIs(t, err, errBoom)
	_, err = distribute.New(rctx, &source{}, 0, doubler(t))
	assert.Error(t, err)
}

type gate struct {
	parent zbuf.Puller
	open   chan struct{}
}

func (g *gate) Pull(done bool) (zbuf.Batch, error) {
	<-g.open
	return g.parent.Pull(done)
}

func TestCompletionOrder(t *testing.T) {
	rctx := runtime.DefaultContext()
	defer rctx.Cancel()
	open := make(chan struct{})
	var units atomic.Int32
	d, err := distribute.New(rctx, &source{n: 2, size: 2}, 2, func(parent zbuf.Puller) (zbuf.Puller, error) {
		if units.Add(1) == 1 {
			return &gate{parent: parent, open: open}, nil
		}
		return parent, nil
	})
	require.NoError(t, err)
	// Unit 0 holds record 0 until released so record 1 arrives first.
	b, err := d.Pull(false)
	require.NoError(t, err)
	require.Len(t, b.Records(), 1)
	assert.Equal(t, `{"i":1}`, b.Records()[0].String())
	close(open)
	b, err = d.Pull(false)
	require.NoError(t, err)
	require.Len(t, b.Records(), 1)
	assert.Equal(t, `{"i":0}`, b.Records()[0].String())
	b, err = d.Pull(false)
	require.NoError(t, err)
	assert.Nil(t, b)
}
