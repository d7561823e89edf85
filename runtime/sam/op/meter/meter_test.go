package meter_test

import (
	"context"
	"testing"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/runtime"
	"github.com/brimdata/spl/runtime/sam/op/meter"
	"github.com/brimdata/spl/zbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeterCountsEveryBatch(t *testing.T) {
	var recs []*spl.Record
	for range 7 {
		recs = append(recs, spl.NewRecord())
	}
	rctx := runtime.NewContext(context.Background())
	m := meter.New(rctx, zbuf.NewPuller(zbuf.NewArray(recs), 3))
	var batches int
	for {
		b, err := m.Pull(false)
		require.NoError(t, err)
		if b == nil {
			break
		}
		batches++
	}
	assert.Equal(t, 3, batches)
	assert.EqualValues(t, 7, rctx.RecordsRead())
	assert.EqualValues(t, 0, rctx.Progress().RecordsEmitted)
}
