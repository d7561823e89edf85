package runtime

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordsReadIsRaceFree(t *testing.T) {
	reg := prometheus.NewRegistry()
	rctx := NewContext(context.Background(), WithMetrics(NewMetrics(reg)))
	defer rctx.Cancel()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				rctx.AddRecordsRead(1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 8000, rctx.RecordsRead())

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range families {
		if mf.GetName() == "spl_records_read_total" {
			found = true
			assert.Equal(t, 8000.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found)
}

func TestCancel(t *testing.T) {
	rctx := DefaultContext()
	rctx.Cancel()
	assert.Error(t, rctx.Err())
}
