// Package distribute runs copies of a per-record sub-pipeline in parallel
// execution units.  Input records are dealt round-robin to the units and
// their output is merged in the order it completes, so output order is not
// input order.
package distribute

import (
	"context"
	"fmt"
	"sync"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/runtime"
	"github.com/brimdata/spl/runtime/sam/op"
	"github.com/brimdata/spl/zbuf"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Error is the failure of one execution unit.
type Error struct {
	Unit int
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("distribution unit %d: %s", e.Unit, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Builder compiles a fresh copy of the sub-pipeline reading from parent.
// Each unit gets its own copy so units share no evaluator state.
type Builder func(parent zbuf.Puller) (zbuf.Puller, error)

type Op struct {
	rctx   *runtime.Context
	parent zbuf.Puller
	inputs []chan zbuf.Batch
	units  []zbuf.Puller

	once     sync.Once
	ctx      context.Context
	cancel   context.CancelFunc
	resultCh chan op.Result
	eos      bool
}

// New compiles n units with build.  A build error is returned before any
// goroutine starts.
func New(rctx *runtime.Context, parent zbuf.Puller, n int, build Builder) (*Op, error) {
	if n < 1 {
		return nil, fmt.Errorf("distribute: need at least one unit, got %d", n)
	}
	ctx, cancel := context.WithCancel(rctx)
	o := &Op{
		rctx:     rctx,
		parent:   op.NewCatcher(parent),
		ctx:      ctx,
		cancel:   cancel,
		resultCh: make(chan op.Result),
	}
	for range n {
		ch := make(chan zbuf.Batch, 1)
		unit, err := build(&inputPuller{ctx: ctx, ch: ch})
		if err != nil {
			cancel()
			return nil, err
		}
		o.inputs = append(o.inputs, ch)
		o.units = append(o.units, op.NewCatcher(unit))
	}
	return o, nil
}

func (o *Op) Pull(done bool) (zbuf.Batch, error) {
	if o.eos {
		return nil, nil
	}
	o.once.Do(func() {
		// Block o.rctx.Cancel until run finishes its cleanup.
		o.rctx.WaitGroup.Add(1)
		go o.run()
	})
	if done {
		o.cancel()
		// Discard whatever the units had finished.
		for range o.resultCh {
		}
		o.eos = true
		return nil, nil
	}
	r, ok := <-o.resultCh
	if !ok {
		o.eos = true
		return nil, nil
	}
	if r.Err != nil {
		o.eos = true
	}
	return r.Batch, r.Err
}

func (o *Op) run() {
	defer func() {
		close(o.resultCh)
		o.rctx.WaitGroup.Done()
	}()
	group, ctx := errgroup.WithContext(o.ctx)
	group.Go(func() error {
		return o.split(ctx)
	})
	var mu sync.Mutex
	var unitErrs error
	for k, unit := range o.units {
		group.Go(func() error {
			err := o.runUnit(ctx, k, unit)
			if err != nil {
				o.rctx.Metrics.UnitErrors.Inc()
				err = &Error{Unit: k, Err: err}
				mu.Lock()
				unitErrs = multierr.Append(unitErrs, err)
				mu.Unlock()
			}
			return err
		})
	}
	err := group.Wait()
	if unitErrs != nil {
		err = unitErrs
	}
	if err == nil && o.ctx.Err() != nil {
		// Cancelled by Pull(true) or the query context.
		return
	}
	if err != nil {
		select {
		case o.resultCh <- op.Result{Err: err}:
		case <-o.ctx.Done():
		}
	}
}

// split deals the parent's records to the unit inputs round-robin.
func (o *Op) split(ctx context.Context) error {
	defer func() {
		for _, ch := range o.inputs {
			close(ch)
		}
	}()
	n := len(o.inputs)
	var next int
	for {
		batch, err := o.parent.Pull(false)
		if batch == nil || err != nil {
			return err
		}
		slices := make([][]*spl.Record, n)
		for _, rec := range batch.Records() {
			slices[next] = append(slices[next], rec)
			next = (next + 1) % n
		}
		for k, recs := range slices {
			if len(recs) == 0 {
				continue
			}
			select {
			case o.inputs[k] <- zbuf.NewArray(recs):
			case <-ctx.Done():
				_, err := o.parent.Pull(true)
				return err
			}
		}
	}
}

func (o *Op) runUnit(ctx context.Context, k int, unit zbuf.Puller) error {
	logger := o.rctx.Logger.With(zap.Int("unit", k))
	logger.Debug("distribution unit started")
	defer logger.Debug("distribution unit stopped")
	for {
		batch, err := unit.Pull(false)
		if err != nil {
			return err
		}
		if batch == nil {
			// Keep the splitter from blocking on an input nobody reads.
			for range o.inputs[k] {
			}
			return nil
		}
		select {
		case o.resultCh <- op.Result{Batch: batch}:
		case <-ctx.Done():
			unit.Pull(true)
			return nil
		}
	}
}

// inputPuller feeds one unit from its input channel.
type inputPuller struct {
	ctx context.Context
	ch  chan zbuf.Batch
}

func (i *inputPuller) Pull(done bool) (zbuf.Batch, error) {
	if done {
		return nil, nil
	}
	select {
	case batch, ok := <-i.ch:
		if !ok {
			return nil, nil
		}
		return batch, nil
	case <-i.ctx.Done():
		return nil, nil
	}
}
