package runtime

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// Context provides states used by all operators to provide the outside
// context in which they are running.  A Context is created once per query
// run and is shared by every operator of the run including those running
// in distribution units.
type Context struct {
	context.Context
	// WaitGroup is used to ensure that goroutines complete cleanup work
	// before Cancel returns.
	WaitGroup sync.WaitGroup
	Logger    *zap.Logger
	Clock     clock.Clock
	Metrics   *Metrics

	recordsRead    atomic.Int64
	recordsEmitted atomic.Int64
	cancel         context.CancelFunc
}

type Option func(*Context)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Context) {
		c.Logger = logger
	}
}

func WithClock(clock clock.Clock) Option {
	return func(c *Context) {
		c.Clock = clock
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Context) {
		c.Metrics = m
	}
}

func NewContext(ctx context.Context, opts ...Option) *Context {
	ctx, cancel := context.WithCancel(ctx)
	c := &Context{
		Context: ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Clock == nil {
		c.Clock = clock.New()
	}
	if c.Metrics == nil {
		c.Metrics = NewMetrics(nil)
	}
	return c
}

func DefaultContext() *Context {
	return NewContext(context.Background())
}

// Cancel cancels the context.  Cancel must be called to ensure that operators
// complete cleanup work.
func (c *Context) Cancel() {
	c.cancel()
	c.WaitGroup.Wait()
}

// AddRecordsRead counts n records pulled from a source.  It is safe for
// concurrent use.
func (c *Context) AddRecordsRead(n int) {
	c.recordsRead.Add(int64(n))
	c.Metrics.RecordsRead.Add(float64(n))
}

func (c *Context) RecordsRead() int64 {
	return c.recordsRead.Load()
}

func (c *Context) AddRecordsEmitted(n int) {
	c.recordsEmitted.Add(int64(n))
	c.Metrics.RecordsEmitted.Add(float64(n))
}

func (c *Context) Progress() Progress {
	return Progress{
		RecordsRead:    c.recordsRead.Load(),
		RecordsEmitted: c.recordsEmitted.Load(),
	}
}

// Progress is a snapshot of the counters of a running query.
type Progress struct {
	RecordsRead    int64 `json:"records_read"`
	RecordsEmitted int64 `json:"records_emitted"`
}
