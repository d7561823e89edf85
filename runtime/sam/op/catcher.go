package op

import (
	"fmt"
	"runtime/debug"

	"github.com/brimdata/spl/zbuf"
)

// Catcher wraps a Puller with a Pull method that recovers panics and turns
// them into errors.  It should be wrapped around the output puller of a
// pipeline and the top-level puller of any goroutine created inside of a
// pipeline.
type Catcher struct {
	parent zbuf.Puller
}

func NewCatcher(parent zbuf.Puller) *Catcher {
	return &Catcher{parent}
}

func (c *Catcher) Pull(done bool) (b zbuf.Batch, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %+v\n%s\n", r, debug.Stack())
		}
	}()
	return c.parent.Pull(done)
}

// Result is a batch or error sent from an operator's goroutine.
type Result struct {
	Batch zbuf.Batch
	Err   error
}
