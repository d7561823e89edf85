package runtime

import (
	"io"

	"github.com/brimdata/spl/zbuf"
)

// Query is a running query.  Closing it cancels the run and waits for its
// goroutines to exit.
type Query interface {
	zbuf.Puller
	io.Closer
	Progress() Progress
}
