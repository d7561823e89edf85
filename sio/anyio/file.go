package anyio

import (
	"context"
	"io"
	"os"

	"github.com/brimdata/spl/sio"
	"github.com/brimdata/spl/zbuf"
)

// Open opens the file at path for reading.  The path "-" is standard input.
func Open(ctx context.Context, path string, opts ReaderOpts) (*zbuf.File, error) {
	if path == "-" {
		return NewFile(io.NopCloser(os.Stdin), "stdio:stdin", opts)
	}
	if opts.Format == "" || opts.Format == "auto" {
		if format := sio.FormatFromPath(path); format != "" {
			opts.Format = format
		}
	}
	ch := make(chan struct{})
	var f *zbuf.File
	var err error
	go func() {
		defer close(ch)
		// Opening a fifo might block.
		var rc *os.File
		rc, err = os.Open(path)
		if err != nil {
			return
		}
		f, err = NewFile(rc, path, opts)
		if err != nil {
			rc.Close()
		}
	}()
	select {
	case <-ch:
		return f, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func NewFile(rc io.ReadCloser, path string, opts ReaderOpts) (*zbuf.File, error) {
	r, err := NewReader(rc, opts)
	if err != nil {
		return nil, err
	}
	return zbuf.NewFile(r, rc, path), nil
}
