package anyio

import (
	"fmt"
	"io"

	"github.com/brimdata/spl/sio"
	"github.com/brimdata/spl/sio/csvio"
	"github.com/brimdata/spl/sio/jsonio"
	"github.com/brimdata/spl/sio/lineio"
)

type WriterOpts struct {
	Format string
	CSV    csvio.WriterOpts
}

func NewWriter(w io.WriteCloser, opts WriterOpts) (sio.WriteCloser, error) {
	switch opts.Format {
	case "", "json":
		return jsonio.NewWriter(w), nil
	case "csv":
		return csvio.NewWriter(w, opts.CSV), nil
	case "tsv":
		opts.CSV.Delim = '\t'
		return csvio.NewWriter(w, opts.CSV), nil
	case "line":
		return lineio.NewWriter(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s", opts.Format)
}
