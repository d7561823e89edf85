// Package anyio opens record sources and sinks by format name, detecting
// the format of input when none is given.
package anyio

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"github.com/brimdata/spl/sio"
	"github.com/brimdata/spl/sio/csvio"
	"github.com/brimdata/spl/sio/jsonio"
	"github.com/brimdata/spl/sio/lineio"
)

type ReaderOpts struct {
	Format string
	CSV    csvio.ReaderOpts
}

// RFC 1952, Section 2.3.1
const (
	gzipID1 = 0x1f
	gzipID2 = 0x8b
)

const sniffLen = 4096

func NewReader(r io.Reader, opts ReaderOpts) (sio.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	if id, err := br.Peek(2); err == nil && id[0] == gzipID1 && id[1] == gzipID2 {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		br = bufio.NewReaderSize(zr, sniffLen)
	}
	format := opts.Format
	if format == "" || format == "auto" {
		var err error
		if format, err = detect(br); err != nil {
			return nil, err
		}
	}
	return lookupReader(br, format, opts)
}

func lookupReader(r io.Reader, format string, opts ReaderOpts) (sio.Reader, error) {
	switch format {
	case "json":
		return jsonio.NewReader(r), nil
	case "csv":
		return csvio.NewReader(r, opts.CSV), nil
	case "tsv":
		opts.CSV.Delim = '\t'
		return csvio.NewReader(r, opts.CSV), nil
	case "line":
		return lineio.NewReader(r), nil
	}
	return nil, fmt.Errorf("no such format: %q", format)
}

// detect looks at the start of the input.  JSON begins with an object or
// an array.  CSV and TSV are recognized by a delimiter in the header line.
func detect(br *bufio.Reader) (string, error) {
	b, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", err
	}
	trimmed := bytes.TrimLeft(b, " \t\r\n")
	if len(trimmed) == 0 {
		return "json", nil
	}
	switch trimmed[0] {
	case '{', '[':
		return "json", nil
	}
	line, _, _ := bytes.Cut(b, []byte{'\n'})
	switch {
	case bytes.ContainsRune(line, ','):
		return "csv", nil
	case bytes.ContainsRune(line, '\t'):
		return "tsv", nil
	}
	return "", errors.New("format detection error: input is not JSON, CSV, or TSV")
}
