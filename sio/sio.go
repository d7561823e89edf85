// Package sio defines the interfaces between the query runtime and the
// sources and sinks of records.
package sio

import (
	"context"
	"io"
	"iter"
	"path/filepath"
	"slices"

	"github.com/brimdata/spl"
)

func Extension(format string) string {
	switch format {
	case "csv":
		return ".csv"
	case "json":
		return ".ndjson"
	default:
		return ""
	}
}

func FormatFromPath(path string) string {
	switch filepath.Ext(path) {
	case ".csv":
		return "csv"
	case ".tsv":
		return "tsv"
	case ".json", ".jsonl", ".ndjson":
		return "json"
	case ".log":
		return "line"
	default:
		return ""
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NopCloser returns a WriteCloser with a no-op Close method wrapping
// the provided Writer w.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}

// Reader wraps the Read method.
//
// Read returns the next record and a nil error, a nil record and the next
// error, or a nil record and nil error to indicate that no records remain.
//
// Read never returns a non-nil record and non-nil error together, and it
// never returns io.EOF.  The caller owns the returned record.
type Reader interface {
	Read() (*spl.Record, error)
}

// Writer wraps the Write method.
//
// Implementations must not modify rec.
type Writer interface {
	Write(rec *spl.Record) error
}

type ReadCloser interface {
	Reader
	io.Closer
}

type WriteCloser interface {
	Writer
	io.Closer
}

func NewReadCloser(r Reader, c io.Closer) ReadCloser {
	return extReadCloser{r, c}
}

type extReadCloser struct {
	Reader
	io.Closer
}

func NopReadCloser(r Reader) ReadCloser {
	return nopReadCloser{r}
}

type nopReadCloser struct {
	Reader
}

func (nopReadCloser) Close() error { return nil }

// ConcatReader returns a Reader that is the logical concatenation of readers,
// which are read sequentially.  Its Read methed returns any non-nil error
// returned by a reader and returns end of stream after all readers have
// returned end of stream.
func ConcatReader(readers ...Reader) Reader {
	if len(readers) == 1 {
		return readers[0]
	}
	return &concatReader{slices.Clone(readers)}
}

type concatReader struct {
	readers []Reader
}

func (c *concatReader) Read() (*spl.Record, error) {
	for len(c.readers) > 0 {
		rec, err := c.readers[0].Read()
		if rec != nil || err != nil {
			return rec, err
		}
		c.readers = c.readers[1:]
	}
	return nil, nil
}

// FromSeq returns a Reader over the records of seq.  The sequence is pulled
// lazily and only as far as the reader is read.
func FromSeq(seq iter.Seq[*spl.Record]) ReadCloser {
	next, stop := iter.Pull(seq)
	return &seqReader{next: next, stop: stop}
}

type seqReader struct {
	next func() (*spl.Record, bool)
	stop func()
}

func (s *seqReader) Read() (*spl.Record, error) {
	rec, ok := s.next()
	if !ok {
		return nil, nil
	}
	return rec, nil
}

// Close releases the underlying sequence.
func (s *seqReader) Close() error {
	s.stop()
	return nil
}

// Copy copies src to dst a la io.Copy.
func Copy(dst Writer, src Reader) error {
	return CopyWithContext(context.Background(), dst, src)
}

func CopyWithContext(ctx context.Context, dst Writer, src Reader) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := src.Read()
		if err != nil || rec == nil {
			return err
		}
		if err := dst.Write(rec); err != nil {
			return err
		}
	}
}

func CloseReaders(readers []Reader) error {
	var err error
	for _, reader := range readers {
		if closer, ok := reader.(io.Closer); ok {
			if e := closer.Close(); err == nil {
				err = e
			}
		}
	}
	return err
}
