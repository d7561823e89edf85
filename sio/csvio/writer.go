package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/brimdata/spl"
)

var ErrNotDataFrame = errors.New("CSV output requires records with the same fields in the same order")

type Writer struct {
	writer  io.WriteCloser
	encoder *csv.Writer
	header  bool
	first   []string
	strings []string
}

type WriterOpts struct {
	Delim    rune
	NoHeader bool
}

func NewWriter(w io.WriteCloser, opts WriterOpts) *Writer {
	encoder := csv.NewWriter(w)
	if opts.Delim != 0 {
		encoder.Comma = opts.Delim
	}
	return &Writer{
		writer:  w,
		encoder: encoder,
		header:  !opts.NoHeader,
	}
}

func (w *Writer) Close() error {
	w.encoder.Flush()
	return w.writer.Close()
}

func (w *Writer) Flush() error {
	w.encoder.Flush()
	return w.encoder.Error()
}

func (w *Writer) Write(rec *spl.Record) error {
	fields := rec.Fields()
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	if w.first == nil {
		w.first = names
		if w.header {
			if err := w.encoder.Write(names); err != nil {
				return err
			}
		}
	} else if !slices.Equal(w.first, names) {
		return fmt.Errorf("%w: %s", ErrNotDataFrame, rec)
	}
	w.strings = w.strings[:0]
	for _, f := range fields {
		var s string
		switch f.Value.Kind() {
		case spl.KindMissing, spl.KindNull:
		case spl.KindArray, spl.KindRecord:
			s = f.Value.String()
		default:
			s = f.Value.AsString()
		}
		w.strings = append(w.strings, s)
	}
	return w.encoder.Write(w.strings)
}
