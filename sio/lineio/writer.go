package lineio

import (
	"bufio"
	"io"

	"github.com/brimdata/spl"
)

// Writer writes the _raw field of each record that has a string there and
// the JSON text of any other record.
type Writer struct {
	writer io.WriteCloser
	buf    *bufio.Writer
}

func NewWriter(w io.WriteCloser) *Writer {
	return &Writer{
		writer: w,
		buf:    bufio.NewWriter(w),
	}
}

func (w *Writer) Write(rec *spl.Record) error {
	s := rec.String()
	if raw, ok := rec.Get(RawField); ok && raw.Kind() == spl.KindString {
		s = raw.Str()
	}
	if _, err := w.buf.WriteString(s); err != nil {
		return err
	}
	return w.buf.WriteByte('\n')
}

func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.writer.Close()
		return err
	}
	return w.writer.Close()
}
