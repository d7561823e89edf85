package jsonio

import (
	"bufio"
	"io"

	"github.com/brimdata/spl"
)

// Writer writes records as newline-delimited JSON.
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
	b, err := rec.MarshalJSON()
	if err != nil {
		return err
	}
	if _, err := w.buf.Write(b); err != nil {
		return err
	}
	return w.buf.WriteByte('\n')
}

func (w *Writer) Flush() error {
	return w.buf.Flush()
}

func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.writer.Close()
		return err
	}
	return w.writer.Close()
}
