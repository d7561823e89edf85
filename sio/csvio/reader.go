// Package csvio reads and writes records as comma-separated values.
package csvio

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/brimdata/spl"
)

type ReaderOpts struct {
	Delim rune
}

// Reader reads CSV with a header row.  Fields that look like numbers are
// read as numbers and all others as strings.
type Reader struct {
	reader *csv.Reader
	header []string
}

func NewReader(r io.Reader, opts ReaderOpts) *Reader {
	reader := csv.NewReader(r)
	if opts.Delim != 0 {
		reader.Comma = opts.Delim
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true
	return &Reader{reader: reader}
}

func (r *Reader) Read() (*spl.Record, error) {
	for {
		row, err := r.reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, err
		}
		if r.header == nil {
			r.header = append([]string(nil), row...)
			continue
		}
		return r.translate(row)
	}
}

func (r *Reader) translate(row []string) (*spl.Record, error) {
	if len(row) > len(r.header) {
		line, _ := r.reader.FieldPos(0)
		return nil, &csv.ParseError{StartLine: line, Line: line, Err: csv.ErrFieldCount}
	}
	rec := spl.NewRecord()
	for k, s := range row {
		val, ok := spl.ParseNumber(s)
		if !ok {
			val = spl.NewString(s)
		}
		rec.Put(r.header[k], val)
	}
	return rec, nil
}
