// Package jsonio reads and writes records as JSON.
package jsonio

import (
	"fmt"
	"io"

	"github.com/brimdata/spl"
)

// Reader reads a stream of JSON objects.  A top-level array is read as
// the sequence of its elements.
type Reader struct {
	decoder *spl.Decoder
	array   []spl.Value
	n       int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{decoder: spl.NewDecoder(r)}
}

func (r *Reader) Read() (*spl.Record, error) {
	for len(r.array) == 0 {
		val, err := r.decoder.Decode()
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", r.n+1, err)
		}
		switch val.Kind() {
		case spl.KindMissing:
			return nil, nil
		case spl.KindArray:
			r.array = val.Array()
		default:
			r.array = []spl.Value{val}
		}
	}
	val := r.array[0]
	r.array = r.array[1:]
	r.n++
	if val.Kind() != spl.KindRecord {
		return nil, fmt.Errorf("value %d: JSON value is not an object: %s", r.n, val)
	}
	return val.Record(), nil
}
