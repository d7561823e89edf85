// Package lineio reads and writes unstructured text one line per record.
// Each line is held in the _raw field of its record.
package lineio

import (
	"bufio"
	"io"
	"strings"

	"github.com/brimdata/spl"
)

const RawField = "_raw"

// MaxLineSize is the length of the longest line that can be read.
const MaxLineSize = 1024 * 1024

type Reader struct {
	scanner *bufio.Scanner
}

func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(nil, MaxLineSize)
	return &Reader{scanner: s}
}

func (r *Reader) Read() (*spl.Record, error) {
	if !r.scanner.Scan() {
		return nil, r.scanner.Err()
	}
	line := strings.TrimSuffix(r.scanner.Text(), "\r")
	return spl.NewRecord(spl.NewField(RawField, spl.NewString(line))), nil
}
