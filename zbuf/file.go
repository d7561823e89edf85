package zbuf

import (
	"fmt"
	"io"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/sio"
)

// File is a record source read from a named file.  A read error names the
// file so that a bad record among several inputs can be found.
type File struct {
	reader sio.Reader
	closer io.Closer
	name   string
}

var _ sio.Reader = (*File)(nil)

func NewFile(r sio.Reader, c io.Closer, name string) *File {
	return &File{reader: r, closer: c, name: name}
}

func (f *File) Read() (*spl.Record, error) {
	rec, err := f.reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.name, err)
	}
	return rec, nil
}

func (f *File) Close() error {
	return f.closer.Close()
}

func (f *File) String() string {
	return f.name
}
