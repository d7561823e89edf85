package inputflags

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/brimdata/spl/sio"
	"github.com/brimdata/spl/sio/anyio"
)

type Flags struct {
	anyio.ReaderOpts
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	f.CSV.Delim = ','
	fs.Func("csv.delim", `CSV field delimiter (default ",")`, func(s string) error {
		if len(s) != 1 {
			return errors.New("CSV field delimiter must be exactly one character")
		}
		f.CSV.Delim = rune(s[0])
		return nil
	})
	fs.StringVar(&f.Format, "i", "auto", "format of input data [auto,csv,json,line,tsv]")
}

// Init is called after flags have been parsed.
func (f *Flags) Init() error {
	switch f.Format {
	case "auto", "csv", "json", "line", "tsv":
		return nil
	}
	return fmt.Errorf("unknown input format: %s", f.Format)
}

// Open opens each of paths, where "-" is standard input.  If any fails to
// open, those already opened are closed.
func (f *Flags) Open(ctx context.Context, paths []string) ([]sio.Reader, error) {
	var readers []sio.Reader
	for _, path := range paths {
		file, err := anyio.Open(ctx, path, f.ReaderOpts)
		if err != nil {
			sio.CloseReaders(readers)
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		readers = append(readers, file)
	}
	return readers, nil
}
