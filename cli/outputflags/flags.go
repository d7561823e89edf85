package outputflags

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/brimdata/spl/sio"
	"github.com/brimdata/spl/sio/anyio"
)

type Flags struct {
	anyio.WriterOpts
	outputFile string
	noHeader   bool
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	f.SetFormatFlags(fs)
	fs.StringVar(&f.outputFile, "o", "", "write data to output file")
	fs.BoolVar(&f.noHeader, "csv.noheader", false, "omit the header row of CSV and TSV output")
}

func (f *Flags) SetFormatFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.Format, "f", "json", "format for output data [csv,json,line,tsv]")
}

func (f *Flags) Init() error {
	switch f.Format {
	case "json", "csv", "line", "tsv":
	default:
		return fmt.Errorf("unknown output format: %s", f.Format)
	}
	if f.noHeader && f.Format != "csv" && f.Format != "tsv" {
		return errors.New("-csv.noheader requires -f csv or -f tsv")
	}
	f.CSV.NoHeader = f.noHeader
	if f.outputFile == "-" {
		f.outputFile = ""
	}
	return nil
}

func (f *Flags) FileName() string {
	return f.outputFile
}

// Open returns a writer for the output file or for standard output if
// there is none.
func (f *Flags) Open() (sio.WriteCloser, error) {
	if f.outputFile == "" {
		return anyio.NewWriter(sio.NopCloser(os.Stdout), f.WriterOpts)
	}
	file, err := os.Create(f.outputFile)
	if err != nil {
		return nil, err
	}
	w, err := anyio.NewWriter(file, f.WriterOpts)
	if err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}
