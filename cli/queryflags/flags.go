package queryflags

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/brimdata/spl/cli"
	"github.com/brimdata/spl/runtime"
	jsoniter "github.com/json-iterator/go"
)

type Flags struct {
	Stats    bool
	Includes Includes
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&f.Stats, "stats", false, "display query stats on stderr")
	fs.Var(&f.Includes, "I", "source file containing query text (may be repeated)")
}

// ParseSourcesAndInputs splits args into the query text and the input
// paths.  The query is the first argument unless include files supply
// query text, in which case an argument is taken as query text only if
// it is not the name of an existing file.
func (f *Flags) ParseSourcesAndInputs(args []string) (string, []string, error) {
	if len(args) == 0 {
		if len(f.Includes) == 0 {
			return "", nil, fmt.Errorf("no query specified")
		}
		return "", nil, nil
	}
	if len(f.Includes) > 0 && cli.FileExists(args[0]) {
		return "", args, nil
	}
	return args[0], args[1:], nil
}

func (f *Flags) PrintStats(p runtime.Progress) {
	if f.Stats {
		out, err := jsoniter.MarshalToString(p)
		if err != nil {
			out = fmt.Sprintf("error marshaling stats: %s", err)
		}
		fmt.Fprintln(os.Stderr, out)
	}
}

type Includes []string

func (i Includes) String() string {
	return strings.Join(i, ",")
}

func (i *Includes) Set(value string) error {
	*i = append(*i, value)
	return nil
}
