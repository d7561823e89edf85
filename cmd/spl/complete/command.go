package complete

import (
	"errors"
	"flag"
	"os"
	"strings"

	"github.com/brimdata/spl/cmd/spl/root"
	"github.com/brimdata/spl/compiler/parser"
	"github.com/brimdata/spl/pkg/charm"
	jsoniter "github.com/json-iterator/go"
)

var spec = &charm.Spec{
	Name:   "complete",
	Usage:  "complete [ -offset n ] [ -fields a,b,... ] query",
	Short:  "list completions for a partial query",
	Hidden: true,
	Long: `
This command writes the completions offered for the query text ending at
the given offset as newline-delimited JSON, one object per candidate with
the label, its kind, and the range of the query text it replaces.  The
offset defaults to the end of the query.

Editors use this to offer command, function, and field names as a query
is typed.
`,
	New: New,
}

func init() {
	root.Spl.Add(spec)
}

type Command struct {
	*root.Command
	offset int
	fields string
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	f.IntVar(&c.offset, "offset", -1, "offset in the query of the text to complete")
	f.StringVar(&c.fields, "fields", "", "comma-separated field names to offer")
	return c, nil
}

func (c *Command) Run(args []string) error {
	if len(args) != 1 {
		return errors.New("a single query argument is required")
	}
	query := args[0]
	offset := c.offset
	if offset < 0 || offset > len(query) {
		offset = len(query)
	}
	opts := []parser.Option{parser.WithCompletions(offset)}
	if c.fields != "" {
		opts = append(opts, parser.WithFields(strings.Split(c.fields, ",")...))
	}
	res, _ := parser.Parse(query, opts...)
	enc := jsoniter.NewEncoder(os.Stdout)
	for _, completion := range res.Completions {
		if err := enc.Encode(completion); err != nil {
			return err
		}
	}
	return nil
}
