package compile

import (
	"errors"
	"flag"
	"fmt"

	"github.com/brimdata/spl/cli/queryflags"
	"github.com/brimdata/spl/cmd/spl/root"
	"github.com/brimdata/spl/compiler/parser"
	"github.com/brimdata/spl/compiler/sfmt"
	"github.com/brimdata/spl/pkg/charm"
	jsoniter "github.com/json-iterator/go"
	"github.com/kr/pretty"
)

var spec = &charm.Spec{
	Name:  "compile",
	Usage: "compile [ options ] query",
	Short: "parse a query for inspection and debugging",
	Long: `
This command parses a query and emits the resulting abstract syntax
tree (AST) as JSON.

The "-C" option causes the output to be shown as query text in canonical
form instead of the AST.  Canonical text parses to the same AST as the
query it was formatted from.

The "-pretty" option shows the AST as Go values, which is helpful when
working on the compiler.
`,
	New: New,
}

func init() {
	root.Spl.Add(spec)
}

type Command struct {
	*root.Command
	canon    bool
	goValues bool
	includes queryflags.Includes
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	f.BoolVar(&c.canon, "C", false, "display the AST as query text")
	f.BoolVar(&c.goValues, "pretty", false, "display the AST as Go values")
	f.Var(&c.includes, "I", "source file containing query text (may be repeated)")
	return c, nil
}

func (c *Command) Run(args []string) error {
	_, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	if len(c.includes) == 0 && len(args) == 0 {
		return errors.New("no query specified")
	}
	if len(args) > 1 {
		return errors.New("too many arguments")
	}
	var text string
	if len(args) == 1 {
		text = args[0]
	}
	q, _, err := parser.ParseQuery(text, c.includes...)
	if err != nil {
		return err
	}
	switch {
	case c.canon:
		fmt.Println(sfmt.AST(q))
	case c.goValues:
		fmt.Printf("%# v\n", pretty.Formatter(q))
	default:
		b, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(q, "", "    ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	}
	return nil
}
