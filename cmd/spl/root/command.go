package root

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brimdata/spl/cli"
	"github.com/brimdata/spl/cli/inputflags"
	"github.com/brimdata/spl/cli/logflags"
	"github.com/brimdata/spl/cli/outputflags"
	"github.com/brimdata/spl/cli/queryflags"
	"github.com/brimdata/spl/cli/runtimeflags"
	"github.com/brimdata/spl/compiler"
	"github.com/brimdata/spl/compiler/ast"
	"github.com/brimdata/spl/compiler/parser"
	"github.com/brimdata/spl/compiler/sfmt"
	"github.com/brimdata/spl/pkg/charm"
	"github.com/brimdata/spl/pkg/display"
	"github.com/brimdata/spl/sio"
	"github.com/brimdata/spl/zbuf"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var Spl = &charm.Spec{
	Name:        "spl",
	Usage:       "spl [options] <command> | spl [options] query [file ...]",
	Short:       "search and analyze records with SPL queries",
	HiddenFlags: []string{"cpuprofile", "memprofile"},
	Long: `
The "spl" command runs a query over records read from files or standard
input and writes the results to standard output.  A query is a pipeline of
commands separated by "|".  A query that does not begin with "|" begins
with an implied search, e.g.,

  spl 'error | stats count by host' app.json

Input may be newline-delimited JSON, CSV, TSV, or plain text lines, which
are read as records holding a single "_raw" field.  The format of each file
is detected automatically unless given with -i.  A file named "-" is
standard input, which is also read when no files are given and standard
input is not a terminal.  Gzip-compressed input is decompressed.

Output is newline-delimited JSON unless -f selects csv, tsv, or line.

The query text may include source files using -I.  These are concatenated
together along with the command-line query text in the order given and any
syntax error is reported against the included file in which it occurred.

Compiler settings such as the number of distribution units used by eval
may be given in a YAML file with -config.  Flags override settings read
from the file.

With -repl, queries are read interactively and each is run over the input
files in turn.
`,
	New:          New,
	InternalLeaf: true,
}

type Command struct {
	cli.Flags
	LogFlags     logflags.Flags
	canon        bool
	interactive  bool
	progress     bool
	inputFlags   inputflags.Flags
	outputFlags  outputflags.Flags
	queryFlags   queryflags.Flags
	runtimeFlags runtimeflags.Flags
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{}
	c.SetFlags(f)
	c.LogFlags.SetFlags(f)
	return c, nil
}

func (c *Command) SetLeafFlags(f *flag.FlagSet) {
	c.outputFlags.SetFlags(f)
	c.inputFlags.SetFlags(f)
	c.queryFlags.SetFlags(f)
	c.runtimeFlags.SetFlags(f)
	f.BoolVar(&c.canon, "C", false, "display parsed query in canonical form")
	f.BoolVar(&c.interactive, "repl", false, "read queries interactively")
	f.BoolVar(&c.progress, "progress", false, "display progress on stderr when it is a terminal")
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.inputFlags, &c.outputFlags, &c.runtimeFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) == 0 && len(c.queryFlags.Includes) == 0 && !c.interactive {
		return charm.NeedHelp
	}
	logger, err := c.LogFlags.Open()
	if err != nil {
		return err
	}
	defer logger.Sync()
	comp, err := compiler.New(c.runtimeFlags.Config(), c.runtimeFlags.Registry())
	if err != nil {
		return err
	}
	if c.interactive {
		err = c.runShell(ctx, logger, comp, args)
	} else {
		err = c.runOnce(ctx, logger, comp, args)
	}
	if metricsErr := c.runtimeFlags.PrintMetrics(os.Stderr); err == nil {
		err = metricsErr
	}
	return err
}

func (c *Command) runOnce(ctx context.Context, logger *zap.Logger, comp *compiler.Compiler, args []string) error {
	text, paths, err := c.queryFlags.ParseSourcesAndInputs(args)
	if err != nil {
		return err
	}
	q, _, err := parser.ParseQuery(text, c.queryFlags.Includes...)
	if err != nil {
		return err
	}
	if c.canon {
		fmt.Println(sfmt.AST(q))
		return nil
	}
	if len(paths) == 0 && !term.IsTerminal(int(os.Stdin.Fd())) {
		paths = []string{"-"}
	}
	return c.runQuery(ctx, logger, comp, q, paths)
}

func (c *Command) runQuery(ctx context.Context, logger *zap.Logger, comp *compiler.Compiler, q *ast.Query, paths []string) error {
	readers, err := c.inputFlags.Open(ctx, paths)
	if err != nil {
		return err
	}
	defer sio.CloseReaders(readers)
	writer, err := c.outputFlags.Open()
	if err != nil {
		return err
	}
	query, err := comp.CompileAST(c.runtimeFlags.NewContext(ctx, logger), q, readers)
	if err != nil {
		writer.Close()
		return err
	}
	defer query.Close()
	var d *display.Display
	if c.progress && term.IsTerminal(int(os.Stderr.Fd())) {
		d = display.New(os.Stderr, display.NewProgress(query.Progress), 250*time.Millisecond)
		go d.Run()
	}
	err = zbuf.CopyPuller(writer, query)
	if closeErr := writer.Close(); err == nil {
		err = closeErr
	}
	if d != nil {
		d.Close()
	}
	c.queryFlags.PrintStats(query.Progress())
	return err
}
