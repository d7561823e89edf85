package root

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/brimdata/spl/compiler"
	"github.com/brimdata/spl/compiler/parser"
	"github.com/brimdata/spl/compiler/sfmt"
	"github.com/brimdata/spl/pkg/repl"
	"go.uber.org/zap"
)

// shell runs each line read by the REPL as a query over the input files.
type shell struct {
	ctx    context.Context
	cmd    *Command
	logger *zap.Logger
	comp   *compiler.Compiler
	paths  []string
	fields []string
}

func (c *Command) runShell(ctx context.Context, logger *zap.Logger, comp *compiler.Compiler, paths []string) error {
	for _, path := range paths {
		if path == "-" {
			return fmt.Errorf("standard input cannot be read with -repl")
		}
	}
	return repl.Run(&shell{
		ctx:    ctx,
		cmd:    c,
		logger: logger,
		comp:   comp,
		paths:  paths,
	})
}

func (s *shell) Prompt() string {
	return "spl> "
}

func (s *shell) Consume(line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false
	case "exit", "quit":
		return true
	}
	if s.ctx.Err() != nil {
		return true
	}
	res, err := parser.Parse(line)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	s.fields = mergeFields(s.fields, res.Fields)
	if s.cmd.canon {
		fmt.Println(sfmt.AST(res.Query))
	}
	if err := s.cmd.runQuery(s.ctx, s.logger, s.comp, res.Query, s.paths); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return false
}

// Complete offers completions for the end of line.  Field names seen in
// earlier queries are offered along with those of the partial query.
func (s *shell) Complete(line string) []string {
	res, _ := parser.Parse(line, parser.WithCompletions(len(line)), parser.WithFields(s.fields...))
	if res == nil {
		return nil
	}
	var out []string
	for _, c := range res.Completions {
		if c.Start <= len(line) {
			out = append(out, line[:c.Start]+c.Label)
		}
	}
	return out
}

func mergeFields(known, more []string) []string {
	for _, f := range more {
		if !slices.Contains(known, f) {
			known = append(known, f)
		}
	}
	return known
}
