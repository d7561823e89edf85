package rungen

import (
	"errors"
	"fmt"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/compiler/ast"
	"github.com/brimdata/spl/order"
	"github.com/brimdata/spl/pkg/field"
	"github.com/brimdata/spl/runtime"
	"github.com/brimdata/spl/runtime/sam/expr"
	"github.com/brimdata/spl/runtime/sam/expr/function"
	"github.com/brimdata/spl/runtime/sam/op"
	"github.com/brimdata/spl/runtime/sam/op/distribute"
	"github.com/brimdata/spl/runtime/sam/op/filter"
	"github.com/brimdata/spl/runtime/sam/op/head"
	"github.com/brimdata/spl/runtime/sam/op/makeresults"
	"github.com/brimdata/spl/runtime/sam/op/meter"
	"github.com/brimdata/spl/runtime/sam/op/rex"
	"github.com/brimdata/spl/runtime/sam/op/sort"
	"github.com/brimdata/spl/runtime/sam/op/top"
	"github.com/brimdata/spl/zbuf"
	"go.uber.org/zap"
)

// CompileError is returned for a syntactically valid query that cannot be
// run.  Pos is the offset in the query text of the offending node.
type CompileError struct {
	Msg string
	Pos int
}

func (c *CompileError) Error() string {
	return fmt.Sprintf("compile error at offset %d: %s", c.Pos, c.Msg)
}

func errorf(n ast.Node, format string, args ...any) error {
	return &CompileError{Msg: fmt.Sprintf(format, args...), Pos: n.Pos()}
}

// Builder compiles a query into a chain of pullers.  A Builder is used
// for a single run.
type Builder struct {
	rctx *runtime.Context
	conf Config
	env  *function.Env
}

// NewBuilder returns a Builder for a run in rctx.  If regexps is nil, the
// run gets a cache of its own.
func NewBuilder(rctx *runtime.Context, conf Config, regexps *function.RegexpCache) *Builder {
	if regexps == nil {
		regexps = function.MustNewRegexpCache(function.DefaultRegexpCacheSize, nil)
	}
	return &Builder{
		rctx: rctx,
		conf: conf.WithDefaults(),
		env:  &function.Env{Clock: rctx.Clock, Regexps: regexps},
	}
}

// Build compiles q into a puller reading from source.  A nil source is
// empty.  Every command is compiled before any record is pulled.
func (b *Builder) Build(q *ast.Query, source zbuf.Puller) (zbuf.Puller, error) {
	if source == nil {
		source = zbuf.NewArray(nil)
	}
	var parent zbuf.Puller = meter.New(b.rctx, source)
	for _, cmd := range q.Pipeline {
		var err error
		parent, err = b.compileCommand(parent, cmd)
		if err != nil {
			return nil, err
		}
	}
	b.rctx.Logger.Debug("pipeline compiled", zap.Int("commands", len(q.Pipeline)))
	return parent, nil
}

func (b *Builder) compileCommand(parent zbuf.Puller, cmd ast.Command) (zbuf.Puller, error) {
	switch cmd := cmd.(type) {
	case *ast.SearchCommand:
		e, err := b.compileSearch(cmd.Expr)
		if err != nil {
			return nil, err
		}
		return filter.New(parent, e), nil
	case *ast.WhereCommand:
		e, err := b.compileExpr(cmd.Expr)
		if err != nil {
			return nil, err
		}
		return filter.New(parent, e), nil
	case *ast.EvalCommand:
		return b.compileEval(parent, cmd)
	case *ast.FieldsCommand:
		return b.compileFields(parent, cmd), nil
	case *ast.StatsCommand:
		return b.compileStats(parent, cmd.Aggregations, cmd.GroupBy, false)
	case *ast.StreamStatsCommand:
		return b.compileStats(parent, cmd.Aggregations, cmd.GroupBy, true)
	case *ast.SortCommand:
		return b.compileSort(parent, cmd)
	case *ast.RexCommand:
		return b.compileRex(parent, cmd)
	case *ast.HeadCount:
		limit := head.DefaultLimit
		if cmd.Count != nil {
			n, err := b.compileCount(cmd.Count)
			if err != nil {
				return nil, err
			}
			limit = n
		}
		return head.New(parent, limit), nil
	case *ast.HeadWhile:
		e, err := b.compileExpr(cmd.Expr)
		if err != nil {
			return nil, err
		}
		return head.NewWhile(parent, e, flag(cmd.Null), flag(cmd.KeepLast)), nil
	case *ast.MakeResultsCommand:
		return b.compileMakeResults(parent, cmd)
	default:
		return nil, fmt.Errorf("unknown AST command type: %T", cmd)
	}
}

func flag(b *bool) bool {
	return b != nil && *b
}

func (b *Builder) compileCount(n *ast.Numeric) (int, error) {
	count, err := n.Int()
	if err != nil || count < 0 {
		return 0, errorf(n, "count must be a non-negative integer: %s", n.Text)
	}
	return count, nil
}

// compileEval compiles an eval command.  When parallelism is configured,
// the bindings are compiled once per distribution unit so that units
// share no evaluator state.
func (b *Builder) compileEval(parent zbuf.Puller, cmd *ast.EvalCommand) (zbuf.Puller, error) {
	build := func(parent zbuf.Puller) (zbuf.Puller, error) {
		var clauses []expr.Assignment
		for _, binding := range cmd.Bindings {
			e, err := b.compileExpr(binding.Expr)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, expr.Assignment{LHS: binding.Field.Path(), RHS: e})
		}
		return op.NewApplier(parent, expr.NewPutter(clauses).Eval), nil
	}
	if b.conf.Parallelism <= 0 {
		return build(parent)
	}
	return distribute.New(b.rctx, parent, b.conf.Parallelism, build)
}

func (b *Builder) compileFields(parent zbuf.Puller, cmd *ast.FieldsCommand) zbuf.Puller {
	var paths field.List
	for _, f := range cmd.Fields {
		paths = append(paths, f.Path())
	}
	if cmd.Remove {
		dropper := expr.NewDropper(paths)
		return op.NewApplier(parent, func(rec *spl.Record) (*spl.Record, error) {
			return dropper.Drop(rec), nil
		})
	}
	cutter := expr.NewCutter(paths)
	return op.NewApplier(parent, func(rec *spl.Record) (*spl.Record, error) {
		return cutter.Cut(rec), nil
	})
}

func (b *Builder) compileSort(parent zbuf.Puller, cmd *ast.SortCommand) (zbuf.Puller, error) {
	var exprs []expr.SortExpr
	for _, f := range cmd.Fields {
		which := order.Asc
		if f.Desc {
			which = order.Desc
		}
		exprs = append(exprs, expr.NewSortExpr(f.Field.Path(), f.Comparator, which))
	}
	comparator, err := expr.NewComparator(exprs...)
	if err != nil {
		for _, f := range cmd.Fields {
			if f.Comparator == "ip" && errors.Is(err, expr.ErrIPComparator) {
				return nil, errorf(f, "%s", err)
			}
		}
		return nil, errorf(cmd, "%s", err)
	}
	limit := b.conf.SortLimit
	if cmd.Count != nil {
		if limit, err = b.compileCount(cmd.Count); err != nil {
			return nil, err
		}
	}
	if limit <= 0 {
		return sort.New(parent, comparator), nil
	}
	return top.New(parent, limit, comparator), nil
}

func (b *Builder) compileRex(parent zbuf.Puller, cmd *ast.RexCommand) (zbuf.Puller, error) {
	source := field.Path{rex.DefaultField}
	if cmd.Field != nil {
		source = cmd.Field.Path()
	}
	switch cmd.Mode {
	case "sed":
		sed, err := rex.ParseSed(cmd.Regex.Value)
		if err != nil {
			return nil, errorf(cmd.Regex, "rex: %s", err)
		}
		return op.NewApplier(parent, rex.NewSubstituter(source, sed).Apply), nil
	case "":
		re, err := b.env.Regexps.Compile(cmd.Regex.Value)
		if err != nil {
			return nil, errorf(cmd.Regex, "rex: %s", err)
		}
		return op.NewApplier(parent, rex.NewExtractor(source, re).Apply), nil
	default:
		return nil, errorf(cmd, "rex: unknown mode %q", cmd.Mode)
	}
}

func (b *Builder) compileMakeResults(parent zbuf.Puller, cmd *ast.MakeResultsCommand) (zbuf.Puller, error) {
	if (cmd.Format == "") != (cmd.Data == nil) {
		return nil, errorf(cmd, "makeresults: format and data must be given together")
	}
	count := 1
	if cmd.Count != nil {
		n, err := b.compileCount(cmd.Count)
		if err != nil {
			return nil, err
		}
		count = n
	}
	if cmd.Data == nil {
		return makeresults.New(b.rctx, parent, count, nil), nil
	}
	recs, err := makeresults.ParseData(cmd.Format, cmd.Data.Value)
	if err != nil {
		return nil, errorf(cmd.Data, "%s", err)
	}
	if recs == nil {
		recs = []*spl.Record{}
	}
	return makeresults.New(b.rctx, parent, count, recs), nil
}
