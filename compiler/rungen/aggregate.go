package rungen

import (
	"errors"

	"github.com/brimdata/spl/compiler/ast"
	"github.com/brimdata/spl/compiler/parser"
	"github.com/brimdata/spl/pkg/field"
	"github.com/brimdata/spl/pkg/names"
	"github.com/brimdata/spl/runtime/sam/expr"
	"github.com/brimdata/spl/runtime/sam/expr/agg"
	"github.com/brimdata/spl/runtime/sam/op/aggregate"
	"github.com/brimdata/spl/runtime/sam/op/streamstats"
	"github.com/brimdata/spl/zbuf"
)

func (b *Builder) compileStats(parent zbuf.Puller, aggs []*ast.AggTerm, groupBy []*ast.FieldName, running bool) (zbuf.Puller, error) {
	terms, err := b.compileAggTerms(aggs)
	if err != nil {
		return nil, err
	}
	var by field.List
	for _, f := range groupBy {
		by = append(by, f.Path())
	}
	if running {
		return streamstats.New(parent, terms, by), nil
	}
	return aggregate.New(parent, terms, by), nil
}

func (b *Builder) compileAggTerms(aggs []*ast.AggTerm) ([]aggregate.Term, error) {
	terms := make([]aggregate.Term, 0, len(aggs))
	for _, a := range aggs {
		m, err := b.compileAgg(a)
		if err != nil {
			return nil, err
		}
		// A default name like "avg(x.y)" is one field while an "as"
		// name is a path like any other assignment target.
		name := field.New(parser.AggFieldName(a))
		if a.As != nil {
			name = a.As.Path()
		}
		terms = append(terms, aggregate.Term{Name: name, Agg: m})
	}
	return terms, nil
}

func (b *Builder) compileAgg(a *ast.AggTerm) (*expr.Aggregator, error) {
	var arg expr.Evaluator
	if a.Field != nil {
		arg = expr.NewDottedExpr(a.Field.Path())
	}
	m, err := expr.NewAggregator(a.Func, arg, a.Percentile, b.conf.aggConfig())
	switch {
	case errors.Is(err, agg.ErrNoSuchFunction):
		return nil, errorf(a, "unknown aggregation %q%s", a.Func, names.Hint(a.Func, agg.Names))
	case err != nil:
		return nil, errorf(a, "%s", err)
	}
	return m, nil
}
