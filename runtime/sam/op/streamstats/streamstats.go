// Package streamstats implements the streamstats command, which adds the
// running value of each aggregation to every record.
package streamstats

import (
	"github.com/brimdata/spl"
	"github.com/brimdata/spl/pkg/field"
	"github.com/brimdata/spl/runtime/sam/expr/agg"
	"github.com/brimdata/spl/runtime/sam/op/aggregate"
	"github.com/brimdata/spl/zbuf"
)

type Op struct {
	parent zbuf.Puller
	terms  []aggregate.Term
	keyer  *aggregate.Keyer
	groups map[string][]agg.Function
}

func New(parent zbuf.Puller, terms []aggregate.Term, by field.List) *Op {
	return &Op{
		parent: parent,
		terms:  terms,
		keyer:  aggregate.NewKeyer(by),
		groups: make(map[string][]agg.Function),
	}
}

func (o *Op) Pull(done bool) (zbuf.Batch, error) {
	batch, err := o.parent.Pull(done)
	if batch == nil || err != nil {
		o.groups = make(map[string][]agg.Function)
		return nil, err
	}
	recs := batch.Records()
	out := make([]*spl.Record, 0, len(recs))
	for _, rec := range recs {
		rec, err := o.apply(rec)
		if err != nil {
			o.parent.Pull(true)
			return nil, err
		}
		out = append(out, rec)
	}
	return zbuf.NewArray(out), nil
}

// apply updates the accumulators of the record's group and returns a copy
// of the record carrying their current results.  A record missing a by
// field passes through unchanged.
func (o *Op) apply(rec *spl.Record) (*spl.Record, error) {
	key, _, ok := o.keyer.Key(rec)
	if !ok {
		return rec, nil
	}
	funcs, ok := o.groups[key]
	if !ok {
		funcs = make([]agg.Function, 0, len(o.terms))
		for _, term := range o.terms {
			funcs = append(funcs, term.Agg.NewFunction())
		}
		o.groups[key] = funcs
	}
	out := rec.Copy()
	for k, term := range o.terms {
		if err := term.Agg.Apply(funcs[k], rec); err != nil {
			return nil, err
		}
		if val := funcs[k].Result(); !val.IsMissing() {
			out.Set(term.Name, val.Copy())
		}
	}
	return out, nil
}
