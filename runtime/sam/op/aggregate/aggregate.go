// Package aggregate implements the stats command.
package aggregate

import (
	"strings"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/pkg/field"
	"github.com/brimdata/spl/runtime/sam/expr"
	"github.com/brimdata/spl/runtime/sam/expr/agg"
	"github.com/brimdata/spl/zbuf"
)

// Term is an aggregation and the name of the output field holding its
// result.
type Term struct {
	Name field.Path
	Agg  *expr.Aggregator
}

// Keyer computes the group key of a record from its by fields.
type Keyer struct {
	paths field.List
	b     strings.Builder
}

func NewKeyer(paths field.List) *Keyer {
	return &Keyer{paths: paths}
}

// Key returns the serialized tuple of the by values of rec along with the
// values themselves.  A record missing any by field has no key.
func (k *Keyer) Key(rec *spl.Record) (string, []spl.Value, bool) {
	if len(k.paths) == 0 {
		return "", nil, true
	}
	k.b.Reset()
	vals := make([]spl.Value, 0, len(k.paths))
	for _, path := range k.paths {
		val := rec.Deref(path)
		if val.IsMissing() {
			return "", nil, false
		}
		vals = append(vals, val)
		// JSON text cannot contain a raw newline so it separates values
		// unambiguously.
		k.b.WriteString(val.String())
		k.b.WriteByte('\n')
	}
	return k.b.String(), vals, true
}

// Paths returns the by fields.
func (k *Keyer) Paths() field.List {
	return k.paths
}

type group struct {
	keys  []spl.Value
	funcs []agg.Function
}

// Op consumes its input and at end of stream emits one record per group
// in the order the groups were first seen.  Each record holds the by
// values and the result of each aggregation.  With no by fields, a single
// record is emitted even when there is no input.
type Op struct {
	parent zbuf.Puller
	terms  []Term
	keyer  *Keyer

	groups map[string]*group
	order  []*group
	eos    bool
}

func New(parent zbuf.Puller, terms []Term, by field.List) *Op {
	return &Op{
		parent: parent,
		terms:  terms,
		keyer:  NewKeyer(by),
		groups: make(map[string]*group),
	}
}

func (o *Op) Pull(done bool) (zbuf.Batch, error) {
	if o.eos {
		o.eos = false
		return nil, nil
	}
	if done {
		o.reset()
		_, err := o.parent.Pull(true)
		return nil, err
	}
	for {
		batch, err := o.parent.Pull(false)
		if err != nil {
			o.reset()
			return nil, err
		}
		if batch == nil {
			out := o.results()
			o.reset()
			if len(out) == 0 {
				return nil, nil
			}
			o.eos = true
			return zbuf.NewArray(out), nil
		}
		for _, rec := range batch.Records() {
			if err := o.consume(rec); err != nil {
				o.reset()
				o.parent.Pull(true)
				return nil, err
			}
		}
	}
}

func (o *Op) consume(rec *spl.Record) error {
	key, keys, ok := o.keyer.Key(rec)
	if !ok {
		return nil
	}
	g, ok := o.groups[key]
	if !ok {
		g = o.newGroup(keys)
		o.groups[key] = g
	}
	for k, term := range o.terms {
		if err := term.Agg.Apply(g.funcs[k], rec); err != nil {
			return err
		}
	}
	return nil
}

func (o *Op) newGroup(keys []spl.Value) *group {
	g := &group{keys: keys, funcs: make([]agg.Function, 0, len(o.terms))}
	for _, term := range o.terms {
		g.funcs = append(g.funcs, term.Agg.NewFunction())
	}
	for k := range g.keys {
		g.keys[k] = g.keys[k].Copy()
	}
	o.order = append(o.order, g)
	return g
}

func (o *Op) results() []*spl.Record {
	if len(o.order) == 0 && len(o.keyer.Paths()) == 0 {
		o.newGroup(nil)
	}
	out := make([]*spl.Record, 0, len(o.order))
	for _, g := range o.order {
		rec := spl.NewRecord()
		for k, path := range o.keyer.Paths() {
			rec.Set(path, g.keys[k])
		}
		for k, term := range o.terms {
			if val := g.funcs[k].Result(); !val.IsMissing() {
				rec.Set(term.Name, val)
			}
		}
		if rec.Len() > 0 {
			out = append(out, rec)
		}
	}
	return out
}

func (o *Op) reset() {
	o.groups = make(map[string]*group)
	o.order = nil
}
