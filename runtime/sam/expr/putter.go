package expr

import (
	"github.com/brimdata/spl"
	"github.com/brimdata/spl/pkg/field"
)

type Assignment struct {
	LHS field.Path
	RHS Evaluator
}

// Putter applies the assignments of an eval command to a copy of a record.
// Assignments apply in order so each one sees the writes of those before
// it.  Intermediate records along a path are created as needed.
type Putter struct {
	clauses []Assignment
}

func NewPutter(clauses []Assignment) *Putter {
	return &Putter{clauses}
}

func (p *Putter) Eval(rec *spl.Record) (*spl.Record, error) {
	out := rec.Copy()
	for _, c := range p.clauses {
		val, err := c.RHS.Eval(out)
		if err != nil {
			return nil, err
		}
		out.Set(c.LHS, val.Copy())
	}
	return out, nil
}
