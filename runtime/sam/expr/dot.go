package expr

import (
	"github.com/brimdata/spl"
	"github.com/brimdata/spl/pkg/field"
)

// DottedExpr dereferences a path into a record.  A missing intermediate
// yields a missing value.
type DottedExpr struct {
	path field.Path
}

func NewDottedExpr(path field.Path) *DottedExpr {
	return &DottedExpr{path}
}

func (d *DottedExpr) Eval(rec *spl.Record) (spl.Value, error) {
	return rec.Deref(d.path), nil
}

func (d *DottedExpr) Path() field.Path {
	return d.path
}
