package spl

import (
	"slices"
	"strconv"

	"github.com/brimdata/spl/pkg/field"
)

type Field struct {
	Name  string
	Value Value
}

func NewField(name string, val Value) Field {
	return Field{name, val}
}

// Record is a string-keyed map of Values that preserves the order in
// which keys were first inserted.
type Record struct {
	fields []Field
}

func NewRecord(fields ...Field) *Record {
	r := &Record{}
	for _, f := range fields {
		r.Put(f.Name, f.Value)
	}
	return r
}

func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// Fields returns the fields of r in insertion order.  The slice is owned by r.
func (r *Record) Fields() []Field {
	if r == nil {
		return nil
	}
	return r.fields
}

func (r *Record) indexOf(name string) int {
	if r == nil {
		return -1
	}
	return slices.IndexFunc(r.fields, func(f Field) bool { return f.Name == name })
}

func (r *Record) Get(name string) (Value, bool) {
	if k := r.indexOf(name); k >= 0 {
		return r.fields[k].Value, true
	}
	return Missing, false
}

// Put sets the top-level field name to val, replacing any existing value
// in place.  Putting a missing value removes the field.
func (r *Record) Put(name string, val Value) {
	k := r.indexOf(name)
	if val.IsMissing() {
		if k >= 0 {
			r.fields = slices.Delete(r.fields, k, k+1)
		}
		return
	}
	if k >= 0 {
		r.fields[k].Value = val
		return
	}
	r.fields = append(r.fields, Field{name, val})
}

func (r *Record) Remove(name string) bool {
	k := r.indexOf(name)
	if k < 0 {
		return false
	}
	r.fields = slices.Delete(r.fields, k, k+1)
	return true
}

// Deref returns the value at path.  Any missing intermediate, or an
// intermediate that is neither a record nor an array indexed by an
// integer, results in Missing.
func (r *Record) Deref(path field.Path) Value {
	if len(path) == 0 {
		return NewRecordValue(r)
	}
	val, ok := r.Get(path[0])
	if !ok {
		return Missing
	}
	for _, name := range path[1:] {
		switch val.kind {
		case KindRecord:
			val, _ = val.r.Get(name)
		case KindArray:
			k, err := strconv.Atoi(name)
			if err != nil || k < 0 || k >= len(val.a) {
				return Missing
			}
			val = val.a[k]
		default:
			return Missing
		}
		if val.IsMissing() {
			return Missing
		}
	}
	return val
}

// Set writes val at path, creating intermediate records as needed and
// replacing any intermediate that is not a container.
func (r *Record) Set(path field.Path, val Value) {
	if len(path) == 0 {
		return
	}
	if len(path) == 1 {
		r.Put(path[0], val)
		return
	}
	next, _ := r.Get(path[0])
	switch next.kind {
	case KindRecord:
		next.r.Set(path[1:], val)
	case KindArray:
		if k, err := strconv.Atoi(path[1]); err == nil && k >= 0 && k < len(next.a) {
			if len(path) == 2 {
				next.a[k] = val
				return
			}
			elem := next.a[k]
			if elem.kind != KindRecord {
				elem = NewRecordValue(&Record{})
				next.a[k] = elem
			}
			elem.r.Set(path[2:], val)
			return
		}
		fallthrough
	default:
		if val.IsMissing() {
			return
		}
		child := &Record{}
		child.Set(path[1:], val)
		r.Put(path[0], NewRecordValue(child))
	}
}

// Delete removes the leaf at path and reports whether it existed.
// Intermediate records are left in place even if they become empty.
func (r *Record) Delete(path field.Path) bool {
	switch len(path) {
	case 0:
		return false
	case 1:
		return r.Remove(path[0])
	}
	next, _ := r.Get(path[0])
	if next.kind != KindRecord {
		return false
	}
	return next.r.Delete(path[1:])
}

// Copy returns a deep copy of r.
func (r *Record) Copy() *Record {
	if r == nil {
		return nil
	}
	out := &Record{fields: make([]Field, len(r.fields))}
	for k, f := range r.fields {
		out.fields[k] = Field{f.Name, f.Value.Copy()}
	}
	return out
}

// Walk calls visit for each leaf (non-container) value in r in
// depth-first order and stops when visit returns false.
func (r *Record) Walk(visit func(Value) bool) bool {
	for _, f := range r.Fields() {
		if !walkValue(f.Value, visit) {
			return false
		}
	}
	return true
}

func walkValue(val Value, visit func(Value) bool) bool {
	switch val.kind {
	case KindRecord:
		return val.r.Walk(visit)
	case KindArray:
		for _, elem := range val.a {
			if !walkValue(elem, visit) {
				return false
			}
		}
		return true
	}
	return visit(val)
}

func (r *Record) String() string {
	return NewRecordValue(r).String()
}
