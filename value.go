package spl

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

type Kind uint8

const (
	// KindMissing is the kind of the zero Value and represents the
	// absence of a value, e.g., a reference to a field that doesn't exist.
	KindMissing Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindRecord
)

var kindNames = [...]string{
	KindMissing: "missing",
	KindNull:    "null",
	KindBool:    "bool",
	KindInt:     "int",
	KindFloat:   "float",
	KindString:  "string",
	KindArray:   "array",
	KindRecord:  "record",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Value is a dynamically typed value held in a record.  Integers have
// arbitrary precision and are never mutated once a Value is constructed,
// so Values may be copied freely.  Containers (arrays and records) are
// shared by copies of a Value; use Copy before modifying one.
type Value struct {
	kind Kind
	b    bool
	i    *big.Int
	f    float64
	s    string
	a    []Value
	r    *Record
}

var (
	Missing = Value{}
	Null    = Value{kind: KindNull}
	True    = Value{kind: KindBool, b: true}
	False   = Value{kind: KindBool}
)

func NewBool(b bool) Value {
	if b {
		return True
	}
	return False
}

func NewInt(i int64) Value {
	return Value{kind: KindInt, i: big.NewInt(i)}
}

// NewBigInt returns an integer Value that takes ownership of i.
func NewBigInt(i *big.Int) Value {
	return Value{kind: KindInt, i: i}
}

func NewFloat(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

func NewString(s string) Value {
	return Value{kind: KindString, s: s}
}

func NewArray(vals []Value) Value {
	return Value{kind: KindArray, a: vals}
}

func NewRecordValue(r *Record) Value {
	return Value{kind: KindRecord, r: r}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsMissing() bool { return v.kind == KindMissing }

func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNil is true for both null and missing values.
func (v Value) IsNil() bool { return v.kind <= KindNull }

func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindFloat }

func (v Value) Bool() bool { return v.b }

// BigInt returns the integer held by v.  The result must not be modified.
func (v Value) BigInt() *big.Int { return v.i }

func (v Value) Float() float64 { return v.f }

func (v Value) Str() string { return v.s }

func (v Value) Array() []Value { return v.a }

func (v Value) Record() *Record { return v.r }

// AsFloat returns v as a float64 if v is a number.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		f, _ := new(big.Float).SetInt(v.i).Float64()
		return f, true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// Truthy implements boolean coercion: missing, null, false, zero, NaN,
// and the empty string are false; everything else is true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindMissing, KindNull:
		return false
	case KindBool:
		return v.b
	case KindInt:
		return v.i.Sign() != 0
	case KindFloat:
		return v.f != 0 && !math.IsNaN(v.f)
	case KindString:
		return v.s != ""
	}
	return true
}

// AsString converts v to the text used for string concatenation and
// substring matching.
func (v Value) AsString() string {
	switch v.kind {
	case KindMissing:
		return ""
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return v.i.String()
	case KindFloat:
		return FormatFloat(v.f)
	case KindString:
		return v.s
	case KindArray:
		elems := make([]string, 0, len(v.a))
		for _, e := range v.a {
			elems = append(elems, e.AsString())
		}
		return strings.Join(elems, ",")
	}
	return v.String()
}

// String returns the JSON text of v.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%s: %s>", v.kind, err)
	}
	return string(b)
}

// Copy returns a deep copy of v.
func (v Value) Copy() Value {
	switch v.kind {
	case KindArray:
		if v.a == nil {
			return v
		}
		out := make([]Value, len(v.a))
		for k := range v.a {
			out[k] = v.a[k].Copy()
		}
		return NewArray(out)
	case KindRecord:
		return NewRecordValue(v.r.Copy())
	}
	return v
}

// FormatFloat formats f in the shortest form that round trips, without
// an exponent for values of ordinary magnitude.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f != 0 && (math.Abs(f) >= 1e21 || math.Abs(f) < 1e-6):
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
