package coerce

import (
	"math/big"
	"strings"

	"github.com/brimdata/spl"
	"golang.org/x/exp/constraints"
)

// Equal implements the equality used by the = and == operators: strings
// compare case-insensitively, integers and floats compare numerically, and
// containers compare structurally under the same rules.
func Equal(a, b spl.Value) bool {
	if a.IsNil() || b.IsNil() {
		return a.IsNil() && b.IsNil()
	}
	if a.IsNumber() && b.IsNumber() {
		return CompareNumbers(a, b) == 0
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case spl.KindBool:
		return a.Bool() == b.Bool()
	case spl.KindString:
		return strings.ToLower(a.Str()) == strings.ToLower(b.Str())
	case spl.KindArray:
		aa, ba := a.Array(), b.Array()
		if len(aa) != len(ba) {
			return false
		}
		for k := range aa {
			if !Equal(aa[k], ba[k]) {
				return false
			}
		}
		return true
	case spl.KindRecord:
		ar, br := a.Record(), b.Record()
		if ar.Len() != br.Len() {
			return false
		}
		for _, f := range ar.Fields() {
			bval, ok := br.Get(f.Name)
			if !ok || !Equal(f.Value, bval) {
				return false
			}
		}
		return true
	}
	return false
}

// CompareNumbers compares two numeric values.  Integer pairs compare
// exactly; otherwise both sides are converted to float64.
func CompareNumbers(a, b spl.Value) int {
	if a.Kind() == spl.KindInt && b.Kind() == spl.KindInt {
		return a.BigInt().Cmp(b.BigInt())
	}
	af := ToNumeric[float64](a)
	bf := ToNumeric[float64](b)
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	}
	return 0
}

// ToNumeric converts a numeric value to T, truncating as needed.
// Non-numeric values convert to zero.
func ToNumeric[T constraints.Integer | constraints.Float](val spl.Value) T {
	switch val.Kind() {
	case spl.KindInt:
		if val.BigInt().IsInt64() {
			return T(val.BigInt().Int64())
		}
		f, _ := new(big.Float).SetInt(val.BigInt()).Float64()
		return T(f)
	case spl.KindFloat:
		return T(val.Float())
	}
	return 0
}

// ToNumber returns val if it is a number, or the number parsed from val if
// val is a string that looks like a number.
func ToNumber(val spl.Value) (spl.Value, bool) {
	switch val.Kind() {
	case spl.KindInt, spl.KindFloat:
		return val, true
	case spl.KindString:
		return ParseNumber(val.Str())
	}
	return spl.Missing, false
}

// ParseNumber parses s (ignoring surrounding whitespace) as an integer
// or float.
func ParseNumber(s string) (spl.Value, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !looksNumeric(s) {
		return spl.Missing, false
	}
	return spl.ParseNumber(strings.TrimPrefix(s, "+"))
}

func looksNumeric(s string) bool {
	var digits bool
	for k, c := range s {
		switch {
		case c >= '0' && c <= '9':
			digits = true
		case c == '-' || c == '+':
			if k != 0 && s[k-1] != 'e' && s[k-1] != 'E' {
				return false
			}
		case c == '.' || c == 'e' || c == 'E':
		default:
			return false
		}
	}
	return digits
}

// ToFloat returns the float64 form of a number or numeric string.
func ToFloat(val spl.Value) (float64, bool) {
	num, ok := ToNumber(val)
	if !ok {
		return 0, false
	}
	return ToNumeric[float64](num), true
}
