package function

import (
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/brimdata/spl"
	"github.com/brimdata/spl/runtime/sam/expr/coerce"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Len is the number of characters in a string, elements in an array, or
// fields in a record.  Other values are measured by their text.
type Len struct{}

func (*Len) Call(args []spl.Value) (spl.Value, error) {
	val := args[0]
	switch val.Kind() {
	case spl.KindMissing, spl.KindNull:
		return spl.Null, nil
	case spl.KindArray:
		return spl.NewInt(int64(len(val.Array()))), nil
	case spl.KindRecord:
		return spl.NewInt(int64(val.Record().Len())), nil
	}
	return spl.NewInt(int64(utf8.RuneCountInString(val.AsString()))), nil
}

type caser struct {
	name  string
	caser cases.Caser
}

func newToLower() *caser {
	return &caser{"lower", cases.Lower(language.Und)}
}

func newToUpper() *caser {
	return &caser{"upper", cases.Upper(language.Und)}
}

func (c *caser) Call(args []spl.Value) (spl.Value, error) {
	val := args[0]
	if val.IsNil() {
		return spl.Null, nil
	}
	if val.Kind() != spl.KindString {
		return spl.Missing, wrongType(c.name, "string required: %s", val)
	}
	return spl.NewString(c.caser.String(val.Str())), nil
}

type Levenshtein struct{}

func (*Levenshtein) Call(args []spl.Value) (spl.Value, error) {
	a, b := args[0], args[1]
	if a.IsNil() || b.IsNil() {
		return spl.Null, nil
	}
	return spl.NewInt(int64(levenshtein.ComputeDistance(a.AsString(), b.AsString()))), nil
}

// ToNumber parses a string as a number, optionally in the base given by
// the second argument.  A string that is not a number yields null.
type ToNumber struct{}

func (*ToNumber) Call(args []spl.Value) (spl.Value, error) {
	val := args[0]
	if len(args) == 1 || val.IsNumber() {
		if num, ok := coerce.ToNumber(val); ok {
			return num, nil
		}
		return spl.Null, nil
	}
	if val.IsNil() {
		return spl.Null, nil
	}
	base, ok := coerce.ToNumber(args[1])
	if !ok || base.Kind() != spl.KindInt {
		return spl.Missing, wrongType("tonumber", "integer base required: %s", args[1])
	}
	b := base.BigInt().Int64()
	if b < 2 || b > 36 {
		return spl.Missing, wrongType("tonumber", "base must be between 2 and 36: %d", b)
	}
	i, ok := new(big.Int).SetString(strings.TrimSpace(val.AsString()), int(b))
	if !ok {
		return spl.Null, nil
	}
	return spl.NewBigInt(i), nil
}

// ToString formats a value as text.  The optional format is "hex" for
// integers in hexadecimal or "commas" for numbers with thousands
// separators.
type ToString struct{}

func (*ToString) Call(args []spl.Value) (spl.Value, error) {
	val := args[0]
	if val.IsNil() {
		return spl.Null, nil
	}
	if len(args) == 1 {
		return spl.NewString(val.AsString()), nil
	}
	switch format := args[1].AsString(); format {
	case "hex":
		if val.Kind() != spl.KindInt {
			return spl.Missing, wrongType("tostring", "hex format requires an integer: %s", val)
		}
		return spl.NewString("0x" + val.BigInt().Text(16)), nil
	case "commas":
		if !val.IsNumber() {
			return spl.Missing, wrongType("tostring", "commas format requires a number: %s", val)
		}
		return spl.NewString(commas(val)), nil
	default:
		return spl.Missing, wrongType("tostring", "unknown format %q", format)
	}
}

// commas formats a number with thousands separators and, for floats, two
// decimal places.
func commas(val spl.Value) string {
	var s string
	if val.Kind() == spl.KindFloat {
		s = strconv.FormatFloat(val.Float(), 'f', 2, 64)
	} else {
		s = val.BigInt().String()
	}
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for k, c := range whole {
		if k > 0 && (len(whole)-k)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if frac != "" {
		b.WriteString("." + frac)
	}
	return sign + b.String()
}
