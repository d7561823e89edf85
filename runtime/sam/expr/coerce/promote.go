package coerce

import (
	"errors"

	"github.com/brimdata/spl"
)

var ErrIncompatibleTypes = errors.New("incompatible types")

// Promote returns the kind that arithmetic on a and b is carried out in:
// KindInt when both are integers, KindFloat when either is a float.
func Promote(a, b spl.Value) (spl.Kind, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return spl.KindMissing, ErrIncompatibleTypes
	}
	if a.Kind() == spl.KindFloat || b.Kind() == spl.KindFloat {
		return spl.KindFloat, nil
	}
	return spl.KindInt, nil
}
