package function

import "github.com/brimdata/spl"

// IsNull is true for null and missing values.
type IsNull struct{}

func (*IsNull) Call(args []spl.Value) (spl.Value, error) {
	return spl.NewBool(args[0].IsNil()), nil
}

// IsNum is true for numbers.  Strings that look like numbers are not
// numbers.
type IsNum struct{}

func (*IsNum) Call(args []spl.Value) (spl.Value, error) {
	return spl.NewBool(args[0].IsNumber()), nil
}
