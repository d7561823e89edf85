package function

import (
	"math/rand/v2"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/pkg/anymath"
	"github.com/brimdata/spl/runtime/sam/expr/coerce"
)

// Round rounds a number half away from zero to the number of decimal
// places given by the optional second argument.  Integers are returned
// unchanged.
type Round struct{}

func (*Round) Call(args []spl.Value) (spl.Value, error) {
	val := args[0]
	if val.IsNil() {
		return spl.Null, nil
	}
	num, ok := coerce.ToNumber(val)
	if !ok {
		return spl.Missing, wrongType("round", "not a number: %s", val)
	}
	places := 0
	if len(args) == 2 {
		p, ok := coerce.ToNumber(args[1])
		if !ok || p.Kind() != spl.KindInt {
			return spl.Missing, wrongType("round", "integer places required: %s", args[1])
		}
		places = int(p.BigInt().Int64())
	}
	if num.Kind() == spl.KindInt {
		return num, nil
	}
	return spl.NewFloat(anymath.Round(num.Float(), places)), nil
}

// Random returns a pseudo-random integer in [0, 2^31).
type Random struct{}

func (*Random) Call([]spl.Value) (spl.Value, error) {
	return spl.NewInt(int64(rand.Int32())), nil
}
