package anymath

import (
	"math"
	"math/big"

	"golang.org/x/exp/constraints"
)

type Float64 func(float64, float64) float64

// BigInt computes a result into z and returns z, matching the signature
// of the *big.Int arithmetic methods.
type BigInt func(z, a, b *big.Int) *big.Int

type Function struct {
	Name string
	Float64
	BigInt
	// DivLike functions fail on an integer zero divisor.
	DivLike bool
}

var Add = &Function{
	Name:    "+",
	Float64: func(a, b float64) float64 { return a + b },
	BigInt:  (*big.Int).Add,
}

var Sub = &Function{
	Name:    "-",
	Float64: func(a, b float64) float64 { return a - b },
	BigInt:  (*big.Int).Sub,
}

var Mul = &Function{
	Name:    "*",
	Float64: func(a, b float64) float64 { return a * b },
	BigInt:  (*big.Int).Mul,
}

// Div truncates toward zero for integers.
var Div = &Function{
	Name:    "/",
	Float64: func(a, b float64) float64 { return a / b },
	BigInt:  (*big.Int).Quo,
	DivLike: true,
}

// Mod takes the sign of the dividend for both integers and floats.
var Mod = &Function{
	Name:    "%",
	Float64: math.Mod,
	BigInt:  (*big.Int).Rem,
	DivLike: true,
}

var Min = &Function{
	Name:    "min",
	Float64: math.Min,
	BigInt: func(z, a, b *big.Int) *big.Int {
		if a.Cmp(b) <= 0 {
			return z.Set(a)
		}
		return z.Set(b)
	},
}

var Max = &Function{
	Name:    "max",
	Float64: math.Max,
	BigInt: func(z, a, b *big.Int) *big.Int {
		if a.Cmp(b) >= 0 {
			return z.Set(a)
		}
		return z.Set(b)
	},
}

// Round rounds f half away from zero to the given number of decimal places.
func Round(f float64, places int) float64 {
	if places <= 0 {
		return math.Round(f)
	}
	p := math.Pow10(places)
	r := math.Round(f*p) / p
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return f
	}
	return r
}

// Abs is generic over the machine number types.
func Abs[T constraints.Signed | constraints.Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}
