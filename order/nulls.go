package order

// Nulls represents the position of null and missing values in an
// ordering of values.
type Nulls bool

const (
	NullsLast  Nulls = false
	NullsFirst Nulls = true
)

// Compare orders a value against another when either of them is null.
// It reports whether it decided the order and the result.
func (n Nulls) Compare(aNull, bNull bool) (int, bool) {
	switch {
	case aNull && bNull:
		return 0, true
	case aNull:
		if n == NullsFirst {
			return -1, true
		}
		return 1, true
	case bNull:
		if n == NullsFirst {
			return 1, true
		}
		return -1, true
	}
	return 0, false
}
