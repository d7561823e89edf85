package order

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Which bool

const (
	Asc  Which = false
	Desc Which = true
)

func Parse(s string) (Which, error) {
	switch strings.ToLower(s) {
	case "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return false, fmt.Errorf("unknown order: %s", s)
	}
}

func (w Which) String() string {
	if w == Desc {
		return "desc"
	}
	return "asc"
}

// Apply returns cmp with its sign flipped for descending order.
func (w Which) Apply(cmp int) int {
	if w == Desc {
		return -cmp
	}
	return cmp
}

func (w Which) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.String())
}

func (w *Which) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "asc":
		*w = Asc
	case "desc":
		*w = Desc
	default:
		return fmt.Errorf("unknown order: %s", s)
	}
	return nil
}
