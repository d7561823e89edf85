package field

import (
	"slices"
	"strings"
)

// A Path is a dotted field reference into a nested record, e.g.,
// "a.b.c" is Path{"a", "b", "c"}.  A nil or empty Path refers to the
// record itself.
type Path []string

func New(name string) Path {
	return Path{name}
}

// Dotted splits s on periods.  Empty elements are preserved so that
// the round trip through String is lossless.
func Dotted(s string) Path {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

func (p Path) Leaf() string {
	return p[len(p)-1]
}

func (p Path) Equal(to Path) bool {
	return slices.Equal(p, to)
}

func (p Path) IsEmpty() bool {
	return len(p) == 0
}

func (p Path) HasPrefix(prefix Path) bool {
	return len(p) >= len(prefix) && prefix.Equal(p[:len(prefix)])
}

type List []Path

func DottedList(s string) List {
	var fields List
	for _, name := range strings.Split(s, ",") {
		fields = append(fields, Dotted(name))
	}
	return fields
}

func (l List) String() string {
	names := make([]string, 0, len(l))
	for _, f := range l {
		names = append(names, f.String())
	}
	return strings.Join(names, ",")
}

func (l List) Has(in Path) bool {
	return slices.ContainsFunc(l, in.Equal)
}
