package sfmt

import (
	"fmt"
	"strings"
)

type formatter struct {
	strings.Builder
	tab    int
	indent int
}

func (f *formatter) write(s string, args ...any) {
	if len(args) == 0 {
		f.WriteString(s)
		return
	}
	fmt.Fprintf(&f.Builder, s, args...)
}

func (f *formatter) writeTab() {
	f.WriteString(strings.Repeat(" ", f.indent*f.tab))
}

func quote(s string, q byte) string {
	qs := string(q)
	return qs + strings.ReplaceAll(s, qs, `\`+qs) + qs
}
