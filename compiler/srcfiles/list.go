package srcfiles

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// List is the concatenation of zero or more include files and a query.
// Offsets reported by the parser and compiler are relative to Text.
type List struct {
	Text  string
	Files []File
}

func (l *List) FileOf(pos int) File {
	i := sort.Search(len(l.Files), func(i int) bool { return l.Files[i].start > pos }) - 1
	if i < 0 {
		i = 0
	}
	return l.Files[i]
}

// Concat reads in the indicated files and concatenates their content with
// newlines appending the final query text.
func Concat(filenames []string, query string) (*List, error) {
	var b strings.Builder
	var files []File
	for _, f := range filenames {
		bb, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		files = append(files, newFile(f, b.Len(), bb))
		b.Write(bb)
		b.WriteByte('\n')
	}
	// Empty string is the unnamed query text while the included files all
	// have names.
	files = append(files, newFile("", b.Len(), []byte(query)))
	b.WriteString(query)
	return &List{Text: b.String(), Files: files}, nil
}

// Describe renders msg along with the source line containing pos and a
// marker pointing at the offending column.
func (l *List) Describe(msg string, pos int) string {
	if pos < 0 || pos > len(l.Text) {
		return msg
	}
	file := l.FileOf(pos)
	start := file.Position(pos)
	var b strings.Builder
	b.WriteString(msg)
	if file.Name != "" {
		fmt.Fprintf(&b, " in %s", file.Name)
	}
	line := file.LineOfPos(l.Text, pos)
	fmt.Fprintf(&b, " at line %d, column %d:\n%s\n", start.Line, start.Column, line)
	formatPointError(&b, start)
	return b.String()
}

func formatPointError(b *strings.Builder, start Position) {
	col := start.Column - 1
	for k := range col {
		if k >= col-4 && k != col-1 {
			b.WriteByte('=')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteString("^ ===")
}
