package rex

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/brimdata/spl/runtime/sam/expr/function"
	"github.com/grafana/regexp"
)

var ErrSedSyntax = errors.New("sed expression must have the form s<delim>regex<delim>replacement<delim>flags")

// Sed is a parsed sed-style substitution s<d>pattern<d>replacement<d>flags.
// Flags are g to replace every match, i to ignore case, and a number N to
// replace only the Nth match.  Without flags only the first match is
// replaced.
type Sed struct {
	re       *regexp.Regexp
	template string
	global   bool
	nth      int
}

func ParseSed(s string) (*Sed, error) {
	if len(s) < 2 || s[0] != 's' {
		return nil, ErrSedSyntax
	}
	delim := s[1]
	if delim == '\\' || delim == '\n' {
		return nil, fmt.Errorf("%w: bad delimiter %q", ErrSedSyntax, delim)
	}
	parts := splitDelimited(s[2:], delim)
	if len(parts) != 3 {
		return nil, ErrSedSyntax
	}
	pattern, repl, flags := parts[0], parts[1], parts[2]
	sed := &Sed{
		template: function.ExpandReplacement(repl),
		nth:      1,
	}
	var ignoreCase bool
	for len(flags) > 0 {
		switch c := flags[0]; {
		case c == 'g':
			sed.global = true
			flags = flags[1:]
		case c == 'i':
			ignoreCase = true
			flags = flags[1:]
		case c >= '0' && c <= '9':
			end := 1
			for end < len(flags) && flags[end] >= '0' && flags[end] <= '9' {
				end++
			}
			n, err := strconv.Atoi(flags[:end])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("%w: bad occurrence %q", ErrSedSyntax, flags[:end])
			}
			sed.nth = n
			flags = flags[end:]
		default:
			return nil, fmt.Errorf("%w: unknown flag %q", ErrSedSyntax, c)
		}
	}
	pattern = function.TranslatePattern(pattern)
	if ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	sed.re = re
	return sed, nil
}

// splitDelimited splits s at unescaped occurrences of delim.  An escaped
// delimiter loses its backslash; other escapes are kept for the regular
// expression and replacement to interpret.
func splitDelimited(s string, delim byte) []string {
	var parts []string
	var b strings.Builder
	for k := 0; k < len(s); k++ {
		c := s[k]
		switch {
		case c == '\\' && k+1 < len(s):
			if s[k+1] == delim {
				b.WriteByte(delim)
			} else {
				b.WriteByte(c)
				b.WriteByte(s[k+1])
			}
			k++
		case c == delim:
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	return append(parts, b.String())
}

// Replace applies the substitution to s.
func (s *Sed) Replace(src string) string {
	matches := s.re.FindAllStringSubmatchIndex(src, -1)
	var out []byte
	last := 0
	for k, m := range matches {
		n := k + 1
		if n < s.nth || (!s.global && n > s.nth) {
			continue
		}
		out = append(out, src[last:m[0]]...)
		out = s.re.ExpandString(out, s.template, src, m)
		last = m[1]
	}
	if last == 0 && len(out) == 0 {
		return src
	}
	return string(append(out, src[last:]...))
}
