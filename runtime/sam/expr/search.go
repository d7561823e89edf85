package expr

import (
	"strings"

	"github.com/brimdata/spl"
	"github.com/brimdata/spl/pkg/field"
	"github.com/brimdata/spl/runtime/sam/expr/coerce"
	"github.com/grafana/regexp"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var fold = cases.Fold()

// Fold returns the case-folded, NFC-normalized form of s used for
// case-insensitive comparison of search terms and values.
func Fold(s string) string {
	return fold.String(norm.NFC.String(s))
}

// SearchTerm matches a record when any leaf value of the record contains
// the term as a whole word, without regard to case.  A "*" in the term
// matches any run of characters.
type SearchTerm struct {
	re *regexp.Regexp
}

func NewSearchTerm(term string) (*SearchTerm, error) {
	re, err := regexp.Compile(termPattern(term, false))
	if err != nil {
		return nil, err
	}
	return &SearchTerm{re}, nil
}

// termPattern translates a search term to a case-insensitive regular
// expression.  A term is bounded by non-word characters on either side
// unless it begins or ends with a non-word character or a wildcard.  When
// whole is true, the pattern must match the entire value.
func termPattern(term string, whole bool) string {
	term = norm.NFC.String(term)
	var b strings.Builder
	b.WriteString("(?i)")
	if whole {
		b.WriteString("^")
	} else if term != "" && isWordByte(term[0]) {
		b.WriteString(`(?:^|\W)`)
	}
	for k, part := range strings.Split(term, "*") {
		if k > 0 {
			b.WriteString(".*")
		}
		b.WriteString(regexp.QuoteMeta(part))
	}
	if whole {
		b.WriteString("$")
	} else if term != "" && isWordByte(term[len(term)-1]) {
		b.WriteString(`(?:$|\W)`)
	}
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (s *SearchTerm) Eval(rec *spl.Record) (spl.Value, error) {
	matched := !rec.Walk(func(val spl.Value) bool {
		return !s.re.MatchString(norm.NFC.String(val.AsString()))
	})
	return spl.NewBool(matched), nil
}

// SearchCompare compares the value of one field with a search literal.
// Equality is case-insensitive and a string literal containing "*"
// matches as a wildcard pattern.  Ordered comparisons are numeric when both
// sides look like numbers and lexicographic otherwise.  A record without
// the field never matches.
type SearchCompare struct {
	path    field.Path
	op      string
	literal spl.Value
	folded  string
	re      *regexp.Regexp
}

func NewSearchCompare(path field.Path, op string, literal spl.Value) (*SearchCompare, error) {
	s := &SearchCompare{
		path:    path,
		op:      op,
		literal: literal,
		folded:  Fold(literal.AsString()),
	}
	if literal.Kind() == spl.KindString && strings.Contains(literal.Str(), "*") {
		re, err := regexp.Compile(termPattern(literal.Str(), true))
		if err != nil {
			return nil, err
		}
		s.re = re
	}
	return s, nil
}

func (s *SearchCompare) Eval(rec *spl.Record) (spl.Value, error) {
	val := rec.Deref(s.path)
	if val.IsNil() {
		return spl.False, nil
	}
	switch s.op {
	case "=", "==":
		return spl.NewBool(s.equal(val)), nil
	case "!=":
		return spl.NewBool(!s.equal(val)), nil
	}
	cmp := s.compare(val)
	var result bool
	switch s.op {
	case "<":
		result = cmp < 0
	case "<=":
		result = cmp <= 0
	case ">":
		result = cmp > 0
	case ">=":
		result = cmp >= 0
	}
	return spl.NewBool(result), nil
}

func (s *SearchCompare) equal(val spl.Value) bool {
	if s.re != nil {
		return s.re.MatchString(norm.NFC.String(val.AsString()))
	}
	if a, ok := coerce.ToNumber(val); ok {
		if b, ok := coerce.ToNumber(s.literal); ok {
			return coerce.CompareNumbers(a, b) == 0
		}
	}
	return Fold(val.AsString()) == s.folded
}

func (s *SearchCompare) compare(val spl.Value) int {
	if a, ok := coerce.ToNumber(val); ok {
		if b, ok := coerce.ToNumber(s.literal); ok {
			return coerce.CompareNumbers(a, b)
		}
	}
	return strings.Compare(val.AsString(), s.literal.AsString())
}
