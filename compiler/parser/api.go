package parser

import (
	"fmt"

	"github.com/brimdata/spl/compiler/ast"
	"github.com/brimdata/spl/compiler/srcfiles"
)

// SyntaxError is returned for query text that cannot be parsed.  Offset
// is the position in the source text the parser had reached.
type SyntaxError struct {
	Msg    string
	Offset int

	files *srcfiles.List
}

func (e *SyntaxError) Error() string {
	if e.files != nil {
		return e.files.Describe("syntax error: "+e.Msg, e.Offset)
	}
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Msg)
}

// Result holds a parsed query along with the tokens and completions
// collected while parsing it.
type Result struct {
	Query       *ast.Query
	Tokens      []Token
	Completions []Completion
	// Fields lists the field names seen in the query in order of first
	// appearance together with any given by WithFields.
	Fields []string
}

type options struct {
	target int
	fields []string
}

type Option func(*options)

// WithCompletions requests completion candidates for the text ending at
// offset.
func WithCompletions(offset int) Option {
	return func(o *options) {
		o.target = offset
	}
}

// WithFields seeds the field names offered as completions.
func WithFields(names ...string) Option {
	return func(o *options) {
		o.fields = append(o.fields, names...)
	}
}

// Parse parses src into a query.  When completions are requested, a
// SyntaxError is returned along with a Result carrying the tokens and
// completions gathered up to the error.
func Parse(src string, opts ...Option) (*Result, error) {
	o := options{target: -1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.target > len(src) {
		o.target = len(src)
	}
	p := newParser(src, o.target, o.fields)
	q, err := p.query()
	res := &Result{
		Query:       q,
		Tokens:      p.tokens,
		Completions: p.completions,
		Fields:      p.fields,
	}
	if err != nil {
		res.Query = nil
		return res, err
	}
	return res, nil
}

// ParseQuery parses a query text and an optional set of include files and
// tracks include file names and line numbers for error reporting.
func ParseQuery(query string, filenames ...string) (*ast.Query, *srcfiles.List, error) {
	files, err := srcfiles.Concat(filenames, query)
	if err != nil {
		return nil, nil, err
	}
	res, err := Parse(files.Text)
	if err != nil {
		if serr, ok := err.(*SyntaxError); ok {
			serr.files = files
		}
		return nil, nil, err
	}
	return res.Query, files, nil
}
