// Package rex implements the rex command, which extracts the named groups
// of a regular expression into fields or rewrites a field with a sed-style
// substitution.
package rex

import (
	"github.com/brimdata/spl"
	"github.com/brimdata/spl/pkg/field"
	"github.com/grafana/regexp"
)

// DefaultField is the field rex reads when none is given.
const DefaultField = "_raw"

// Extractor sets a field for each named group of re that participates in
// a match against the source field.  Records without the field, or that
// do not match, pass through unchanged.
type Extractor struct {
	source field.Path
	re     *regexp.Regexp
	names  []string
}

func NewExtractor(source field.Path, re *regexp.Regexp) *Extractor {
	return &Extractor{
		source: source,
		re:     re,
		names:  re.SubexpNames(),
	}
}

func (e *Extractor) Apply(rec *spl.Record) (*spl.Record, error) {
	val := rec.Deref(e.source)
	if val.IsNil() {
		return rec, nil
	}
	s := val.AsString()
	m := e.re.FindStringSubmatchIndex(s)
	if m == nil {
		return rec, nil
	}
	out := rec.Copy()
	for k, name := range e.names {
		if k == 0 || name == "" || m[2*k] < 0 {
			continue
		}
		out.Put(name, spl.NewString(s[m[2*k]:m[2*k+1]]))
	}
	return out, nil
}

// Substituter rewrites the source field with a sed substitution.
type Substituter struct {
	source field.Path
	sed    *Sed
}

func NewSubstituter(source field.Path, sed *Sed) *Substituter {
	return &Substituter{source: source, sed: sed}
}

func (s *Substituter) Apply(rec *spl.Record) (*spl.Record, error) {
	val := rec.Deref(s.source)
	if val.IsNil() {
		return rec, nil
	}
	out := rec.Copy()
	out.Set(s.source, spl.NewString(s.sed.Replace(val.AsString())))
	return out, nil
}
