package function

import (
	"strings"

	"github.com/brimdata/spl"
	"github.com/grafana/regexp"
	"github.com/hashicorp/golang-lru/arc/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const DefaultRegexpCacheSize = 256

var defaultRegexps = MustNewRegexpCache(DefaultRegexpCacheSize, nil)

// RegexpCache holds compiled regular expressions keyed by their source so
// that match and replace with patterns computed per record do not
// recompile them for every call.
type RegexpCache struct {
	arc    *arc.ARCCache[string, *regexp.Regexp]
	hits   prometheus.Counter
	misses prometheus.Counter
}

func NewRegexpCache(size int, registerer prometheus.Registerer) (*RegexpCache, error) {
	cache, err := arc.NewARC[string, *regexp.Regexp](size)
	if err != nil {
		return nil, err
	}
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	factory := promauto.With(registerer)
	return &RegexpCache{
		arc: cache,
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "spl_regexp_cache_hits_total",
			Help: "Number of hits for a compiled regular expression lookup.",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "spl_regexp_cache_misses_total",
			Help: "Number of misses for a compiled regular expression lookup.",
		}),
	}, nil
}

func MustNewRegexpCache(size int, registerer prometheus.Registerer) *RegexpCache {
	c, err := NewRegexpCache(size, registerer)
	if err != nil {
		panic(err)
	}
	return c
}

// Compile returns the compiled form of pattern.  Named groups may be
// written (?<name>...) as well as (?P<name>...).
func (r *RegexpCache) Compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := r.arc.Get(pattern); ok {
		r.hits.Inc()
		return re, nil
	}
	r.misses.Inc()
	re, err := regexp.Compile(TranslatePattern(pattern))
	if err != nil {
		return nil, err
	}
	r.arc.Add(pattern, re)
	return re, nil
}

// TranslatePattern rewrites (?<name> groups as (?P<name>.
func TranslatePattern(pattern string) string {
	var b strings.Builder
	for k := 0; k < len(pattern); k++ {
		c := pattern[k]
		if c == '\\' && k+1 < len(pattern) {
			b.WriteByte(c)
			b.WriteByte(pattern[k+1])
			k++
			continue
		}
		if strings.HasPrefix(pattern[k:], "(?<") && !strings.HasPrefix(pattern[k:], "(?<=") && !strings.HasPrefix(pattern[k:], "(?<!") {
			b.WriteString("(?P<")
			k += 2
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ExpandReplacement converts a replacement written with \N backreferences
// and & for the whole match into the $-template form of Regexp.Expand.
// A literal $ is escaped.
func ExpandReplacement(repl string) string {
	var b strings.Builder
	for k := 0; k < len(repl); k++ {
		c := repl[k]
		switch {
		case c == '\\' && k+1 < len(repl):
			next := repl[k+1]
			k++
			if next >= '0' && next <= '9' {
				b.WriteString("${")
				b.WriteByte(next)
				b.WriteString("}")
			} else if next == '$' {
				b.WriteString("$$")
			} else {
				b.WriteByte(next)
			}
		case c == '&':
			b.WriteString("${0}")
		case c == '$':
			b.WriteString("$$")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Match reports whether the regular expression given as the second
// argument matches anywhere in the first.
type Match struct {
	cache *RegexpCache
}

func (m *Match) Call(args []spl.Value) (spl.Value, error) {
	s, pattern := args[0], args[1]
	if s.IsNil() {
		return spl.False, nil
	}
	if pattern.Kind() != spl.KindString {
		return spl.Missing, wrongType("match", "string pattern required: %s", pattern)
	}
	re, err := m.cache.Compile(pattern.Str())
	if err != nil {
		return spl.Missing, wrongType("match", "invalid regular expression: %s", err)
	}
	return spl.NewBool(re.MatchString(s.AsString())), nil
}

// Replace substitutes every match of a regular expression in its first
// argument with the replacement, which may refer to groups as \N.
type Replace struct {
	cache *RegexpCache
}

func (r *Replace) Call(args []spl.Value) (spl.Value, error) {
	s, pattern, repl := args[0], args[1], args[2]
	if s.IsNil() {
		return spl.Null, nil
	}
	if pattern.Kind() != spl.KindString {
		return spl.Missing, wrongType("replace", "string pattern required: %s", pattern)
	}
	re, err := r.cache.Compile(pattern.Str())
	if err != nil {
		return spl.Missing, wrongType("replace", "invalid regular expression: %s", err)
	}
	return spl.NewString(re.ReplaceAllString(s.AsString(), ExpandReplacement(repl.AsString()))), nil
}
