package parser

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/grafana/regexp"
)

// errNoMatch is returned by a rule that does not match at the current
// position.  It is a soft failure and the caller may try an alternative.
// Any other error returned by a rule is a hard failure that ends the parse.
var errNoMatch = errors.New("no match")

var (
	wsRE     = regexp.MustCompile(`^\s+`)
	identRE  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)
	numberRE = regexp.MustCompile(`^-?(?:\d+(?:\.\d+)?|\.\d+)(?:[eE][+-]?\d+)?`)
	quoteRE  = regexp.MustCompile(`^(?:"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*')`)
)

// mark is a saved parse position.  Restoring a mark truncates the token
// list so that a failed alternative leaves no trace.
type mark struct {
	pos    int
	ntoken int
}

type parser struct {
	src    string
	pos    int
	tokens []Token

	// target is the completion offset or -1 when no completions are wanted.
	target      int
	completions []Completion
	suggested   map[completionKey]struct{}

	fields   []string
	observed map[string]struct{}

	// farthest is the largest offset where a rule failed softly and
	// expected lists what the rules failing there were looking for.
	farthest int
	expected []string
}

func newParser(src string, target int, fields []string) *parser {
	p := &parser{
		src:       src,
		target:    target,
		suggested: make(map[completionKey]struct{}),
		observed:  make(map[string]struct{}),
	}
	for _, f := range fields {
		p.observe(f)
	}
	return p
}

func (p *parser) mark() mark {
	return mark{p.pos, len(p.tokens)}
}

func (p *parser) restore(m mark) {
	p.pos = m.pos
	p.tokens = p.tokens[:m.ntoken]
}

func (p *parser) rest() string {
	return p.src[p.pos:]
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

// emit records a token for the next n bytes and advances past them.
// Zero-length matches record nothing.
func (p *parser) emit(kind TokenKind, n int) {
	if n == 0 {
		return
	}
	p.tokens = append(p.tokens, Token{Kind: kind, Start: p.pos, End: p.pos + n})
	p.pos += n
}

// fail notes what was expected at the current position and returns
// errNoMatch.
func (p *parser) fail(what string) error {
	if p.pos > p.farthest {
		p.farthest = p.pos
		p.expected = p.expected[:0]
	}
	if p.pos == p.farthest && what != "" && !slices.Contains(p.expected, what) {
		p.expected = append(p.expected, what)
	}
	return errNoMatch
}

func (p *parser) errorf(pos int, msg string) error {
	return &SyntaxError{Msg: msg, Offset: pos}
}

// ws consumes optional whitespace.
func (p *parser) ws() {
	if loc := wsRE.FindStringIndex(p.rest()); loc != nil {
		p.emit(TokenWhitespace, loc[1])
	}
}

// literal matches s exactly.  When s ends in a word character it must not
// be followed by one so that keywords do not match identifier prefixes.
func (p *parser) literal(kind TokenKind, s string) error {
	p.suggest(kind, s)
	if !strings.HasPrefix(p.rest(), s) || (isWordChar(s[len(s)-1]) && p.wordCharAt(p.pos+len(s))) {
		return p.fail(strconv.Quote(s))
	}
	p.emit(kind, len(s))
	return nil
}

// oneOfLiterals matches the first of the candidates that matches and
// returns it.  Longer candidates sharing a prefix must be listed first.
func (p *parser) oneOfLiterals(kind TokenKind, candidates ...string) (string, error) {
	for _, s := range candidates {
		if err := p.literal(kind, s); err == nil {
			return s, nil
		}
	}
	return "", errNoMatch
}

// match matches the anchored regular expression re.
func (p *parser) match(kind TokenKind, re *regexp.Regexp, what string) (string, error) {
	loc := re.FindStringIndex(p.rest())
	if loc == nil {
		return "", p.fail(what)
	}
	text := p.src[p.pos : p.pos+loc[1]]
	p.emit(kind, loc[1])
	return text, nil
}

// quoted matches a single- or double-quoted string and returns its
// unquoted value and the quote character.
func (p *parser) quoted(kind TokenKind, quotes string) (string, byte, error) {
	if p.eof() || !strings.ContainsRune(quotes, rune(p.src[p.pos])) {
		return "", 0, p.fail("quoted string")
	}
	text, err := p.match(kind, quoteRE, "quoted string")
	if err != nil {
		if strings.ContainsRune(quotes, rune(p.src[p.pos])) {
			return "", 0, p.errorf(p.pos, "unterminated string")
		}
		return "", 0, err
	}
	q := text[0]
	return unescape(text[1:len(text)-1], q), q, nil
}

// unescape removes the backslash from escaped quote characters and leaves
// all other escapes intact so that regular expressions pass through.
func unescape(s string, quote byte) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			if s[i+1] == quote {
				b.WriteByte(quote)
			} else {
				b.WriteByte('\\')
				b.WriteByte(s[i+1])
			}
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func (p *parser) wordCharAt(pos int) bool {
	return pos < len(p.src) && isWordChar(p.src[pos])
}

func isWordChar(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// suggest offers label as a completion when the completion offset lies
// ahead of the cursor and the text typed so far is a prefix of label.
func (p *parser) suggest(kind TokenKind, label string) {
	if p.target < p.pos {
		return
	}
	if !strings.HasPrefix(label, p.src[p.pos:p.target]) {
		return
	}
	key := completionKey{label, p.pos, p.target}
	if _, ok := p.suggested[key]; ok {
		return
	}
	p.suggested[key] = struct{}{}
	p.completions = append(p.completions, Completion{
		Label: label,
		Kind:  kind,
		Start: p.pos,
		End:   p.target,
	})
}

func (p *parser) suggestAll(kind TokenKind, labels []string) {
	for _, l := range labels {
		p.suggest(kind, l)
	}
}

func (p *parser) observe(name string) {
	if _, ok := p.observed[name]; !ok {
		p.observed[name] = struct{}{}
		p.fields = append(p.fields, name)
	}
}

// attempt runs rule and restores the parse position if it fails.
func attempt[T any](p *parser, rule func() (T, error)) (T, error) {
	m := p.mark()
	v, err := rule()
	if err != nil {
		p.restore(m)
	}
	return v, err
}

// oneOf tries each rule in order and returns the result of the first one
// that matches.  A hard failure stops the search.
func oneOf[T any](p *parser, rules ...func() (T, error)) (T, error) {
	for _, rule := range rules {
		v, err := attempt(p, rule)
		if !errors.Is(err, errNoMatch) {
			return v, err
		}
	}
	var zero T
	return zero, errNoMatch
}

// optional runs rule and reports whether it matched.  A soft failure is
// not an error.
func optional[T any](p *parser, rule func() (T, error)) (T, bool, error) {
	v, err := attempt(p, rule)
	if errors.Is(err, errNoMatch) {
		return v, false, nil
	}
	return v, err == nil, err
}

// list parses one or more items separated by sep.
func list[T any](p *parser, item func() (T, error), sep func() error) ([]T, error) {
	first, err := item()
	if err != nil {
		return nil, err
	}
	items := []T{first}
	for {
		next, ok, err := optional(p, func() (T, error) {
			if err := sep(); err != nil {
				var zero T
				return zero, err
			}
			return item()
		})
		if err != nil {
			return nil, err
		}
		if !ok {
			return items, nil
		}
		items = append(items, next)
	}
}

func (p *parser) comma() error {
	p.ws()
	if err := p.literal(TokenComma, ","); err != nil {
		return err
	}
	p.ws()
	return nil
}

// commaOrSpace separates list items by a comma or by whitespace alone.
func (p *parser) commaOrSpace() error {
	start := p.pos
	p.ws()
	if err := p.literal(TokenComma, ","); err == nil {
		p.ws()
		return nil
	}
	if p.pos == start {
		return p.fail("\",\"")
	}
	return nil
}
