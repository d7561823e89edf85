package parser

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ruleErr[T any](rule func(*parser) (T, error)) func(*parser) error {
	return func(p *parser) error {
		_, err := rule(p)
		return err
	}
}

// Each input matches a prefix of its rule and then fails softly, so a rule
// that did not restore its position would leave tokens behind.
func TestFailedRuleLeavesNoTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rule  func(*parser) error
	}{
		{"call", "len(1 2", ruleErr((*parser).call)},
		{"group", "(1 + 2", ruleErr((*parser).group)},
		{"compare", "host !", ruleErr((*parser).compare)},
		{"binding", "x = ", ruleErr((*parser).binding)},
		{"sortField", "- ,", ruleErr((*parser).sortField)},
		{"aggTerm", "by host", ruleErr((*parser).aggTerm)},
		{"whereCommand", "where )", ruleErr((*parser).whereCommand)},
		{"evalCommand", "eval x y", ruleErr((*parser).evalCommand)},
		{"statsCommand", "stats by host", ruleErr((*parser).statsCommand)},
		{"headCommand", "head limit=x", ruleErr((*parser).headCommand)},
		{"makeResultsCommand", "makeresults count=x", ruleErr((*parser).makeResultsCommand)},
		{"leadingCommand", "stats count foo=1", ruleErr((*parser).leadingCommand)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := newParser("seed "+tc.input, -1, nil)
			p.emit(TokenField, len("seed"))
			p.ws()
			pos := p.pos
			tokens := slices.Clone(p.tokens)
			_, err := attempt(p, func() (struct{}, error) {
				return struct{}{}, tc.rule(p)
			})
			require.ErrorIs(t, err, errNoMatch)
			assert.Equal(t, pos, p.pos)
			assert.Equal(t, tokens, p.tokens)
		})
	}
}

func TestOneOfRestoresBetweenAlternatives(t *testing.T) {
	p := newParser("num(x) rest", -1, nil)
	var seen []int
	_, err := oneOf(p,
		func() (int, error) {
			p.emit(TokenKeyword, 3)
			p.emit(TokenParen, 1)
			return 0, p.fail("nothing")
		},
		func() (int, error) {
			seen = append(seen, p.pos, len(p.tokens))
			return 0, errNoMatch
		},
	)
	assert.ErrorIs(t, err, errNoMatch)
	assert.Equal(t, []int{0, 0}, seen)
	assert.Zero(t, p.pos)
	assert.Empty(t, p.tokens)
}
