package parser

// TokenKind classifies a token for highlighting and completion.
type TokenKind string

const (
	TokenCommand    TokenKind = "command"
	TokenComma      TokenKind = "comma"
	TokenField      TokenKind = "field"
	TokenFunction   TokenKind = "function"
	TokenKeyword    TokenKind = "keyword"
	TokenNumber     TokenKind = "number"
	TokenOperator   TokenKind = "operator"
	TokenParameter  TokenKind = "parameter"
	TokenParen      TokenKind = "paren"
	TokenPipe       TokenKind = "pipe"
	TokenRegex      TokenKind = "regex"
	TokenString     TokenKind = "string"
	TokenWhitespace TokenKind = "whitespace"
)

// Token is a classified, half-open span [Start, End) of the source text.
// Tokens are recorded for tooling only.  The parser never reads them back.
type Token struct {
	Kind  TokenKind `json:"kind"`
	Start int       `json:"start"`
	End   int       `json:"end"`
}

// Completion is a candidate for replacing the source text in [Start, End)
// when the completion offset is End.
type Completion struct {
	Label string    `json:"label"`
	Kind  TokenKind `json:"kind"`
	Start int       `json:"start"`
	End   int       `json:"end"`
}

type completionKey struct {
	label      string
	start, end int
}

// aggNames and funcNames are offered as completions only.  Whether a
// name is implemented is decided by the compiler.
var aggNames = []string{
	"avg", "count", "dc", "distinct", "distinct_count", "estdc",
	"exactperc", "first", "last", "max", "mean", "median", "min",
	"mode", "perc", "range", "stdev", "stdevp", "sum", "var", "varp",
}

var funcNames = []string{
	"case", "coalesce", "false", "if", "isnull", "isnum", "len",
	"levenshtein", "lower", "match", "now", "null", "random", "replace",
	"round", "strftime", "tonumber", "tostring", "true", "upper",
}
