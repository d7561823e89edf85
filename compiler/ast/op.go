// Package ast declares the syntax tree of an SPL query.  Positions are
// byte offsets into the query text, which includes any include files
// placed ahead of the query proper.
package ast

// Node is implemented by every node of the tree.
type Node interface {
	Pos() int
	End() int
}

// Loc is the span of a node from its first byte up to but not including
// Last.
type Loc struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

func NewLoc(first, last int) Loc {
	return Loc{First: first, Last: last}
}

func (l Loc) Pos() int { return l.First }

func (l Loc) End() int { return l.Last }

// Command is the interface implemented by all pipeline command nodes.
// A command takes a sequence of records in, operates upon them, and
// produces a sequence of records as output.
type Command interface {
	Node
	CommandAST()
}

// CommandNames lists the command keywords.  A query may begin with any
// of them without a pipe.
var CommandNames = []string{
	"eval",
	"fields",
	"head",
	"makeresults",
	"rex",
	"search",
	"sort",
	"stats",
	"streamstats",
	"where",
}

// Query is a parsed query: an optional leading search followed by
// the commands separated by "|", in order.
type Query struct {
	Kind     string    `json:"kind" unpack:""`
	Pipeline []Command `json:"pipeline"`
	Loc      `json:"loc"`
}

type (
	// SearchCommand filters records with a search expression.  Implied
	// is true for a leading search written without the search keyword.
	SearchCommand struct {
		Kind    string `json:"kind" unpack:""`
		Expr    Expr   `json:"expr"`
		Implied bool   `json:"implied"`
		Loc     `json:"loc"`
	}
	WhereCommand struct {
		Kind string `json:"kind" unpack:""`
		Expr Expr   `json:"expr"`
		Loc  `json:"loc"`
	}
	EvalCommand struct {
		Kind     string    `json:"kind" unpack:""`
		Bindings []Binding `json:"bindings"`
		Loc      `json:"loc"`
	}
	// FieldsCommand retains the named fields or, if Remove is true,
	// deletes them.
	FieldsCommand struct {
		Kind   string       `json:"kind" unpack:""`
		Fields []*FieldName `json:"fields"`
		Remove bool         `json:"remove"`
		Loc    `json:"loc"`
	}
	StatsCommand struct {
		Kind         string       `json:"kind" unpack:""`
		Aggregations []*AggTerm   `json:"aggregations"`
		GroupBy      []*FieldName `json:"group_by"`
		Loc          `json:"loc"`
	}
	StreamStatsCommand struct {
		Kind         string       `json:"kind" unpack:""`
		Aggregations []*AggTerm   `json:"aggregations"`
		GroupBy      []*FieldName `json:"group_by"`
		Loc          `json:"loc"`
	}
	// SortCommand sorts by Fields.  Count is the optional result limit
	// and Limit is true when it was written as limit=N.
	SortCommand struct {
		Kind   string       `json:"kind" unpack:""`
		Count  *Numeric     `json:"count"`
		Limit  bool         `json:"limit"`
		Fields []*SortField `json:"fields"`
		Loc    `json:"loc"`
	}
	RexCommand struct {
		Kind  string     `json:"kind" unpack:""`
		Field *FieldName `json:"field"`
		Mode  string     `json:"mode"`
		Regex *String    `json:"regex"`
		Loc   `json:"loc"`
	}
	// HeadCount is the count-limited variant of the head command.
	// Limit is true when the count was written as limit=N.
	HeadCount struct {
		Kind  string   `json:"kind" unpack:""`
		Count *Numeric `json:"count"`
		Limit bool     `json:"limit"`
		Loc   `json:"loc"`
	}
	// HeadWhile is the expression-limited variant of the head command.
	// Null and KeepLast are nil when not given.
	HeadWhile struct {
		Kind     string `json:"kind" unpack:""`
		Expr     Expr   `json:"expr"`
		Null     *bool  `json:"null"`
		KeepLast *bool  `json:"keeplast"`
		Loc      `json:"loc"`
	}
	MakeResultsCommand struct {
		Kind   string   `json:"kind" unpack:""`
		Count  *Numeric `json:"count"`
		Format string   `json:"format"`
		Data   *String  `json:"data"`
		Loc    `json:"loc"`
	}
)

func (*SearchCommand) CommandAST()      {}
func (*WhereCommand) CommandAST()       {}
func (*EvalCommand) CommandAST()        {}
func (*FieldsCommand) CommandAST()      {}
func (*StatsCommand) CommandAST()       {}
func (*StreamStatsCommand) CommandAST() {}
func (*SortCommand) CommandAST()        {}
func (*RexCommand) CommandAST()         {}
func (*HeadCount) CommandAST()          {}
func (*HeadWhile) CommandAST()          {}
func (*MakeResultsCommand) CommandAST() {}

// Binding is one "field = expr" clause of an eval command.
type Binding struct {
	Field *FieldName `json:"field"`
	Expr  Expr       `json:"expr"`
	Loc   `json:"loc"`
}

// AggTerm is one aggregation of a stats or streamstats command.  Field is
// nil only for a bare count.  Percentile is set only for the perc and
// exactperc functions and is parsed from the function name, e.g., perc90.
type AggTerm struct {
	Kind       string     `json:"kind" unpack:""`
	Func       string     `json:"func"`
	Field      *FieldName `json:"field"`
	As         *FieldName `json:"as"`
	Percentile *float64   `json:"percentile,omitempty"`
	Loc        `json:"loc"`
}

// SortField is one key of a sort command.  Comparator is one of "auto",
// "num", "str", or "ip", or empty when no comparator was written.
type SortField struct {
	Kind       string     `json:"kind" unpack:""`
	Field      *FieldName `json:"field"`
	Comparator string     `json:"comparator"`
	Desc       bool       `json:"desc"`
	Loc        `json:"loc"`
}
