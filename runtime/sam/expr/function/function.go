package function

import (
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/brimdata/spl"
	"github.com/brimdata/spl/runtime/sam/expr"
)

var (
	ErrBadArgument    = errors.New("bad argument")
	ErrNoSuchFunction = errors.New("no such function")
	ErrTooFewArgs     = errors.New("too few arguments")
	ErrTooManyArgs    = errors.New("too many arguments")
)

// Names lists every built-in function, including case, coalesce, and if,
// which are compiled directly to lazy evaluators rather than through New.
var Names = []string{
	"case", "coalesce", "false", "if", "isnull", "isnum", "len",
	"levenshtein", "lower", "match", "now", "null", "random", "replace",
	"round", "strftime", "tonumber", "tostring", "true", "upper",
}

// Env carries what the built-ins need from the query's runtime.
type Env struct {
	Clock   clock.Clock
	Regexps *RegexpCache
}

func (e *Env) clock() clock.Clock {
	if e == nil || e.Clock == nil {
		return clock.New()
	}
	return e.Clock
}

func (e *Env) regexps() *RegexpCache {
	if e == nil || e.Regexps == nil {
		return defaultRegexps
	}
	return e.Regexps
}

func New(env *Env, name string, narg int) (expr.Function, error) {
	argmin := 1
	argmax := 1
	var f expr.Function
	switch name {
	case "false":
		argmin, argmax = 0, 0
		f = constant(spl.False)
	case "true":
		argmin, argmax = 0, 0
		f = constant(spl.True)
	case "null":
		argmin, argmax = 0, 0
		f = constant(spl.Null)
	case "isnull":
		f = &IsNull{}
	case "isnum":
		f = &IsNum{}
	case "len":
		f = &Len{}
	case "levenshtein":
		argmin, argmax = 2, 2
		f = &Levenshtein{}
	case "lower":
		f = newToLower()
	case "upper":
		f = newToUpper()
	case "match":
		argmin, argmax = 2, 2
		f = &Match{cache: env.regexps()}
	case "replace":
		argmin, argmax = 3, 3
		f = &Replace{cache: env.regexps()}
	case "now":
		argmin, argmax = 0, 0
		f = &Now{clock: env.clock()}
	case "random":
		argmin, argmax = 0, 0
		f = &Random{}
	case "round":
		argmax = 2
		f = &Round{}
	case "strftime":
		argmin, argmax = 2, 2
		f = &Strftime{}
	case "tonumber":
		argmax = 2
		f = &ToNumber{}
	case "tostring":
		argmax = 2
		f = &ToString{}
	default:
		return nil, ErrNoSuchFunction
	}
	if err := CheckArgCount(narg, argmin, argmax); err != nil {
		return nil, err
	}
	return f, nil
}

// CheckArgCount checks narg against argmin and argmax.  An argmax of -1
// means there is no upper bound.
func CheckArgCount(narg int, argmin int, argmax int) error {
	if argmin != -1 && narg < argmin {
		return ErrTooFewArgs
	}
	if argmax != -1 && narg > argmax {
		return ErrTooManyArgs
	}
	return nil
}

func wrongType(name string, format string, args ...any) error {
	return &expr.RuntimeTypeError{Op: name, Msg: fmt.Sprintf(format, args...)}
}

type constant spl.Value

func (c constant) Call([]spl.Value) (spl.Value, error) {
	return spl.Value(c), nil
}
