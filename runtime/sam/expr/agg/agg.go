// Package agg implements the streaming accumulators behind the stats and
// streamstats commands.
package agg

import (
	"errors"
	"fmt"

	"github.com/brimdata/spl"
)

var (
	ErrNoSuchFunction = errors.New("no such aggregate function")
	ErrFieldRequired  = errors.New("a field argument is required")
	ErrBadPercentile  = errors.New("percentile must be between 0 and 100")
)

// Function is a streaming accumulator.  Consume is called with each value
// of the aggregated field.  Result may be called at any time and returns
// the aggregate of the values consumed so far or Missing when there is no
// result.
type Function interface {
	Consume(spl.Value)
	Result() spl.Value
}

// Pattern creates a new, empty accumulator.
type Pattern func() Function

const (
	DefaultPercentileThreshold = 10_000
	DefaultCompression         = 10_000
)

type Config struct {
	// PercentileThreshold is the number of values perc retains exactly
	// before switching to a t-digest.
	PercentileThreshold int
	// Compression is the t-digest compression parameter.
	Compression float64
}

func (c Config) withDefaults() Config {
	if c.PercentileThreshold <= 0 {
		c.PercentileThreshold = DefaultPercentileThreshold
	}
	if c.Compression <= 0 {
		c.Compression = DefaultCompression
	}
	return c
}

// Names lists the aggregate function names in the order they are offered
// as completions.
var Names = []string{
	"avg", "count", "dc", "distinct", "distinct_count", "estdc", "exactperc",
	"first", "last", "max", "mean", "median", "min", "mode", "perc", "range",
	"stdev", "stdevp", "sum", "var", "varp",
}

// NewPattern returns a Pattern for the aggregate function op.  pct is the
// percentile for perc and exactperc and is ignored otherwise.
func NewPattern(op string, hasarg bool, pct *float64, cfg Config) (Pattern, error) {
	if !hasarg && op != "count" {
		return nil, fmt.Errorf("%s: %w", op, ErrFieldRequired)
	}
	cfg = cfg.withDefaults()
	var pattern Pattern
	switch op {
	case "count":
		pattern = func() Function {
			var c Count
			return &c
		}
	case "sum":
		pattern = func() Function { return newMathReducer(reduceSum) }
	case "avg", "mean":
		pattern = func() Function { return &Avg{} }
	case "min":
		pattern = func() Function { return newMathReducer(reduceMin) }
	case "max":
		pattern = func() Function { return newMathReducer(reduceMax) }
	case "range":
		pattern = func() Function { return &Range{} }
	case "mode":
		pattern = func() Function { return NewMode() }
	case "median":
		pattern = func() Function { return &Median{} }
	case "var":
		pattern = func() Function { return &Variance{} }
	case "varp":
		pattern = func() Function { return &Variance{population: true} }
	case "stdev":
		pattern = func() Function { return &Variance{stdev: true} }
	case "stdevp":
		pattern = func() Function { return &Variance{stdev: true, population: true} }
	case "distinct", "dc", "distinct_count":
		pattern = func() Function { return NewDistinct() }
	case "estdc":
		pattern = func() Function { return NewDCount() }
	case "first":
		pattern = func() Function { return &First{} }
	case "last":
		pattern = func() Function { return &Last{} }
	case "perc", "exactperc":
		if pct == nil {
			return nil, fmt.Errorf("%s: %w", op, ErrBadPercentile)
		}
		p := *pct
		if p < 0 || p > 100 {
			return nil, fmt.Errorf("%s%g: %w", op, p, ErrBadPercentile)
		}
		threshold := cfg.PercentileThreshold
		if op == "exactperc" {
			threshold = -1
		}
		pattern = func() Function { return NewPercentile(p, threshold, cfg.Compression) }
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoSuchFunction, op)
	}
	return pattern, nil
}
