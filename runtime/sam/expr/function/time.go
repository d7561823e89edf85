package function

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/brimdata/spl"
	"github.com/brimdata/spl/runtime/sam/expr/coerce"
	"github.com/lestrrat-go/strftime"
)

// Now returns the current time as seconds since the Unix epoch.
type Now struct {
	clock clock.Clock
}

func (n *Now) Call([]spl.Value) (spl.Value, error) {
	return spl.NewInt(n.clock.Now().Unix()), nil
}

// Strftime formats a time given in seconds since the Unix epoch.  Times
// are formatted in UTC.
type Strftime struct {
	formatter *strftime.Strftime
}

func (s *Strftime) Call(args []spl.Value) (spl.Value, error) {
	timeArg, formatArg := args[0], args[1]
	if formatArg.Kind() != spl.KindString {
		return spl.Missing, wrongType("strftime", "string value required for format arg: %s", formatArg)
	}
	format := formatArg.Str()
	if s.formatter == nil || s.formatter.Pattern() != format {
		var err error
		if s.formatter, err = strftime.New(format); err != nil {
			return spl.Missing, wrongType("strftime", "%s", err)
		}
	}
	if timeArg.IsNil() {
		return spl.Null, nil
	}
	secs, ok := coerce.ToFloat(timeArg)
	if !ok {
		return spl.Missing, wrongType("strftime", "time value required: %s", timeArg)
	}
	t := time.Unix(0, int64(secs*1e9)).UTC()
	return spl.NewString(s.formatter.FormatString(t)), nil
}
