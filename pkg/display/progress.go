package display

import (
	"fmt"
	"io"
	"time"

	"github.com/brimdata/spl/runtime"
	"github.com/paulbellamy/ratecounter"
)

// Progress displays the counters of a running query along with the rate
// at which records are read.
type Progress struct {
	progress func() runtime.Progress
	rate     *ratecounter.RateCounter
	last     int64
}

func NewProgress(progress func() runtime.Progress) *Progress {
	return &Progress{
		progress: progress,
		rate:     ratecounter.NewRateCounter(time.Second),
	}
}

func (p *Progress) Display(w io.Writer) bool {
	cur := p.progress()
	p.rate.Incr(cur.RecordsRead - p.last)
	p.last = cur.RecordsRead
	fmt.Fprintf(w, "read %d records (%d/s), emitted %d\n", cur.RecordsRead, p.rate.Rate(), cur.RecordsEmitted)
	return true
}
