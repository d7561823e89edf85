package agg

import "github.com/brimdata/spl"

// Mode reports the most frequent value.  Values are distinguished by their
// JSON form so 1 and "1" are different values.  When a later value reaches
// the same frequency as the current mode, the current mode is kept.
type Mode struct {
	counts map[string]int
	max    int
	mode   spl.Value
}

var _ Function = (*Mode)(nil)

func NewMode() *Mode {
	return &Mode{counts: make(map[string]int)}
}

func (m *Mode) Consume(val spl.Value) {
	if val.IsNil() {
		return
	}
	key := val.String()
	n := m.counts[key] + 1
	m.counts[key] = n
	if n > m.max {
		m.max = n
		m.mode = val.Copy()
	}
}

func (m *Mode) Result() spl.Value {
	return m.mode
}
