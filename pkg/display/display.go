// Package display periodically redraws a status area of a terminal.
package display

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

type Displayer interface {
	// Display writes the current status to w and returns false when there
	// is nothing more to display.
	Display(w io.Writer) bool
}

type Display struct {
	live     *uilive.Writer
	interval time.Duration
	updater  Displayer
	buffer   bytes.Buffer
	close    chan struct{}
	once     sync.Once
	done     sync.WaitGroup
}

// New returns a Display that redraws updater's status on out every
// interval once Run is called.
func New(out io.Writer, updater Displayer, interval time.Duration) *Display {
	live := uilive.New()
	live.Out = out
	return &Display{
		live:     live,
		interval: interval,
		updater:  updater,
		close:    make(chan struct{}),
	}
}

func (d *Display) update() bool {
	d.buffer.Reset()
	cont := d.updater.Display(&d.buffer)
	// Ignore any errors.
	_, _ = io.Copy(d.live, &d.buffer)
	_ = d.live.Flush()
	return cont
}

// Run redraws until Close is called or the Displayer is done.
func (d *Display) Run() {
	d.done.Add(1)
	defer d.done.Done()
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for d.update() {
		select {
		case <-d.close:
			return
		case <-ticker.C:
		}
	}
}

// Bypass returns a writer whose output appears above the status area.
func (d *Display) Bypass() io.Writer {
	return d.live.Bypass()
}

// Close stops Run and draws the final status.
func (d *Display) Close() {
	d.once.Do(func() { close(d.close) })
	d.done.Wait()
	d.update()
}
