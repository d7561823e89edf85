// Package repl is a simple read-eval-print loop.  It calls the Consumer
// to do all the eval work.
package repl

import (
	"errors"
	"io"

	"github.com/peterh/liner"
)

type Consumer interface {
	// Consume handles a line of input and returns true to end the loop.
	Consume(line string) bool
	Prompt() string
}

// Completer is implemented by a Consumer that offers completions of a
// partial line.
type Completer interface {
	Complete(line string) []string
}

// Run executes the REPL until the Consumer asks to stop or input ends.
func Run(c Consumer) error {
	l := liner.NewLiner()
	defer l.Close()
	l.SetMultiLineMode(true)
	l.SetCtrlCAborts(true)
	if completer, ok := c.(Completer); ok {
		l.SetCompleter(completer.Complete)
	}
	for {
		line, err := l.Prompt(c.Prompt())
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case err != nil:
			return err
		}
		if c.Consume(line) {
			return nil
		}
		l.AppendHistory(line)
	}
}
