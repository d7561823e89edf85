// Package charm builds a command-line interface from a tree of command
// specs.  Each command on the path named by the arguments contributes its
// own flags, and the last one runs.
package charm

import (
	"errors"
	"flag"
)

var (
	// NeedHelp is returned by a command's Run method to have help for the
	// command displayed in place of an error.
	NeedHelp   = errors.New("help")
	ErrNoRun   = errors.New("no run method")
	ErrNotLeaf = errors.New("no internal leaf found")
)

type Constructor func(parent Command, flags *flag.FlagSet) (Command, error)

type Command interface {
	Run(args []string) error
}

// InternalLeaf is implemented by a command that takes arguments of its
// own, like a query, and also has subcommands.  SetLeafFlags registers the
// flags used only when the command itself runs.
type InternalLeaf interface {
	SetLeafFlags(*flag.FlagSet)
}

type Spec struct {
	Name  string
	Usage string
	Short string
	Long  string
	New   Constructor
	// Hidden omits the command from help unless -hidden is given.
	Hidden bool
	// HiddenFlags names flags omitted from help unless -hidden is given.
	HiddenFlags []string
	// InternalLeaf must be set for SetLeafFlags to be called.  A
	// subcommand embedding its parent's command struct inherits the
	// method but not this field.
	InternalLeaf bool

	parent   *Spec
	children []*Spec
}

func (s *Spec) Add(child *Spec) {
	child.parent = s
	s.children = append(s.children, child)
}

func (s *Spec) lookupSub(name string) *Spec {
	for _, child := range s.children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// Exec runs the command named by args.  Arguments that do not name a
// subcommand go to the Run method of the last command found.  When that
// command is an internal leaf, its leaf flags are tried first.
func (s *Spec) Exec(args []string) error {
	p, rest, showHidden, err := parse(s, args, nil, true)
	if errors.Is(err, ErrNotLeaf) {
		p, rest, showHidden, err = parse(s, args, nil, false)
	}
	if err == nil {
		err = p.run(rest)
	}
	if !errors.Is(err, NeedHelp) {
		return err
	}
	p, err = parseHelp(s, args)
	if err != nil {
		return err
	}
	displayHelp(p, showHidden)
	return nil
}

// NoRun serves as the Run method of a command that only groups
// subcommands.
func NoRun(args []string) error {
	if len(args) == 0 {
		return NeedHelp
	}
	return ErrNoRun
}
