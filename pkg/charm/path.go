package charm

import (
	"errors"
	"flag"
	"fmt"
	"strings"
)

// instance is a command that has been created with its flags registered
// but not yet run.
type instance struct {
	spec    *Spec
	command Command
	flags   *flag.FlagSet
}

func newInstance(parent Command, spec *Spec, leaf bool) (*instance, error) {
	if spec.New == nil {
		return nil, fmt.Errorf("command %q: New function is nil", spec.Name)
	}
	flags := flag.NewFlagSet(spec.Name, flag.ContinueOnError)
	flags.Usage = func() {}
	cmd, err := spec.New(parent, flags)
	if err != nil {
		return nil, err
	}
	if leaf && spec.InternalLeaf {
		if l, ok := cmd.(InternalLeaf); ok {
			l.SetLeafFlags(flags)
		}
	}
	return &instance{spec, cmd, flags}, nil
}

type path []*instance

// parse builds the path of commands named by args.  When leaf is true,
// internal leaf flags are registered and ErrNotLeaf is returned if args go
// on to name a subcommand, in which case the caller parses again without
// them.
func parse(spec *Spec, args []string, parent Command, leaf bool) (path, []string, bool, error) {
	var p path
	var showHidden bool
	for {
		inst, err := newInstance(parent, spec, leaf)
		if err != nil {
			return nil, nil, false, err
		}
		help := inst.flags.Bool("h", false, "display help")
		hidden := inst.flags.Bool("hidden", false, "show hidden options")
		if err := inst.flags.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return p, nil, showHidden, NeedHelp
			}
			return nil, nil, false, err
		}
		p = append(p, inst)
		showHidden = showHidden || *hidden
		if *help || *hidden {
			return p, nil, showHidden, NeedHelp
		}
		rest := inst.flags.Args()
		if len(rest) == 0 {
			return p, rest, showHidden, nil
		}
		child := spec.lookupSub(rest[0])
		if child == nil {
			return p, rest, showHidden, nil
		}
		if leaf && spec.InternalLeaf {
			return nil, nil, false, ErrNotLeaf
		}
		spec, parent, args = child, inst.command, rest[1:]
	}
}

// parseHelp finds the command named by the non-flag words of args.
func parseHelp(spec *Spec, args []string) (path, error) {
	var names []string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			names = append(names, arg)
		}
	}
	var p path
	var parent Command
	for {
		var child *Spec
		if len(names) > 0 {
			child = spec.lookupSub(names[0])
			names = names[1:]
		}
		inst, err := newInstance(parent, spec, child == nil)
		if err != nil {
			return nil, err
		}
		p = append(p, inst)
		if child == nil {
			return p, nil
		}
		spec, parent = child, inst.command
	}
}

func (p path) run(args []string) error {
	err := p.last().command.Run(args)
	if errors.Is(err, ErrNoRun) {
		if len(args) == 0 {
			err = fmt.Errorf("%q: requires a sub-command: %s", p.pathname(), p.subCommands())
		} else {
			err = fmt.Errorf("%q: no such sub-command %q: options are: %s", p.pathname(), args[0], p.subCommands())
		}
	}
	return err
}

func (p path) last() *instance {
	return p[len(p)-1]
}

func (p path) pathname() string {
	names := make([]string, 0, len(p))
	for _, inst := range p {
		names = append(names, inst.spec.Name)
	}
	return strings.Join(names, " ")
}

func (p path) subCommands() string {
	var names []string
	for _, spec := range p.last().spec.children {
		names = append(names, spec.Name)
	}
	return strings.Join(names, " ")
}
