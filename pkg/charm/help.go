package charm

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/kr/text"
	"golang.org/x/term"
)

const tab = "    "

var helpOut io.Writer = os.Stderr

func termWidth() int {
	if w, _, err := term.GetSize(int(os.Stderr.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func header(heading string) string {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return "\033[1m" + heading + "\033[0m"
	}
	return heading
}

func formatParagraphs(body string, width int) string {
	var chunks []string
	for _, paragraph := range strings.Split(strings.TrimSpace(body), "\n\n") {
		if strings.HasPrefix(paragraph, "  ") {
			// Indented text is an example and is left as is.
			chunks = append(chunks, strings.ReplaceAll(paragraph, "\n", "\n"+tab))
			continue
		}
		wrapped := text.Wrap(strings.Join(strings.Fields(paragraph), " "), width)
		chunks = append(chunks, strings.ReplaceAll(wrapped, "\n", "\n"+tab))
	}
	return tab + strings.Join(chunks, "\n\n"+tab)
}

func section(heading string, lines []string) {
	fmt.Fprintf(helpOut, "%s\n%s%s\n\n", header(heading), tab, strings.Join(lines, "\n"+tab))
}

func (i *instance) options(showHidden bool) []string {
	var lines []string
	i.flags.VisitAll(func(f *flag.Flag) {
		if f.Name == "h" || f.Name == "hidden" {
			return
		}
		name := "-" + f.Name
		if slices.Contains(i.spec.HiddenFlags, f.Name) {
			if !showHidden {
				return
			}
			name = "[" + name + "]"
		}
		line := name + " " + f.Usage
		if f.DefValue != "" && f.DefValue != "false" {
			line = fmt.Sprintf("%s (default %q)", line, f.DefValue)
		}
		lines = append(lines, line)
	})
	return lines
}

// displayHelp writes the help for the last command of p.  Flags of the
// commands above it in p are listed under their own headings.
func displayHelp(p path, showHidden bool) {
	spec := p.last().spec
	section("NAME", []string{spec.Name + " - " + spec.Short})
	section("USAGE", []string{spec.Usage})
	var options []string
	for k := len(p) - 1; k >= 0; k-- {
		opts := p[k].options(showHidden)
		if k < len(p)-1 && len(opts) > 0 {
			options = append(options, "", "["+path(p[:k+1]).pathname()+" flags]")
		}
		options = append(options, opts...)
	}
	if len(options) == 0 {
		options = []string{"no flags for this command"}
	}
	section("OPTIONS", options)
	var commands []string
	for _, child := range spec.children {
		name := child.Name
		if child.Hidden {
			if !showHidden {
				continue
			}
			name = "[" + name + "]"
		}
		commands = append(commands, name+" - "+child.Short)
	}
	if len(commands) > 0 {
		section("COMMANDS", commands)
	}
	if spec.Long != "" {
		fmt.Fprintf(helpOut, "%s\n%s\n\n", header("DESCRIPTION"), formatParagraphs(spec.Long, termWidth()-len(tab)-5))
	}
}
