package main

import (
	"fmt"
	"os"

	_ "github.com/brimdata/spl/cmd/spl/compile"
	_ "github.com/brimdata/spl/cmd/spl/complete"
	"github.com/brimdata/spl/cmd/spl/root"
)

func main() {
	if err := root.Spl.Exec(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
