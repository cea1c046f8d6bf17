// Command sexprt is the command-line surface: a one-shot command
// tree over the Dispatcher. It is not a REPL or TUI front-end (those
// are explicit Non-goals) — every invocation parses flags, dispatches
// once, and exits: a cobra root command, fatih/color status coloring,
// x/term width-aware output.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}
