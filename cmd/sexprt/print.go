package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/sexpruntime/core/internal/result"
)

// terminalWidth reports the current stdout width, falling back to 80
// columns when stdout isn't a TTY (piped output, CI logs).
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// clip truncates s to fit within the terminal width on one line,
// appending an ellipsis marker when it does.
func clip(s string) string {
	w := terminalWidth()
	if w <= 4 || len(s) <= w {
		return s
	}
	return s[:w-1] + "…"
}

// printResult renders a Result to stdout/stderr and returns the
// process exit code the command surface promises: 0 on COMPLETE,
// 1 on anything else.
func printResult(r result.Result) int {
	switch r.Status {
	case result.StatusComplete:
		fmt.Printf("%s %s\n", statusOK("COMPLETE"), clip(fmt.Sprintf("%v", r.Content)))
	case result.StatusFailed:
		fmt.Printf("%s %s: %s\n", statusFail("FAILED"), r.Error.Kind, r.Error.Message)
		if len(r.Error.Details) > 0 {
			fmt.Printf("  %s %v\n", statusDim("details:"), r.Error.Details)
		}
	default:
		fmt.Printf("%s %s\n", statusDim(string(r.Status)), clip(fmt.Sprintf("%v", r.Content)))
	}
	if len(r.Notes) > 0 {
		fmt.Printf("  %s %v\n", statusDim("notes:"), r.Notes)
	}
	if r.Status == result.StatusComplete {
		return 0
	}
	return 1
}
