package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	statusOK   = color.New(color.FgGreen).SprintFunc()
	statusFail = color.New(color.FgRed).SprintFunc()
	statusDim  = color.New(color.FgHiBlack).SprintFunc()
)

// newRootCommand builds the sexprt command tree: run, task, templates,
// metrics, config.
func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "sexprt",
		Short:         "Evaluate Sexp DSL workflows against the orchestration runtime",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: fmt.Sprintf(`%s

A one-shot command surface over the Sexp DSL interpreter: evaluate
S-expressions, invoke registered atomic tasks, or load task templates.
There is no interactive REPL here — each invocation dispatches once
and exits with 0 on COMPLETE, 1 on FAILED.`, color.New(color.Bold).Sprint("sexprt")),
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML runtime config file")

	root.AddCommand(newRunCommand(&configPath))
	root.AddCommand(newTaskCommand(&configPath))
	root.AddCommand(newTemplatesCommand(&configPath))
	root.AddCommand(newMetricsCommand(&configPath))
	root.AddCommand(newConfigCommand(&configPath))

	return root
}
