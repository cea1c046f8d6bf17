package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// newTaskCommand implements the primary programmatic entry point:
// `/task <identifier> [k=v ...] [--flag ...]`.
func newTaskCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task <identifier> [k=v ...]",
		Short: "Dispatch an identifier to the task registry, tool surface, or S-expression evaluator",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime(*configPath)
			if err != nil {
				return err
			}
			identifier := args[0]
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			res := rt.Dispatcher.Dispatch(context.Background(), identifier, params, dispatcherFlags(cmd), nil)
			code := printResult(res)
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
	addCommonFlags(cmd)
	return cmd
}
