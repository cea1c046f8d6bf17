package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// newRunCommand evaluates a raw S-expression.
func newRunCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <expression>",
		Short: "Evaluate a raw S-expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime(*configPath)
			if err != nil {
				return err
			}
			expr := strings.TrimSpace(args[0])
			if !strings.HasPrefix(expr, "(") {
				expr = "(" + expr + ")"
			}
			res := rt.Dispatcher.Dispatch(context.Background(), expr, nil, dispatcherFlags(cmd), nil)
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
