package main

import (
	"os"

	"github.com/spf13/cobra"
)

// newMetricsCommand prints the in-process Prometheus counters in text
// exposition format.
func newMetricsCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print in-process metric counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime(*configPath)
			if err != nil {
				return err
			}
			return rt.Metrics.WriteText(os.Stdout)
		},
	}
}
