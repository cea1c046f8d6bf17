package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sexpruntime/core/internal/config"
)

// newConfigCommand prints the resolved runtime configuration and the
// layer (default, file, env) each value came from.
func newConfigCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show resolved runtime configuration and value sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			values, sources, err := config.Explain(*configPath)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("%-24s %-24v %s\n", k, values[k], statusDim(string(sources[k])))
			}
			return nil
		},
	}
}
