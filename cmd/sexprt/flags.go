package main

import (
	"github.com/spf13/cobra"

	"github.com/sexpruntime/core/internal/dispatcher"
)

// addCommonFlags attaches the flags recognized across the
// dispatch-facing subcommands.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("use-history", false, "send prior conversation as LLM message history")
}

func dispatcherFlags(cmd *cobra.Command) dispatcher.Flags {
	useHistory, _ := cmd.Flags().GetBool("use-history")
	return dispatcher.Flags{UseHistory: useHistory}
}
