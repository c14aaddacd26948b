package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// contextOf returns the command's context, or Background when run directly
func contextOf(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
