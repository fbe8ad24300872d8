package helpers

import (
	"github.com/spf13/cobra"

	"vpack.dev/vpack/internal/runtime"
)

// Run is a helper that provides a runtime context to a command's execution function
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	ctx, err := runtime.GetContext(cmd.Context(), cmd.OutOrStdout(), verbose)
	if err != nil {
		return err
	}
	defer func() { _ = ctx.Close() }()
	return fn(ctx)
}
