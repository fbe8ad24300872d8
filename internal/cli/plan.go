package cli

import (
	"github.com/spf13/cobra"

	"vpack.dev/vpack/internal/actions"
	"vpack.dev/vpack/internal/cli/helpers"
	"vpack.dev/vpack/internal/engine"
	"vpack.dev/vpack/internal/runtime"
)

// newPlanCmd creates the plan command
func newPlanCmd() *cobra.Command {
	var (
		flags   reconcileFlags
		action  string
		resolve bool
	)

	cmd := &cobra.Command{
		Use:   "plan MANIFEST...",
		Short: "Show what a run would change",
		Long: `Show the operations a run would perform without touching the repository.

Examples:
  vpack plan plugins.yaml
  vpack plan --action clean plugins.yaml local.yaml
  vpack plan --resolve plugins.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := engine.ParseAction(action)
			if err != nil {
				return err
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				opts := flags.options(a, args)
				opts.ResolveBranches = resolve
				return actions.PlanAction(ctx, opts)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&resolve, "resolve", false, "Look up the default branch of plugins that do not name one")
	cmd.Flags().StringVar(&action, "action", string(engine.ActionSync), "Action to plan: install, update, sync or clean")

	return cmd
}
