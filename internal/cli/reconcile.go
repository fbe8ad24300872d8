package cli

import (
	"github.com/spf13/cobra"

	"vpack.dev/vpack/internal/actions"
	"vpack.dev/vpack/internal/cli/helpers"
	"vpack.dev/vpack/internal/engine"
	"vpack.dev/vpack/internal/runtime"
)

// reconcileFlags are shared by every command that reads manifests
type reconcileFlags struct {
	dir        string
	strategy   string
	skipPulls  bool
	force      bool
	noMerge    bool
	workBranch string
}

func (f *reconcileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dir, "dir", "d", "", "Embedding root (default from config)")
	cmd.Flags().StringVar(&f.strategy, "strategy", "", `Embedding strategy: "subtree" or "submodule" (default from config)`)
	cmd.Flags().BoolVar(&f.skipPulls, "skip-pulls", false, "Only add and remove plugins, never pull")
	cmd.Flags().BoolVarP(&f.force, "force", "f", false, "Discard local modifications of removed plugins without asking")
	cmd.Flags().BoolVar(&f.noMerge, "no-merge", false, "Leave the changes on the work branch instead of merging them")
	cmd.Flags().StringVar(&f.workBranch, "work-branch", "", "Name of the disposable work branch (default from config)")
	_ = cmd.RegisterFlagCompletionFunc("strategy", cobra.FixedCompletions(
		[]string{string(engine.StrategySubtree), string(engine.StrategySubmodule)}, cobra.ShellCompDirectiveNoFileComp))
}

func (f *reconcileFlags) options(action engine.Action, manifests []string) actions.Options {
	return actions.Options{
		Action:     action,
		Manifests:  manifests,
		Dir:        f.dir,
		Strategy:   f.strategy,
		SkipPulls:  f.skipPulls,
		Force:      f.force,
		NoMerge:    f.noMerge,
		WorkBranch: f.workBranch,
	}
}

// newReconcileCmd creates one of install, update, sync and clean
func newReconcileCmd(action engine.Action, short, long string) *cobra.Command {
	var flags reconcileFlags

	cmd := &cobra.Command{
		Use:   string(action) + " MANIFEST...",
		Short: short,
		Long:  long + "\n\nManifests are read in order and later entries win. Use - to read a manifest from standard input.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.Action(ctx, flags.options(action, args))
			})
		},
	}
	flags.register(cmd)

	return cmd
}
