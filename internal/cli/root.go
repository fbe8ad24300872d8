package cli

import (
	"github.com/spf13/cobra"

	"vpack.dev/vpack/internal/engine"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vpack",
		Short: "vpack vendors Vim and Neovim plugins into git",
		Long: `vpack vendors Vim and Neovim plugins into a git repository.

Plugins are listed in one or more manifests and embedded either as squashed
subtrees of your dotfiles repository or as submodules of a pack repository.
Every command reads the manifests, compares them with what is installed and
applies only the difference.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show every git command")

	rootCmd.AddCommand(newReconcileCmd(engine.ActionInstall,
		"Install plugins missing from the pack",
		"Embed every plugin listed in the manifests that is not installed yet. Installed plugins are left alone."))
	rootCmd.AddCommand(newReconcileCmd(engine.ActionUpdate,
		"Install missing plugins and pull the others",
		"Embed missing plugins and pull the latest upstream content into installed ones. Plugins whose update policy is disabled are skipped."))
	rootCmd.AddCommand(newReconcileCmd(engine.ActionSync,
		"Make the pack match the manifests",
		"Remove plugins no longer listed, embed missing ones and pull the rest."))
	rootCmd.AddCommand(newReconcileCmd(engine.ActionClean,
		"Remove plugins no longer listed",
		"Remove every installed plugin the manifests no longer list."))
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}
