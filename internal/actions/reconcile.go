package actions

import (
	"fmt"

	"vpack.dev/vpack/internal/engine"
	"vpack.dev/vpack/internal/runtime"
	"vpack.dev/vpack/internal/tui"
)

// Action reconciles the embedding root with the manifests according to
// opts.Action and prints what changed
func Action(ctx *runtime.Context, opts Options) error {
	splog := ctx.Splog

	ws, err := loadDesired(ctx, opts)
	if err != nil {
		return err
	}
	if err := ws.open(ctx, true); err != nil {
		return err
	}

	var confirm engine.ConfirmFunc
	if ctx.Interactive && !opts.Force {
		confirm = tui.PromptConfirm
	}

	workBranch := opts.WorkBranch
	if workBranch == "" {
		workBranch = ctx.Config.WorkBranch
	}

	reconciler := engine.NewReconciler(ws.repo, ws.strategy, ws.resolver, splog)
	report, err := reconciler.Run(ctx.Context, ws.desired, engine.ReconcileOptions{
		Plan: opts.planOptions(),
		Executor: engine.ExecutorOptions{
			Force:   opts.Force,
			Confirm: confirm,
		},
		WorkBranch: workBranch,
		MergeBack:  ctx.Config.MergeBack && !opts.NoMerge,
	})
	if err != nil {
		return fmt.Errorf("%s failed: %w", opts.Action, err)
	}

	printReport(splog, report)
	return nil
}

func printReport(splog *tui.Splog, report *engine.Report) {
	for _, op := range report.Applied {
		splog.Info("%s", formatOp(op))
	}

	if report.Kind == engine.NoChanges {
		splog.Info("%s", report.Summary())
		return
	}

	splog.Info("%s", tui.ColorGreen(report.Summary()))
	if report.Pending() {
		splog.Tip("Run `git merge --ff-only %s` to apply the changes to %s.", report.PendingBranch, report.Branch)
	}
}

func formatOp(op engine.Op) string {
	switch op.Kind {
	case engine.OpRemove:
		return fmt.Sprintf("%s %s", tui.ColorRed("-"), op.Path)
	case engine.OpAdd:
		return fmt.Sprintf("%s %s %s", tui.ColorGreen("+"), op.Path, describeSource(op.Plugin))
	default:
		return fmt.Sprintf("%s %s %s", tui.ColorCyan("~"), op.Path, describeSource(op.Plugin))
	}
}

func describeSource(p engine.PluginDescriptor) string {
	if p.Branch == "" {
		return tui.ColorDim(p.SourceURL)
	}
	return tui.ColorDim(fmt.Sprintf("%s@%s", p.SourceURL, p.Branch))
}
