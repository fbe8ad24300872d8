package actions

import (
	"vpack.dev/vpack/internal/engine"
	"vpack.dev/vpack/internal/runtime"
	"vpack.dev/vpack/internal/tui"
)

// PlanAction prints the operations opts.Action would perform without
// touching the repository
func PlanAction(ctx *runtime.Context, opts Options) error {
	splog := ctx.Splog

	ws, err := loadDesired(ctx, opts)
	if err != nil {
		return err
	}
	if err := ws.open(ctx, false); err != nil {
		return err
	}

	if opts.ResolveBranches {
		ws.desired, err = ws.resolver.ResolveAll(ctx.Context, ws.desired)
		if err != nil {
			return err
		}
	}

	var plan engine.Plan
	if ws.repo == nil {
		// No pack repository yet, so nothing is installed
		plan = engine.PlanFor(ws.desired, nil, opts.planOptions())
	} else {
		reconciler := engine.NewReconciler(ws.repo, ws.strategy, ws.resolver, splog)
		plan, err = reconciler.Plan(ctx.Context, ws.desired, opts.planOptions())
		if err != nil {
			return err
		}
	}

	for _, held := range plan.Held {
		splog.Info("update disabled for %s, skipping", held.Name)
	}
	if plan.IsEmpty() {
		splog.Info("All plugins are up to date, nothing to do")
		return nil
	}

	for _, op := range plan.Ops {
		splog.Info("%s", formatOp(op))
	}
	splog.Info("%s: %d to remove, %d to add, %d to update",
		tui.Bold(string(opts.Action)),
		plan.Count(engine.OpRemove),
		plan.Count(engine.OpAdd),
		plan.Count(engine.OpUpdate))
	return nil
}
