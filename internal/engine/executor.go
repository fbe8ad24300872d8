package engine

import (
	"context"
	"errors"
	"fmt"

	vpackerrors "vpack.dev/vpack/internal/errors"
)

// ConfirmFunc asks the operator a yes/no question
type ConfirmFunc func(ctx context.Context, question string) (bool, error)

// ExecutorOptions tune how destructive operations are handled
type ExecutorOptions struct {
	// Force discards local modifications of removed plugins without asking
	Force bool
	// Confirm, when set, is asked before discarding local modifications
	Confirm ConfirmFunc
}

// ExecResult lists the operations that completed, in order
type ExecResult struct {
	Applied []Op
}

// Executor applies a plan through a Strategy, one operation at a time
type Executor struct {
	git      GitRunner
	strategy Strategy
	resolver BranchResolver
	log      Logger
	opts     ExecutorOptions
}

// NewExecutor creates an Executor. log may be nil.
func NewExecutor(g GitRunner, strategy Strategy, resolver BranchResolver, log Logger, opts ExecutorOptions) *Executor {
	if log == nil {
		log = nopLogger{}
	}
	return &Executor{
		git:      g,
		strategy: strategy,
		resolver: resolver,
		log:      log,
		opts:     opts,
	}
}

// Execute runs ops in order and commits after each one. Branches are resolved
// for every operation that needs one before anything is mutated. The first
// failing operation stops the run with a ReconciliationFailedError.
func (e *Executor) Execute(ctx context.Context, ops []Op) (*ExecResult, error) {
	result := &ExecResult{}

	ops, err := e.resolveTargets(ctx, ops)
	if err != nil {
		return result, err
	}

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return result, vpackerrors.NewReconciliationFailedError(op.String(), err)
		}

		if err := e.apply(ctx, op); err != nil {
			return result, vpackerrors.NewReconciliationFailedError(op.String(), err)
		}

		committed, err := e.git.Commit(ctx, e.strategy.CommitMessage(op))
		if err != nil {
			return result, vpackerrors.NewReconciliationFailedError(op.String(), err)
		}
		if committed {
			e.log.Debug("committed %s", op)
		}

		result.Applied = append(result.Applied, op)
	}

	return result, nil
}

// resolveTargets fills in the branch of every add or update that lacks one,
// when the strategy needs it. The input slice is not modified.
func (e *Executor) resolveTargets(ctx context.Context, ops []Op) ([]Op, error) {
	if !e.strategy.RequiresBranch() {
		return ops, nil
	}

	resolved := make([]Op, len(ops))
	copy(resolved, ops)

	for i, op := range resolved {
		if op.Kind == OpRemove || op.Plugin.HasBranch() {
			continue
		}
		if e.resolver == nil {
			return nil, fmt.Errorf("no branch resolver configured for %s", op.Path)
		}
		branch, err := e.resolver.Resolve(ctx, op.Plugin.SourceURL)
		if err != nil {
			if !errors.Is(err, vpackerrors.ErrRemoteUnreachable) {
				err = vpackerrors.NewRemoteUnreachableError(op.Plugin.SourceURL, err)
			}
			return nil, err
		}
		e.log.Debug("resolved default branch of %s: %s", op.Plugin.SourceURL, branch)
		resolved[i].Plugin.Branch = branch
	}

	return resolved, nil
}

func (e *Executor) apply(ctx context.Context, op Op) error {
	switch op.Kind {
	case OpRemove:
		e.log.Info("removing %s", op.Path)
		return e.remove(ctx, op.Path)
	case OpAdd:
		e.log.Info("adding %s", op.Path)
		return e.strategy.EmbedNew(ctx, op.Plugin)
	case OpUpdate:
		e.log.Info("updating %s", op.Path)
		return e.strategy.PullInto(ctx, op.Plugin)
	default:
		return fmt.Errorf("unknown operation %s", op)
	}
}

func (e *Executor) remove(ctx context.Context, path string) error {
	err := e.strategy.RemoveTree(ctx, path, e.opts.Force)
	if err == nil || !errors.Is(err, vpackerrors.ErrPluginModified) || e.opts.Confirm == nil {
		return err
	}

	discard, cerr := e.opts.Confirm(ctx, fmt.Sprintf("%s has local modifications. Discard them?", path))
	if cerr != nil {
		return cerr
	}
	if !discard {
		return err
	}
	return e.strategy.RemoveTree(ctx, path, true)
}
