package git

import (
	"context"
	"fmt"
)

// CreateAndSwitch creates (or resets) branchName at HEAD and switches to it
func (r *Repository) CreateAndSwitch(ctx context.Context, branchName string) error {
	_, err := r.runner.Run(ctx, "switch", "-C", branchName)
	if err != nil {
		return fmt.Errorf("failed to create and switch to branch %s: %w", branchName, err)
	}
	return nil
}

// SwitchTo switches to an existing branch. With force, local modifications
// are discarded.
func (r *Repository) SwitchTo(ctx context.Context, branchName string, force bool) error {
	args := []string{"switch"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, branchName)
	_, err := r.runner.Run(ctx, args...)
	if err != nil {
		return fmt.Errorf("failed to switch to branch %s: %w", branchName, err)
	}
	return nil
}

// MergeFastForward fast-forwards the current branch to rev
func (r *Repository) MergeFastForward(ctx context.Context, rev string) error {
	_, err := r.runner.Run(ctx, "merge", "--ff-only", rev)
	if err != nil {
		return fmt.Errorf("failed to fast-forward to %s: %w", rev, err)
	}
	return nil
}

// DeleteBranch deletes a branch
func (r *Repository) DeleteBranch(ctx context.Context, branchName string) error {
	_, err := r.runner.Run(ctx, "branch", "-D", branchName)
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	return nil
}
