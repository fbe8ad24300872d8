package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// SubmoduleAdd clones remote into path and registers it as a submodule.
// An empty branch tracks the remote's HEAD.
func (r *Repository) SubmoduleAdd(ctx context.Context, path, remote, branch string) error {
	args := []string{"submodule", "add", "--force"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, "--", remote, path)
	if _, err := r.runner.RunRemote(ctx, args...); err != nil {
		return fmt.Errorf("submodule add %s: %w", path, err)
	}
	return nil
}

// SubmoduleUpdate fetches the tracked remote branch of path and checks it out,
// honouring submodule.<name>.update
func (r *Repository) SubmoduleUpdate(ctx context.Context, path string) error {
	_, err := r.runner.RunRemote(ctx, "submodule", "update", "--init", "--remote", "--", path)
	if err != nil {
		return fmt.Errorf("submodule update %s: %w", path, err)
	}
	return nil
}

// SubmoduleSetBranch records branch as the tracked branch of path in .gitmodules
func (r *Repository) SubmoduleSetBranch(ctx context.Context, path, branch string) error {
	_, err := r.runner.Run(ctx, "submodule", "set-branch", "--branch", branch, "--", path)
	if err != nil {
		return fmt.Errorf("submodule set-branch %s: %w", path, err)
	}
	return nil
}

// SubmoduleModified reports whether the checkout at path has uncommitted or
// untracked changes of its own
func (r *Repository) SubmoduleModified(ctx context.Context, path string) (bool, error) {
	sub := NewCommandRunner(filepath.Join(r.path, filepath.FromSlash(path)))
	sub.SetLogger(r.runner.logger)
	output, err := sub.Run(ctx, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("failed to check status of %s: %w", path, err)
	}
	return strings.TrimSpace(output) != "", nil
}
