package git

import (
	"context"
	"fmt"
	"strings"
)

// HasLocalChanges reports uncommitted modifications to tracked files.
// Untracked files and dirty content inside submodules do not count.
func (r *Repository) HasLocalChanges(ctx context.Context) (bool, error) {
	output, err := r.runner.Run(ctx, "status", "--porcelain", "--untracked-files=no", "--ignore-submodules=dirty")
	if err != nil {
		return false, fmt.Errorf("failed to check working tree status: %w", err)
	}
	return strings.TrimSpace(output) != "", nil
}

// HasStagedChanges checks if the index differs from HEAD
func (r *Repository) HasStagedChanges(ctx context.Context) (bool, error) {
	code, err := r.runner.RunExitCode(ctx, "diff", "--cached", "--quiet")
	if err != nil {
		return false, fmt.Errorf("failed to check staged changes: %w", err)
	}
	return code != 0, nil
}

// Stage adds the given paths to the index
func (r *Repository) Stage(ctx context.Context, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	if _, err := r.runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to stage %s: %w", strings.Join(paths, ", "), err)
	}
	return nil
}

// Remove deletes path from the index and the working tree
func (r *Repository) Remove(ctx context.Context, path string, force bool) error {
	args := []string{"rm", "-r", "-q"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, "--", path)
	if _, err := r.runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
