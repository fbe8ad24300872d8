package git

import (
	"context"
	"fmt"
)

// Commit records the staged changes with message. Nothing is recorded when the
// index matches HEAD; the returned bool says whether a commit was created.
func (r *Repository) Commit(ctx context.Context, message string) (bool, error) {
	staged, err := r.HasStagedChanges(ctx)
	if err != nil {
		return false, err
	}
	if !staged {
		return false, nil
	}

	args := []string{"commit", "--quiet"}
	if !r.sign {
		args = append(args, "--no-gpg-sign")
	}
	args = append(args, "-m", message)

	if _, err := r.runner.Run(ctx, args...); err != nil {
		return false, fmt.Errorf("failed to commit: %w", err)
	}
	return true, nil
}
