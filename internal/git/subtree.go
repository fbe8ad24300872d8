package git

import (
	"context"
	"fmt"
)

// SubtreeAdd imports branch of remote under prefix as one squashed commit
func (r *Repository) SubtreeAdd(ctx context.Context, prefix, remote, branch, message string) error {
	_, err := r.runner.RunRemote(ctx, r.subtreeArgs("add", prefix, remote, branch, message)...)
	if err != nil {
		return fmt.Errorf("subtree add %s: %w", prefix, err)
	}
	return nil
}

// SubtreePull merges the latest branch of remote into prefix, squashing the
// incoming history. An already up to date prefix is not an error.
func (r *Repository) SubtreePull(ctx context.Context, prefix, remote, branch, message string) error {
	_, err := r.runner.RunRemote(ctx, r.subtreeArgs("pull", prefix, remote, branch, message)...)
	if err != nil {
		return fmt.Errorf("subtree pull %s: %w", prefix, err)
	}
	return nil
}

func (r *Repository) subtreeArgs(action, prefix, remote, branch, message string) []string {
	args := []string{}
	if !r.sign {
		// subtree creates its commits through commit-tree/merge
		args = append(args, "-c", "commit.gpgSign=false")
	}
	return append(args,
		"subtree", action,
		"--squash",
		"--prefix", prefix,
		remote, branch,
		"-m", message,
	)
}
