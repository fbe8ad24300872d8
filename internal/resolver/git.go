package resolver

import (
	"context"

	"vpack.dev/vpack/internal/git"
)

// GitBackend queries the remote over the git protocol
type GitBackend struct{}

// DefaultBranch reads the symbolic HEAD the remote advertises
func (GitBackend) DefaultBranch(ctx context.Context, remote string) (string, error) {
	return git.DefaultBranch(ctx, remote)
}
