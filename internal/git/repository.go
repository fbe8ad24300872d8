package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	vpackerrors "vpack.dev/vpack/internal/errors"
)

// Repository wraps a go-git repository together with a CommandRunner rooted
// at its working tree. go-git serves reads, the runner serves porcelain.
type Repository struct {
	repo   *gogit.Repository
	path   string
	runner *CommandRunner
	sign   bool
}

// OpenRepository opens the git repository containing path
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	root := worktree.Filesystem.Root()

	return &Repository{
		repo:   repo,
		path:   root,
		runner: NewCommandRunner(root),
	}, nil
}

// InitRepository creates path if needed, runs git init when it is not yet a
// repository root, and opens it.
func InitRepository(ctx context.Context, path string) (*Repository, error) {
	if err := os.MkdirAll(path, 0750); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if _, err := NewCommandRunner(path).Run(ctx, "init"); err != nil {
			return nil, fmt.Errorf("failed to init repository at %s: %w", path, err)
		}
	}
	return OpenRepository(path)
}

// Root returns the root of the working tree
func (r *Repository) Root() string {
	return r.path
}

// SetLogger echoes every git command the repository runs
func (r *Repository) SetLogger(logger CommandLogger) {
	r.runner.SetLogger(logger)
}

// SetEnv passes extra environment variables to every git command
func (r *Repository) SetEnv(env []string) {
	r.runner.SetEnv(env)
}

// SetSignCommits controls whether commits are GPG signed
func (r *Repository) SetSignCommits(sign bool) {
	r.sign = sign
}

// CurrentBranch returns the branch HEAD points at. It works on a repository
// without commits, where HEAD is a symbolic ref to an unborn branch.
func (r *Repository) CurrentBranch(_ context.Context) (string, error) {
	head, err := r.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", vpackerrors.ErrNotOnBranch
	}
	return head.Target().Short(), nil
}

// ResolveRevision resolves ref to a commit hash. A ref that does not exist
// yields an error matching ErrRevisionNotFound.
func (r *Repository) ResolveRevision(_ context.Context, ref string) (string, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", fmt.Errorf("%s: %w", ref, vpackerrors.ErrRevisionNotFound)
		}
		return "", fmt.Errorf("failed to resolve %s: %w", ref, err)
	}
	return hash.String(), nil
}

// HasCommits reports whether HEAD resolves to a commit
func (r *Repository) HasCommits(ctx context.Context) bool {
	_, err := r.ResolveRevision(ctx, "HEAD")
	return err == nil
}

// Submodules returns the paths registered in .gitmodules, sorted
func (r *Repository) Submodules(_ context.Context) ([]string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	subs, err := worktree.Submodules()
	if err != nil {
		return nil, fmt.Errorf("failed to read submodule registry: %w", err)
	}

	paths := make([]string, 0, len(subs))
	for _, sub := range subs {
		paths = append(paths, filepath.ToSlash(sub.Config().Path))
	}
	sort.Strings(paths)
	return paths, nil
}
