package engine

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// SubtreeGit is the git surface the squash-merge strategy needs
type SubtreeGit interface {
	SubtreeAdd(ctx context.Context, prefix, remote, branch, message string) error
	SubtreePull(ctx context.Context, prefix, remote, branch, message string) error
	Remove(ctx context.Context, path string, force bool) error
}

// SubtreeStrategy embeds each plugin as a squashed git subtree under an
// embedding root inside the host repository
type SubtreeStrategy struct {
	git      SubtreeGit
	repoRoot string
	root     string // slash separated, relative to repoRoot
}

// NewSubtreeStrategy creates a SubtreeStrategy. root may be absolute or
// relative to repoRoot but must lie inside the repository.
func NewSubtreeStrategy(g SubtreeGit, repoRoot, root string) (*SubtreeStrategy, error) {
	rel, err := relativeRoot(repoRoot, root)
	if err != nil {
		return nil, err
	}
	return &SubtreeStrategy{git: g, repoRoot: repoRoot, root: rel}, nil
}

func relativeRoot(repoRoot, root string) (string, error) {
	abs := root
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(repoRoot, root)
	}
	rel, err := filepath.Rel(repoRoot, abs)
	if err != nil {
		return "", fmt.Errorf("embedding root %s: %w", root, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("embedding root %s must be a directory inside %s", root, repoRoot)
	}
	return rel, nil
}

func (s *SubtreeStrategy) Kind() StrategyKind  { return StrategySubtree }
func (s *SubtreeStrategy) Transactional() bool { return true }
func (s *SubtreeStrategy) RequiresBranch() bool { return true }

// Root returns the embedding root relative to the repository
func (s *SubtreeStrategy) Root() string {
	return s.root
}

// Installed lists the directories under <root>/start and <root>/opt
func (s *SubtreeStrategy) Installed(_ context.Context) ([]InstalledPlugin, error) {
	var installed []InstalledPlugin
	for _, ns := range []string{NamespaceStart, NamespaceOpt} {
		dir := filepath.Join(s.repoRoot, filepath.FromSlash(s.root), ns)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			installed = append(installed, InstalledPlugin{
				Path:    ns + "/" + entry.Name(),
				Present: true,
			})
		}
	}
	return installed, nil
}

func (s *SubtreeStrategy) prefix(p string) string {
	return path.Join(s.root, p)
}

func (s *SubtreeStrategy) EmbedNew(ctx context.Context, plugin PluginDescriptor) error {
	return s.git.SubtreeAdd(ctx, s.prefix(plugin.Name), plugin.SourceURL, plugin.Branch, s.CommitMessage(AddOp(plugin)))
}

func (s *SubtreeStrategy) PullInto(ctx context.Context, plugin PluginDescriptor) error {
	return s.git.SubtreePull(ctx, s.prefix(plugin.Name), plugin.SourceURL, plugin.Branch, s.CommitMessage(UpdateOp(plugin)))
}

// RemoveTree deletes the subtree. The host tree is clean when a run starts,
// so there is nothing local to protect.
func (s *SubtreeStrategy) RemoveTree(ctx context.Context, p string, _ bool) error {
	return s.git.Remove(ctx, s.prefix(p), true)
}

func (s *SubtreeStrategy) CommitMessage(op Op) string {
	if op.Kind == OpRemove {
		return fmt.Sprintf("Remove subtree '%s'", s.prefix(op.Path))
	}
	return fmt.Sprintf("chore: update '%s'", s.prefix(op.Path))
}
