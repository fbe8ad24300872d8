package engine

import (
	"context"
	"fmt"

	vpackerrors "vpack.dev/vpack/internal/errors"
)

// SubmoduleGit is the git surface the linked-checkout strategy needs
type SubmoduleGit interface {
	Submodules(ctx context.Context) ([]string, error)
	SubmoduleAdd(ctx context.Context, path, remote, branch string) error
	SubmoduleUpdate(ctx context.Context, path string) error
	SubmoduleSetBranch(ctx context.Context, path, branch string) error
	SubmoduleModified(ctx context.Context, path string) (bool, error)
	SetConfig(ctx context.Context, key, value string) error
	Stage(ctx context.Context, paths ...string) error
	Remove(ctx context.Context, path string, force bool) error
}

// SubmoduleStrategy tracks each plugin as a submodule of a dedicated pack
// repository. Plugin paths are relative to that repository's root.
type SubmoduleStrategy struct {
	git SubmoduleGit
}

// NewSubmoduleStrategy creates a SubmoduleStrategy
func NewSubmoduleStrategy(g SubmoduleGit) *SubmoduleStrategy {
	return &SubmoduleStrategy{git: g}
}

func (s *SubmoduleStrategy) Kind() StrategyKind   { return StrategySubmodule }
func (s *SubmoduleStrategy) Transactional() bool  { return false }
func (s *SubmoduleStrategy) RequiresBranch() bool { return false }

// Installed reads the submodule registry
func (s *SubmoduleStrategy) Installed(ctx context.Context) ([]InstalledPlugin, error) {
	paths, err := s.git.Submodules(ctx)
	if err != nil {
		return nil, err
	}
	installed := make([]InstalledPlugin, 0, len(paths))
	for _, p := range paths {
		installed = append(installed, InstalledPlugin{Path: p, Present: true})
	}
	return installed, nil
}

// EmbedNew adds the submodule and stores a non-default update policy in the
// repository configuration
func (s *SubmoduleStrategy) EmbedNew(ctx context.Context, plugin PluginDescriptor) error {
	if err := s.git.SubmoduleAdd(ctx, plugin.Name, plugin.SourceURL, plugin.Branch); err != nil {
		return err
	}
	if mode := submoduleUpdateMode(plugin.UpdatePolicy); mode != "" {
		if err := s.git.SetConfig(ctx, "submodule."+plugin.Name+".update", mode); err != nil {
			return err
		}
	}
	return nil
}

// PullInto moves the submodule to the tip of its tracked branch and stages
// the new gitlink
func (s *SubmoduleStrategy) PullInto(ctx context.Context, plugin PluginDescriptor) error {
	if err := s.git.SubmoduleUpdate(ctx, plugin.Name); err != nil {
		return err
	}
	paths := []string{plugin.Name}
	if plugin.HasBranch() {
		if err := s.git.SubmoduleSetBranch(ctx, plugin.Name, plugin.Branch); err != nil {
			return err
		}
		paths = append(paths, ".gitmodules")
	}
	return s.git.Stage(ctx, paths...)
}

// RemoveTree refuses to drop a checkout with local modifications unless forced
func (s *SubmoduleStrategy) RemoveTree(ctx context.Context, path string, force bool) error {
	if !force {
		modified, err := s.git.SubmoduleModified(ctx, path)
		if err != nil {
			return err
		}
		if modified {
			return fmt.Errorf("%s: %w", path, vpackerrors.ErrPluginModified)
		}
	}
	return s.git.Remove(ctx, path, force)
}

func (s *SubmoduleStrategy) CommitMessage(op Op) string {
	return fmt.Sprintf("chore: %s '%s'", op.Kind, op.Path)
}

// submoduleUpdateMode maps a policy onto submodule.<name>.update.
// Auto keeps git's default and writes nothing.
func submoduleUpdateMode(p UpdatePolicy) string {
	switch {
	case p.IsDisabled():
		return "none"
	case p.IsPassthrough():
		return string(p)
	default:
		return ""
	}
}
