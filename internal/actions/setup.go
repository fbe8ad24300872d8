package actions

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"vpack.dev/vpack/internal/config"
	"vpack.dev/vpack/internal/engine"
	"vpack.dev/vpack/internal/git"
	"vpack.dev/vpack/internal/manifest"
	"vpack.dev/vpack/internal/resolver"
	"vpack.dev/vpack/internal/runtime"
	"vpack.dev/vpack/internal/utils"
)

// Options contains options shared by the reconciling commands
type Options struct {
	Action engine.Action

	// Manifests are read in order; "-" reads standard input
	Manifests []string

	// Dir overrides the configured embedding root. Relative paths are taken
	// from the working directory.
	Dir string

	Strategy   string
	SkipPulls  bool
	Force      bool
	NoMerge    bool
	WorkBranch string

	// ResolveBranches looks up the default branch of every plugin without
	// one so a plan shows exactly what would be pulled
	ResolveBranches bool
}

func (o Options) planOptions() engine.PlanOptions {
	mode := engine.ModeFull
	if o.SkipPulls {
		mode = engine.ModeAddsAndRemovesOnly
	}
	return engine.PlanOptions{Action: o.Action, Mode: mode}
}

// workspace is everything a run needs, resolved from options and config
type workspace struct {
	kind     engine.StrategyKind
	dir      string
	desired  []engine.PluginDescriptor
	repo     *git.Repository
	strategy engine.Strategy
	resolver *resolver.Resolver
}

// loadDesired reads the manifests and settles the strategy and embedding root
func loadDesired(ctx *runtime.Context, opts Options) (*workspace, error) {
	strategyName := opts.Strategy
	if strategyName == "" {
		strategyName = ctx.Config.Strategy
	}
	kind, err := engine.ParseStrategyKind(strategyName)
	if err != nil {
		return nil, err
	}

	if opts.WorkBranch != "" {
		if err := utils.ValidateBranchName(opts.WorkBranch); err != nil {
			return nil, err
		}
	}

	loadOpts := manifest.Options{DefaultHost: ctx.Config.DefaultHost}
	if slices.Contains(opts.Manifests, utils.StdinPath) {
		content, err := utils.ReadFromStdin()
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest from stdin: %w", err)
		}
		loadOpts.Stdin = strings.NewReader(content)
	}

	desired, err := manifest.Load(opts.Manifests, loadOpts)
	if err != nil {
		return nil, err
	}
	ctx.Splog.Debug("loaded %d plugins from %d manifests", len(desired), len(opts.Manifests))

	dir := ctx.Config.EmbeddingDir(string(kind))
	if opts.Dir != "" {
		dir = opts.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(ctx.WorkDir, dir)
		}
	}

	return &workspace{kind: kind, dir: dir, desired: desired, resolver: newResolver(ctx)}, nil
}

// open attaches the host repository and the strategy. With create, a missing
// submodule pack repository is initialized; without it, a missing one is
// reported by leaving ws.repo nil.
func (ws *workspace) open(ctx *runtime.Context, create bool) error {
	switch ws.kind {
	case engine.StrategySubtree:
		repo, err := git.OpenRepository(ctx.WorkDir)
		if err != nil {
			return err
		}
		ws.configure(ctx, repo)
		strategy, err := engine.NewSubtreeStrategy(repo, repo.Root(), ws.dir)
		if err != nil {
			return err
		}
		ws.strategy = strategy

	case engine.StrategySubmodule:
		var repo *git.Repository
		var err error
		if create {
			if _, statErr := os.Stat(filepath.Join(ws.dir, ".git")); os.IsNotExist(statErr) {
				ctx.Splog.Info("initializing pack repository at %s", ws.dir)
			}
			repo, err = git.InitRepository(ctx.Context, ws.dir)
		} else {
			if _, statErr := os.Stat(filepath.Join(ws.dir, ".git")); os.IsNotExist(statErr) {
				return nil
			}
			repo, err = git.OpenRepository(ws.dir)
		}
		if err != nil {
			return err
		}
		ws.configure(ctx, repo)
		ws.strategy = engine.NewSubmoduleStrategy(repo)

	default:
		return fmt.Errorf("unsupported strategy %s", ws.kind)
	}

	return nil
}

func (ws *workspace) configure(ctx *runtime.Context, repo *git.Repository) {
	repo.SetLogger(ctx.Splog)
	repo.SetSignCommits(ctx.Config.SignCommits)
	if len(ctx.GitEnv) > 0 {
		repo.SetEnv(ctx.GitEnv)
	}
	ws.repo = repo
}

func newResolver(ctx *runtime.Context) *resolver.Resolver {
	var backend resolver.Backend = resolver.GitBackend{}
	if ctx.Config.Resolver.Backend == config.BackendGitHub {
		backend = resolver.NewGitHubBackend(ctx.Context, backend)
	}
	return resolver.New(backend)
}
