package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Strategy names
const (
	StrategySubtree   = "subtree"
	StrategySubmodule = "submodule"
)

// Resolver backend names
const (
	BackendGit    = "git"
	BackendGitHub = "github"
)

// Defaults
const (
	DefaultHost       = "https://github.com"
	DefaultWorkBranch = "update-plugins"
	DefaultSubtreeDir = "pack/vendor"
)

// ResolverConfig selects how default branches are looked up
type ResolverConfig struct {
	Backend string `toml:"backend"` // "git" or "github"
}

// Config holds the vpack configuration
type Config struct {
	Strategy    string         `toml:"strategy"`
	Dir         string         `toml:"dir"` // embedding root; see EmbeddingDir
	DefaultHost string         `toml:"default_host"`
	WorkBranch  string         `toml:"work_branch"`
	MergeBack   bool           `toml:"merge_back"`
	SignCommits bool           `toml:"sign_commits"`
	LogFile     string         `toml:"log_file"`
	Resolver    ResolverConfig `toml:"resolver"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Strategy:    StrategySubtree,
		DefaultHost: DefaultHost,
		WorkBranch:  DefaultWorkBranch,
		MergeBack:   true,
		Resolver: ResolverConfig{
			Backend: BackendGit,
		},
	}
}

// EmbeddingDir returns the configured embedding root, or the default for
// strategy when none is set. The subtree default is relative to the host
// repository; the submodule default is the Neovim package directory.
func (c *Config) EmbeddingDir(strategy string) string {
	if c.Dir != "" {
		return c.Dir
	}
	if strategy == StrategySubmodule {
		return filepath.Join(dataHome(), "nvim", "site", "pack", "vpm")
	}
	return DefaultSubtreeDir
}

// Path returns the path of the configuration file
func Path() (string, error) {
	if p := os.Getenv("VPACK_CONFIG"); p != "" {
		return expandPath(p)
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "vpack", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vpack", "config.toml"), nil
}

// Load reads the configuration file.
// Returns Default() if the file doesn't exist (no error).
// Returns an error only if the file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the configuration from path, see Load
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML configuration on top of the defaults
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}

	// Expand ~ in paths (shell doesn't expand in config files)
	if cfg.Dir, err = expandPath(cfg.Dir); err != nil {
		return Default(), fmt.Errorf("expand dir: %w", err)
	}
	if cfg.LogFile, err = expandPath(cfg.LogFile); err != nil {
		return Default(), fmt.Errorf("expand log_file: %w", err)
	}

	// Use defaults for empty values
	if cfg.Strategy == "" {
		cfg.Strategy = StrategySubtree
	}
	if cfg.DefaultHost == "" {
		cfg.DefaultHost = DefaultHost
	}
	if cfg.WorkBranch == "" {
		cfg.WorkBranch = DefaultWorkBranch
	}
	if cfg.Resolver.Backend == "" {
		cfg.Resolver.Backend = BackendGit
	}

	return cfg, nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".local", "share")
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfig is the commented template written by `vpack config init`
const DefaultConfig = `# vpack configuration

# Embedding strategy: "subtree" squashes each plugin into the host repository,
# "submodule" tracks each plugin as a submodule of a pack repository
# strategy = "subtree"

# Embedding root. Relative to the host repository for subtree; defaults to
# $XDG_DATA_HOME/nvim/site/pack/vpm for submodule
# dir = "pack/vendor"

# Host prepended to owner/repo sources
# default_host = "https://github.com"

# Disposable branch subtree runs work on
# work_branch = "update-plugins"

# Fast-forward the current branch to the work branch after a successful run.
# When false the changes are left on work_branch for you to merge.
# merge_back = true

# GPG sign the commits vpack records
# sign_commits = false

# Append a debug log here (rotated)
# log_file = "~/.local/state/vpack/vpack.log"

[resolver]
# How default branches are looked up: "git" asks the remote directly,
# "github" uses the GitHub API (GITHUB_TOKEN) for github.com sources
# backend = "git"
`
