package engine

import (
	"context"
)

// GitRunner is the host repository surface the engine needs.
// *git.Repository implements it; tests substitute fakes.
type GitRunner interface {
	Root() string

	// State queries
	CurrentBranch(ctx context.Context) (string, error)
	ResolveRevision(ctx context.Context, ref string) (string, error)
	HasLocalChanges(ctx context.Context) (bool, error)

	// Branch management
	CreateAndSwitch(ctx context.Context, branchName string) error
	SwitchTo(ctx context.Context, branchName string, force bool) error
	MergeFastForward(ctx context.Context, rev string) error
	DeleteBranch(ctx context.Context, branchName string) error

	// Commit records staged changes and reports whether anything was committed
	Commit(ctx context.Context, message string) (bool, error)
}

// Strategy embeds plugins into the host repository
type Strategy interface {
	Kind() StrategyKind

	// Transactional strategies mutate the operator's branch and run inside a
	// disposable branch Session.
	Transactional() bool

	// RequiresBranch reports whether EmbedNew and PullInto need a resolved branch
	RequiresBranch() bool

	// Installed enumerates the plugins currently embedded
	Installed(ctx context.Context) ([]InstalledPlugin, error)

	EmbedNew(ctx context.Context, plugin PluginDescriptor) error
	PullInto(ctx context.Context, plugin PluginDescriptor) error

	// RemoveTree deletes path. Without force a strategy may refuse to discard
	// local modifications with an error matching errors.ErrPluginModified.
	RemoveTree(ctx context.Context, path string, force bool) error

	// CommitMessage is the message recorded for op
	CommitMessage(op Op) string
}

// BranchResolver resolves a remote's default branch
type BranchResolver interface {
	Resolve(ctx context.Context, remote string) (string, error)
}

// Logger is the subset of tui.Splog the engine reports progress through
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}
