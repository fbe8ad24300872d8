// Package resolver finds the default branch of plugin remotes.
//
// A Resolver lives for one run and asks each remote at most once, however
// many plugins share it.
package resolver

import (
	"context"
	"errors"
	"sync"

	"vpack.dev/vpack/internal/engine"
	vpackerrors "vpack.dev/vpack/internal/errors"
)

// Backend answers "what is this remote's default branch"
type Backend interface {
	DefaultBranch(ctx context.Context, remote string) (string, error)
}

// BackendFunc adapts a function to Backend
type BackendFunc func(ctx context.Context, remote string) (string, error)

// DefaultBranch calls f
func (f BackendFunc) DefaultBranch(ctx context.Context, remote string) (string, error) {
	return f(ctx, remote)
}

// Resolver caches default-branch lookups per remote
type Resolver struct {
	backend Backend

	mu    sync.Mutex
	cache map[string]string
}

var _ engine.BranchResolver = (*Resolver)(nil)

// New creates a Resolver over backend
func New(backend Backend) *Resolver {
	return &Resolver{
		backend: backend,
		cache:   make(map[string]string),
	}
}

// Resolve returns the default branch of remote. Failures are reported as
// RemoteUnreachableError and are not cached.
func (r *Resolver) Resolve(ctx context.Context, remote string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if branch, ok := r.cache[remote]; ok {
		return branch, nil
	}

	branch, err := r.backend.DefaultBranch(ctx, remote)
	if err != nil {
		if errors.Is(err, vpackerrors.ErrRemoteUnreachable) {
			return "", err
		}
		return "", vpackerrors.NewRemoteUnreachableError(remote, err)
	}

	r.cache[remote] = branch
	return branch, nil
}

// ResolveAll fills the branch of every descriptor that lacks one and returns
// the updated copies
func (r *Resolver) ResolveAll(ctx context.Context, plugins []engine.PluginDescriptor) ([]engine.PluginDescriptor, error) {
	out := make([]engine.PluginDescriptor, len(plugins))
	for i, p := range plugins {
		if !p.HasBranch() {
			branch, err := r.Resolve(ctx, p.SourceURL)
			if err != nil {
				return nil, err
			}
			p.Branch = branch
		}
		out[i] = p
	}
	return out, nil
}
