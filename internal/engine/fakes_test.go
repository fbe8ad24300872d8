package engine_test

import (
	"context"
	"fmt"
	"sort"

	"vpack.dev/vpack/internal/engine"
	vpackerrors "vpack.dev/vpack/internal/errors"
)

// fakeRepo is an in-memory branch/commit model of a host repository
type fakeRepo struct {
	branches map[string]string
	current  string
	dirty    bool
	staged   bool
	commits  []string
	next     int

	switchErr error
	deleteErr error
	calls     []string
}

func newFakeRepo(branch string) *fakeRepo {
	return &fakeRepo{
		branches: map[string]string{branch: "base"},
		current:  branch,
	}
}

func (r *fakeRepo) Root() string { return "/fake" }

func (r *fakeRepo) CurrentBranch(context.Context) (string, error) {
	return r.current, nil
}

func (r *fakeRepo) ResolveRevision(_ context.Context, ref string) (string, error) {
	rev, ok := r.branches[ref]
	if !ok {
		return "", fmt.Errorf("%s: %w", ref, vpackerrors.ErrRevisionNotFound)
	}
	return rev, nil
}

func (r *fakeRepo) HasLocalChanges(context.Context) (bool, error) {
	return r.dirty, nil
}

func (r *fakeRepo) CreateAndSwitch(_ context.Context, name string) error {
	r.calls = append(r.calls, "create "+name)
	r.branches[name] = r.branches[r.current]
	r.current = name
	return nil
}

func (r *fakeRepo) SwitchTo(_ context.Context, name string, force bool) error {
	r.calls = append(r.calls, fmt.Sprintf("switch %s force=%v", name, force))
	if r.switchErr != nil {
		return r.switchErr
	}
	if _, ok := r.branches[name]; !ok {
		return fmt.Errorf("no branch %s", name)
	}
	r.current = name
	r.staged = false
	return nil
}

func (r *fakeRepo) MergeFastForward(_ context.Context, rev string) error {
	r.calls = append(r.calls, "merge "+rev)
	r.branches[r.current] = r.branches[rev]
	return nil
}

func (r *fakeRepo) DeleteBranch(_ context.Context, name string) error {
	r.calls = append(r.calls, "delete "+name)
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.branches, name)
	return nil
}

func (r *fakeRepo) Commit(_ context.Context, message string) (bool, error) {
	if !r.staged {
		return false, nil
	}
	r.staged = false
	r.next++
	rev := fmt.Sprintf("c%d", r.next)
	r.branches[r.current] = rev
	r.commits = append(r.commits, message)
	return true, nil
}

// fakeStrategy records operations and stages a change for each one
type fakeStrategy struct {
	repo           *fakeRepo
	installed      map[string]bool
	transactional  bool
	requiresBranch bool
	modified       map[string]bool
	fail           map[string]error
	unchanged      map[string]bool
	calls          []string
}

func newFakeStrategy(repo *fakeRepo, installed ...string) *fakeStrategy {
	s := &fakeStrategy{
		repo:           repo,
		installed:      map[string]bool{},
		transactional:  true,
		requiresBranch: true,
		modified:       map[string]bool{},
		fail:           map[string]error{},
		unchanged:      map[string]bool{},
	}
	for _, p := range installed {
		s.installed[p] = true
	}
	return s
}

func (s *fakeStrategy) Kind() engine.StrategyKind { return "fake" }
func (s *fakeStrategy) Transactional() bool       { return s.transactional }
func (s *fakeStrategy) RequiresBranch() bool      { return s.requiresBranch }

func (s *fakeStrategy) Installed(context.Context) ([]engine.InstalledPlugin, error) {
	paths := make([]string, 0, len(s.installed))
	for p := range s.installed {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	out := make([]engine.InstalledPlugin, 0, len(paths))
	for _, p := range paths {
		out = append(out, engine.InstalledPlugin{Path: p, Present: true})
	}
	return out, nil
}

func (s *fakeStrategy) record(call, path string) error {
	s.calls = append(s.calls, call)
	if err := s.fail[call]; err != nil {
		return err
	}
	if !s.unchanged[path] {
		s.repo.staged = true
	}
	return nil
}

func (s *fakeStrategy) EmbedNew(_ context.Context, p engine.PluginDescriptor) error {
	if err := s.record(fmt.Sprintf("add %s@%s", p.Name, p.Branch), p.Name); err != nil {
		return err
	}
	s.installed[p.Name] = true
	return nil
}

func (s *fakeStrategy) PullInto(_ context.Context, p engine.PluginDescriptor) error {
	return s.record(fmt.Sprintf("update %s@%s", p.Name, p.Branch), p.Name)
}

func (s *fakeStrategy) RemoveTree(_ context.Context, path string, force bool) error {
	if s.modified[path] && !force {
		s.calls = append(s.calls, "refuse "+path)
		return fmt.Errorf("%s: %w", path, vpackerrors.ErrPluginModified)
	}
	if err := s.record("remove "+path, path); err != nil {
		return err
	}
	delete(s.installed, path)
	return nil
}

func (s *fakeStrategy) CommitMessage(op engine.Op) string {
	return op.String()
}

// countingResolver answers every remote with "main" and counts queries
type countingResolver struct {
	calls map[string]int
	err   error
}

func newCountingResolver() *countingResolver {
	return &countingResolver{calls: map[string]int{}}
}

func (r *countingResolver) Resolve(_ context.Context, remote string) (string, error) {
	r.calls[remote]++
	if r.err != nil {
		return "", r.err
	}
	return "main", nil
}

func plugin(name string) engine.PluginDescriptor {
	return engine.PluginDescriptor{
		SourceURL:    "https://example.com/" + name,
		Name:         "start/" + name,
		UpdatePolicy: engine.UpdateAuto,
	}
}

func held(name string) engine.PluginDescriptor {
	p := plugin(name)
	p.UpdatePolicy = engine.UpdateDisabled
	return p
}

type recordingLogger struct {
	infos []string
	warns []string
}

func (l *recordingLogger) Info(format string, args ...interface{}) {
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warn(format string, args ...interface{}) {
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debug(string, ...interface{}) {}
