package testhelpers

import (
	"path/filepath"
	"testing"
)

// Scene is a host repository plus any number of plugin upstreams, all living
// under one temporary directory.
type Scene struct {
	Dir       string
	Repo      *GitRepo
	Upstreams map[string]*GitRepo
	t         *testing.T
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene with a host repository at Dir/host.
// Cleanup is handled by t.TempDir.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	tmpDir := t.TempDir()
	repo, err := NewGitRepo(filepath.Join(tmpDir, "host"))
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:       tmpDir,
		Repo:      repo,
		Upstreams: map[string]*GitRepo{},
		t:         t,
	}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// NewUpstream creates a plugin repository named name with one commit on
// branch and registers it in Upstreams.
func (s *Scene) NewUpstream(name, branch string) *GitRepo {
	s.t.Helper()

	repo, err := NewGitRepoOnBranch(filepath.Join(s.Dir, "upstream", name), branch)
	if err != nil {
		s.t.Fatalf("Failed to create upstream %s: %v", name, err)
	}
	if err := repo.WriteFile("plugin/"+name+".vim", "\" "+name+"\n"); err != nil {
		s.t.Fatalf("Failed to write upstream %s: %v", name, err)
	}
	if err := repo.CreateChangeAndCommit("initial "+name, ""); err != nil {
		s.t.Fatalf("Failed to commit upstream %s: %v", name, err)
	}

	s.Upstreams[name] = repo
	return repo
}

// BasicSceneSetup is a setup function that creates a basic scene with a single commit.
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("1", "1")
}
