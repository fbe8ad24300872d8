package actions_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vpack.dev/vpack/internal/actions"
	"vpack.dev/vpack/internal/config"
	"vpack.dev/vpack/internal/engine"
	vpackerrors "vpack.dev/vpack/internal/errors"
	"vpack.dev/vpack/internal/runtime"
	"vpack.dev/vpack/testhelpers"
)

func requireSubtree(t *testing.T) {
	t.Helper()
	out, err := exec.Command("git", "--exec-path").Output()
	require.NoError(t, err)
	if _, err := os.Stat(filepath.Join(strings.TrimSpace(string(out)), "git-subtree")); err != nil {
		t.Skip("git subtree is not installed")
	}
}

func newTestContext(t *testing.T, scene *testhelpers.Scene, cfg config.Config) (*runtime.Context, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	ctx := runtime.NewContext(cfg, &buf, false)
	ctx.WorkDir = scene.Repo.Dir
	ctx.GitEnv = testhelpers.GitEnv()
	return ctx, &buf
}

// writeManifest writes a YAML manifest listing the given upstreams by URL
func writeManifest(t *testing.T, scene *testhelpers.Scene, upstreams ...string) string {
	t.Helper()
	var sb strings.Builder
	for _, name := range upstreams {
		sb.WriteString("- " + scene.Upstreams[name].URL() + "\n")
	}
	p := filepath.Join(scene.Dir, "plugins.yaml")
	require.NoError(t, os.WriteFile(p, []byte(sb.String()), 0600))
	return p
}

func TestAction(t *testing.T) {
	t.Run("install then sync away a plugin with the subtree strategy", func(t *testing.T) {
		requireSubtree(t)
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		scene.NewUpstream("alpha", "main")
		scene.NewUpstream("beta", "main")
		ctx, buf := newTestContext(t, scene, config.Default())

		err := actions.Action(ctx, actions.Options{
			Action:    engine.ActionInstall,
			Manifests: []string{writeManifest(t, scene, "alpha", "beta")},
		})
		require.NoError(t, err)
		testhelpers.ExpectFile(t, scene.Repo, "pack/vendor/start/alpha/plugin/alpha.vim")
		testhelpers.ExpectFile(t, scene.Repo, "pack/vendor/start/beta/plugin/beta.vim")
		testhelpers.ExpectBranches(t, scene.Repo, []string{"main"})
		assert.Contains(t, buf.String(), "Plugins updated on main")

		clone := testhelpers.Must(testhelpers.NewGitRepoFromURL(filepath.Join(scene.Dir, "clone"), scene.Repo.URL()))
		testhelpers.ExpectFile(t, clone, "pack/vendor/start/alpha/plugin/alpha.vim")

		buf.Reset()
		err = actions.Action(ctx, actions.Options{
			Action:    engine.ActionSync,
			Manifests: []string{writeManifest(t, scene, "alpha")},
		})
		require.NoError(t, err)
		testhelpers.ExpectNoFile(t, scene.Repo, "pack/vendor/start/beta")
		testhelpers.ExpectCommits(t, scene.Repo, "Remove subtree 'pack/vendor/start/beta'")
		assert.Contains(t, buf.String(), "start/beta")
	})

	t.Run("a second run reports nothing to do", func(t *testing.T) {
		requireSubtree(t)
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		scene.NewUpstream("alpha", "main")
		ctx, buf := newTestContext(t, scene, config.Default())
		opts := actions.Options{
			Action:    engine.ActionUpdate,
			Manifests: []string{writeManifest(t, scene, "alpha")},
		}

		require.NoError(t, actions.Action(ctx, opts))
		buf.Reset()
		require.NoError(t, actions.Action(ctx, opts))
		assert.Contains(t, buf.String(), "All plugins are up to date, nothing to do")
	})

	t.Run("no-merge leaves the changes on the work branch", func(t *testing.T) {
		requireSubtree(t)
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		scene.NewUpstream("alpha", "main")
		ctx, buf := newTestContext(t, scene, config.Default())

		err := actions.Action(ctx, actions.Options{
			Action:     engine.ActionInstall,
			Manifests:  []string{writeManifest(t, scene, "alpha")},
			NoMerge:    true,
			WorkBranch: "vendor-bump",
		})
		require.NoError(t, err)

		testhelpers.ExpectBranches(t, scene.Repo, []string{"main", "vendor-bump"})
		testhelpers.ExpectNoFile(t, scene.Repo, "pack/vendor/start/alpha")
		assert.Contains(t, buf.String(), "merge vendor-bump to apply changes")

		require.NoError(t, scene.Repo.CheckoutBranch("vendor-bump"))
		testhelpers.ExpectFile(t, scene.Repo, "pack/vendor/start/alpha/plugin/alpha.vim")
	})

	t.Run("refuses a dirty working tree", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		scene.NewUpstream("alpha", "main")
		require.NoError(t, scene.Repo.CreateChange("dirty", "1", true))
		ctx, _ := newTestContext(t, scene, config.Default())

		err := actions.Action(ctx, actions.Options{
			Action:    engine.ActionSync,
			Manifests: []string{writeManifest(t, scene, "alpha")},
		})
		require.ErrorIs(t, err, vpackerrors.ErrDirtyWorkingTree)
	})

	t.Run("a missing manifest fails before touching git", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		ctx, _ := newTestContext(t, scene, config.Default())

		err := actions.Action(ctx, actions.Options{
			Action:    engine.ActionSync,
			Manifests: []string{filepath.Join(scene.Dir, "missing.yaml")},
		})
		require.ErrorIs(t, err, vpackerrors.ErrManifestNotFound)
	})

	t.Run("an unknown strategy is rejected", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		scene.NewUpstream("alpha", "main")
		ctx, _ := newTestContext(t, scene, config.Default())

		err := actions.Action(ctx, actions.Options{
			Action:    engine.ActionSync,
			Manifests: []string{writeManifest(t, scene, "alpha")},
			Strategy:  "copy",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown strategy")
	})

	t.Run("an invalid work branch is rejected", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		scene.NewUpstream("alpha", "main")
		ctx, _ := newTestContext(t, scene, config.Default())

		err := actions.Action(ctx, actions.Options{
			Action:     engine.ActionSync,
			Manifests:  []string{writeManifest(t, scene, "alpha")},
			WorkBranch: "update..plugins",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid branch name")
		testhelpers.ExpectBranches(t, scene.Repo, []string{"main"})
	})

	t.Run("submodule strategy initializes the pack repository", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)
		scene.NewUpstream("alpha", "main")
		ctx, _ := newTestContext(t, scene, config.Default())
		packDir := filepath.Join(scene.Dir, "pack")

		err := actions.Action(ctx, actions.Options{
			Action:    engine.ActionInstall,
			Manifests: []string{writeManifest(t, scene, "alpha")},
			Strategy:  config.StrategySubmodule,
			Dir:       packDir,
		})
		require.NoError(t, err)

		pack := &testhelpers.GitRepo{Dir: packDir}
		testhelpers.ExpectFile(t, pack, ".gitmodules")
		testhelpers.ExpectFile(t, pack, "start/alpha/plugin/alpha.vim")
		testhelpers.ExpectCommits(t, pack, "chore: add 'start/alpha'")
	})
}

func TestPlanAction(t *testing.T) {
	t.Run("lists operations without mutating", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		scene.NewUpstream("alpha", "main")
		ctx, buf := newTestContext(t, scene, config.Default())
		before := testhelpers.Must(scene.Repo.GetRevision("main"))

		err := actions.PlanAction(ctx, actions.Options{
			Action:    engine.ActionSync,
			Manifests: []string{writeManifest(t, scene, "alpha")},
		})
		require.NoError(t, err)

		after, err := scene.Repo.GetRevision("main")
		require.NoError(t, err)
		assert.Equal(t, before, after)
		testhelpers.ExpectBranches(t, scene.Repo, []string{"main"})
		assert.Contains(t, buf.String(), "start/alpha")
		assert.Contains(t, buf.String(), "0 to remove, 1 to add, 0 to update")
	})

	t.Run("resolves default branches on request", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		scene.NewUpstream("alpha", "trunk")
		ctx, buf := newTestContext(t, scene, config.Default())
		opts := actions.Options{
			Action:    engine.ActionSync,
			Manifests: []string{writeManifest(t, scene, "alpha")},
		}

		require.NoError(t, actions.PlanAction(ctx, opts))
		assert.NotContains(t, buf.String(), "@trunk")

		buf.Reset()
		opts.ResolveBranches = true
		require.NoError(t, actions.PlanAction(ctx, opts))
		assert.Contains(t, buf.String(), scene.Upstreams["alpha"].URL()+"@trunk")
	})

	t.Run("an unreachable remote fails a resolving plan", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		manifest := filepath.Join(scene.Dir, "plugins.yaml")
		require.NoError(t, os.WriteFile(manifest, []byte("- file://"+filepath.ToSlash(filepath.Join(scene.Dir, "nowhere"))+"\n"), 0600))
		ctx, _ := newTestContext(t, scene, config.Default())

		err := actions.PlanAction(ctx, actions.Options{
			Action:          engine.ActionSync,
			Manifests:       []string{manifest},
			ResolveBranches: true,
		})
		require.ErrorIs(t, err, vpackerrors.ErrRemoteUnreachable)
	})

	t.Run("a missing submodule pack directory plans every add", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)
		scene.NewUpstream("alpha", "main")
		scene.NewUpstream("beta", "main")
		ctx, buf := newTestContext(t, scene, config.Default())
		packDir := filepath.Join(scene.Dir, "pack")

		err := actions.PlanAction(ctx, actions.Options{
			Action:    engine.ActionInstall,
			Manifests: []string{writeManifest(t, scene, "alpha", "beta")},
			Strategy:  config.StrategySubmodule,
			Dir:       packDir,
		})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "0 to remove, 2 to add, 0 to update")
		assert.NoDirExists(t, packDir)
	})
}
