package cli_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vpack.dev/vpack/internal/cli"
	"vpack.dev/vpack/testhelpers"
)

// isolate points config, logs and git at throw-away locations and moves into dir
func isolate(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("VPACK_CONFIG", filepath.Join(t.TempDir(), "config.toml"))
	t.Setenv("VPACK_LOG_FILE", filepath.Join(t.TempDir(), "vpack.log"))
	t.Setenv("VPACK_NO_INTERACTIVE", "1")
	for _, kv := range testhelpers.GitEnv() {
		k, v, _ := strings.Cut(kv, "=")
		t.Setenv(k, v)
	}
	t.Chdir(dir)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := cli.NewRootCmd("1.2.3", "abc1234", "2026-01-01")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "vpack 1.2.3 (commit abc1234, built 2026-01-01)\n", out)
}

func TestReconcileCommands(t *testing.T) {
	t.Run("require at least one manifest", func(t *testing.T) {
		for _, name := range []string{"install", "update", "sync", "clean", "plan"} {
			_, err := execute(t, name)
			require.Error(t, err, name)
		}
	})

	t.Run("sync and plan against a host repository", func(t *testing.T) {
		out, err := exec.Command("git", "--exec-path").Output()
		require.NoError(t, err)
		if _, err := os.Stat(filepath.Join(strings.TrimSpace(string(out)), "git-subtree")); err != nil {
			t.Skip("git subtree is not installed")
		}

		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		alpha := scene.NewUpstream("alpha", "main")
		manifest := filepath.Join(scene.Dir, "plugins.yaml")
		require.NoError(t, os.WriteFile(manifest, []byte("- repo: "+alpha.URL()+"\n  opt: true\n"), 0600))
		isolate(t, scene.Repo.Dir)

		output, err := execute(t, "plan", manifest)
		require.NoError(t, err)
		assert.Contains(t, output, "opt/alpha")
		assert.Contains(t, output, "0 to remove, 1 to add, 0 to update")

		output, err = execute(t, "sync", "--dir", "vendor", manifest)
		require.NoError(t, err, output)
		testhelpers.ExpectFile(t, scene.Repo, "vendor/opt/alpha/plugin/alpha.vim")
		assert.Contains(t, output, "Plugins updated on main")

		subject, err := scene.Repo.RunGitCommandAndGetOutput("log", "-1", "--format=%s")
		require.NoError(t, err)
		assert.Equal(t, "chore: update 'vendor/opt/alpha'", subject)

		output, err = execute(t, "plan", "--dir", "vendor", "--skip-pulls", manifest)
		require.NoError(t, err)
		assert.Contains(t, output, "All plugins are up to date, nothing to do")
	})

	t.Run("plan rejects an unknown action", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		isolate(t, scene.Repo.Dir)

		_, err := execute(t, "plan", "--action", "prune", "plugins.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown action "prune"`)
	})
}

func TestConfigCommand(t *testing.T) {
	isolate(t, t.TempDir())

	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	assert.Equal(t, os.Getenv("VPACK_CONFIG"), path)

	_, err = execute(t, "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = execute(t, "config", "init")
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("strategy = \"submodule\"\n"), 0600))
	out, err = execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `strategy = "submodule"`)
}
