package git_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"vpack.dev/vpack/internal/git"
	"vpack.dev/vpack/testhelpers"
)

func TestDefaultBranch(t *testing.T) {
	t.Run("reads the symbolic HEAD of a remote", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)
		upstream := scene.NewUpstream("vim-surround", "trunk")

		branch, err := git.DefaultBranch(context.Background(), upstream.URL())
		require.NoError(t, err)
		require.Equal(t, "trunk", branch)
	})

	t.Run("follows HEAD rather than branch names", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)
		upstream := scene.NewUpstream("vim-repeat", "main")
		require.NoError(t, upstream.CreateAndCheckoutBranch("develop"))
		require.NoError(t, upstream.CreateChangeAndCommit("dev work", "dev"))

		branch, err := git.DefaultBranch(context.Background(), upstream.URL())
		require.NoError(t, err)
		require.Equal(t, "develop", branch)
	})

	t.Run("unreachable remotes fail", func(t *testing.T) {
		missing := "file://" + filepath.ToSlash(filepath.Join(t.TempDir(), "missing"))
		_, err := git.DefaultBranch(context.Background(), missing)
		require.Error(t, err)
	})
}
