// Package testhelpers provides testing utilities for vpack: throw-away host
// repositories, plugin upstreams and custom assertions.
package testhelpers

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. This is useful for test setup code
// where errors are not expected and should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectBranches asserts that the repository has exactly the expected branches.
func ExpectBranches(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	branches, err := repo.GetLocalBranches()
	require.NoError(t, err, "Failed to list branches")

	sort.Strings(branches)
	sorted := append([]string(nil), expected...)
	sort.Strings(sorted)

	require.Equal(t, sorted, branches, "Branches do not match")
}

// ExpectCommits asserts that the newest commit subjects on the current branch
// are expected, newest first.
func ExpectCommits(t *testing.T, repo *GitRepo, expected ...string) {
	t.Helper()

	messages, err := repo.ListCurrentBranchCommitMessages()
	require.NoError(t, err, "Failed to list commits")
	require.GreaterOrEqual(t, len(messages), len(expected), "Not enough commits: %v", messages)
	require.Equal(t, expected, messages[:len(expected)])
}

// ExpectFile asserts that a file relative to the repository root exists.
func ExpectFile(t *testing.T, repo *GitRepo, name string) {
	t.Helper()
	_, err := os.Stat(filepath.Join(repo.Dir, name))
	require.NoError(t, err, "Expected %s to exist", name)
}

// ExpectNoFile asserts that a path relative to the repository root does not exist.
func ExpectNoFile(t *testing.T, repo *GitRepo, name string) {
	t.Helper()
	_, err := os.Stat(filepath.Join(repo.Dir, name))
	require.True(t, os.IsNotExist(err), "Expected %s to be absent", name)
}
