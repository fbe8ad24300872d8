// Package git provides the version-control primitives vpack is built on.
//
// Read-only queries (current branch, revision resolution, the submodule
// registry, a remote's default branch) go through go-git. Porcelain that
// go-git does not implement (subtree, submodule add, switch) shells out to the
// git binary through CommandRunner.
package git
