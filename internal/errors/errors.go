// Package errors provides sentinel errors and custom error types for vpack.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes of a reconciliation run.
var (
	// ErrManifestNotFound indicates that a manifest path does not exist
	ErrManifestNotFound = errors.New("manifest not found")

	// ErrManifestParse indicates that a manifest is structurally invalid
	ErrManifestParse = errors.New("manifest parse error")

	// ErrNoPlugins indicates that the manifests declare no plugins at all
	ErrNoPlugins = errors.New("no plugins specified")

	// ErrRemoteUnreachable indicates that a remote could not be queried
	ErrRemoteUnreachable = errors.New("remote unreachable")

	// ErrDirtyWorkingTree indicates uncommitted modifications in the host repository
	ErrDirtyWorkingTree = errors.New("working tree has modifications")

	// ErrReconciliationFailed indicates that an operation of the plan failed
	ErrReconciliationFailed = errors.New("reconciliation failed")

	// ErrPluginModified indicates that a linked plugin has local modifications
	ErrPluginModified = errors.New("plugin has local modifications")

	// ErrNotOnBranch indicates that HEAD is not on a branch
	ErrNotOnBranch = errors.New("not on a branch")

	// ErrRevisionNotFound indicates that a ref does not resolve to a commit,
	// e.g. the branch of a repository without commits
	ErrRevisionNotFound = errors.New("revision not found")
)

// ManifestNotFoundError represents a manifest path that does not exist or is not a file
type ManifestNotFoundError struct {
	Path string
}

func (e *ManifestNotFoundError) Error() string {
	return fmt.Sprintf("file doesn't exist: %s", e.Path)
}

// Is returns true if the target error is ErrManifestNotFound
func (e *ManifestNotFoundError) Is(target error) bool {
	return target == ErrManifestNotFound
}

// NewManifestNotFoundError creates a new ManifestNotFoundError
func NewManifestNotFoundError(path string) *ManifestNotFoundError {
	return &ManifestNotFoundError{Path: path}
}

// ManifestParseError represents a malformed manifest or manifest entry.
// Entry is the zero-based entry index, or -1 when the whole document is at fault.
type ManifestParseError struct {
	Path   string
	Entry  int
	Reason string
	Err    error
}

func (e *ManifestParseError) Error() string {
	msg := fmt.Sprintf("invalid manifest %s", e.Path)
	if e.Entry >= 0 {
		msg += fmt.Sprintf(" (entry %d)", e.Entry)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Is returns true if the target error is ErrManifestParse
func (e *ManifestParseError) Is(target error) bool {
	return target == ErrManifestParse
}

func (e *ManifestParseError) Unwrap() error {
	return e.Err
}

// NewManifestParseError creates a new ManifestParseError
func NewManifestParseError(path string, entry int, reason string, err error) *ManifestParseError {
	return &ManifestParseError{
		Path:   path,
		Entry:  entry,
		Reason: reason,
		Err:    err,
	}
}

// RemoteUnreachableError represents a failed remote introspection query
type RemoteUnreachableError struct {
	Remote string
	Err    error
}

func (e *RemoteUnreachableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote %s unreachable: %v", e.Remote, e.Err)
	}
	return fmt.Sprintf("remote %s unreachable", e.Remote)
}

// Is returns true if the target error is ErrRemoteUnreachable
func (e *RemoteUnreachableError) Is(target error) bool {
	return target == ErrRemoteUnreachable
}

func (e *RemoteUnreachableError) Unwrap() error {
	return e.Err
}

// NewRemoteUnreachableError creates a new RemoteUnreachableError
func NewRemoteUnreachableError(remote string, err error) *RemoteUnreachableError {
	return &RemoteUnreachableError{Remote: remote, Err: err}
}

// DirtyWorkingTreeError is returned before any mutation when the repository
// at Dir has uncommitted changes.
type DirtyWorkingTreeError struct {
	Dir string
}

func (e *DirtyWorkingTreeError) Error() string {
	return fmt.Sprintf("working tree %s has modifications, first commit all your changes", e.Dir)
}

// Is returns true if the target error is ErrDirtyWorkingTree
func (e *DirtyWorkingTreeError) Is(target error) bool {
	return target == ErrDirtyWorkingTree
}

// NewDirtyWorkingTreeError creates a new DirtyWorkingTreeError
func NewDirtyWorkingTreeError(dir string) *DirtyWorkingTreeError {
	return &DirtyWorkingTreeError{Dir: dir}
}

// ReconciliationFailedError wraps the cause of the first failing operation.
// Op is the human readable form of the operation.
type ReconciliationFailedError struct {
	Op  string
	Err error
}

func (e *ReconciliationFailedError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

// Is returns true if the target error is ErrReconciliationFailed
func (e *ReconciliationFailedError) Is(target error) bool {
	return target == ErrReconciliationFailed
}

func (e *ReconciliationFailedError) Unwrap() error {
	return e.Err
}

// NewReconciliationFailedError creates a new ReconciliationFailedError
func NewReconciliationFailedError(op string, err error) *ReconciliationFailedError {
	return &ReconciliationFailedError{Op: op, Err: err}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
