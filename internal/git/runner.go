package git

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	vpackerrors "vpack.dev/vpack/internal/errors"
)

// DefaultCommandTimeout is the default timeout for local git commands.
// Commands that talk to a remote (subtree, submodule) run without one and are
// bounded by the transport.
const DefaultCommandTimeout = 5 * time.Minute

// CommandLogger receives every git invocation before it runs
type CommandLogger interface {
	Debug(format string, args ...interface{})
}

// CommandRunner handles execution of git commands
type CommandRunner struct {
	workingDir string
	env        []string
	logger     CommandLogger
}

// NewCommandRunner creates a new CommandRunner
func NewCommandRunner(workingDir string) *CommandRunner {
	return &CommandRunner{workingDir: workingDir}
}

// SetLogger sets the logger that echoes each git command
func (r *CommandRunner) SetLogger(logger CommandLogger) {
	r.logger = logger
}

// SetEnv sets extra environment variables passed to every command
func (r *CommandRunner) SetEnv(env []string) {
	r.env = env
}

// Run executes a git command with the default timeout and returns the trimmed output
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, true, true, args...)
}

// RunRemote executes a git command that may talk to a remote. No timeout is
// added beyond what ctx carries.
func (r *CommandRunner) RunRemote(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, false, true, args...)
}

// RunExitCode executes a git command whose exit status carries the answer
// (e.g. diff --quiet). A non-zero exit is returned as code, not as an error.
func (r *CommandRunner) RunExitCode(ctx context.Context, args ...string) (int, error) {
	_, err := r.Run(ctx, args...)
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// runInternal is the internal implementation that handles timeouts and trimming
func (r *CommandRunner) runInternal(ctx context.Context, withTimeout bool, trim bool, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok && withTimeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	if r.logger != nil {
		r.logger.Debug("git %s", strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	// Never block on a credential prompt
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	cmd.Env = append(cmd.Env, r.env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", vpackerrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", vpackerrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), err)
	}
	if trim {
		return strings.TrimSpace(stdout.String()), nil
	}
	return stdout.String(), nil
}
