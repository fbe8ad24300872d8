package engine

import (
	"context"
	"errors"
	"fmt"

	vpackerrors "vpack.dev/vpack/internal/errors"
)

// SessionState tracks a disposable-branch session
type SessionState int

const (
	StateIdle SessionState = iota
	StateBranchCreated
	StateReconciling
	// StateMergedBack: the operator's branch now holds the work (or nothing changed)
	StateMergedBack
	// StatePending: the work was kept on the disposable branch for the operator to merge
	StatePending
	// StateRolledBack: the operator's branch was restored, the disposable branch kept
	StateRolledBack
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBranchCreated:
		return "branch-created"
	case StateReconciling:
		return "reconciling"
	case StateMergedBack:
		return "merged-back"
	case StatePending:
		return "pending"
	case StateRolledBack:
		return "rolled-back"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// Session owns the switch to a disposable branch and the way back.
// Close must run on every exit path; it rolls back unless Commit succeeded.
type Session struct {
	git GitRunner
	log Logger

	OriginalRef string
	OriginalRev string
	WorkingRef  string

	committed bool
	state     SessionState
}

// BeginSession records the operator's branch and switches to workBranch,
// recreating it at HEAD.
func BeginSession(ctx context.Context, g GitRunner, workBranch string, log Logger) (*Session, error) {
	if log == nil {
		log = nopLogger{}
	}

	original, err := g.CurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot start a disposable branch: %w", err)
	}
	if original == workBranch {
		return nil, fmt.Errorf("already on %s; switch to the branch the plugins should land on", workBranch)
	}

	rev, err := g.ResolveRevision(ctx, original)
	if err != nil {
		return nil, err
	}

	s := &Session{
		git:         g,
		log:         log,
		OriginalRef: original,
		OriginalRev: rev,
		WorkingRef:  workBranch,
	}

	log.Info("switching branch to %s", workBranch)
	if err := g.CreateAndSwitch(ctx, workBranch); err != nil {
		return nil, err
	}
	s.state = StateBranchCreated
	return s, nil
}

// State returns the current session state
func (s *Session) State() SessionState {
	return s.state
}

// MarkReconciling records that operations are about to run on the work branch
func (s *Session) MarkReconciling() {
	if s.state == StateBranchCreated {
		s.state = StateReconciling
	}
}

// Commit switches back to the operator's branch. With mergeBack the branch is
// fast-forwarded to the work and the disposable branch deleted; otherwise the
// work stays on the disposable branch. A disposable branch without changes
// is always deleted. It returns the revision holding the result.
func (s *Session) Commit(ctx context.Context, mergeBack bool) (string, error) {
	if s.state != StateBranchCreated && s.state != StateReconciling {
		return "", fmt.Errorf("cannot commit session in state %s", s.state)
	}

	workRev, err := s.git.ResolveRevision(ctx, s.WorkingRef)
	if err != nil {
		return "", err
	}

	s.log.Info("switching back to %s", s.OriginalRef)
	if err := s.git.SwitchTo(ctx, s.OriginalRef, false); err != nil {
		return "", err
	}

	if workRev != s.OriginalRev && !mergeBack {
		s.committed = true
		s.state = StatePending
		return workRev, nil
	}

	if workRev != s.OriginalRev {
		if err := s.git.MergeFastForward(ctx, s.WorkingRef); err != nil {
			return "", err
		}
	}
	// The operator's branch holds the result from here on
	s.committed = true
	s.state = StateMergedBack

	if err := s.git.DeleteBranch(ctx, s.WorkingRef); err != nil {
		s.log.Warn("could not delete %s: %v", s.WorkingRef, err)
	}
	return workRev, nil
}

// Close restores the operator's branch when the session was not committed.
// The disposable branch is left in place for inspection.
func (s *Session) Close(ctx context.Context) error {
	if s.committed || s.state == StateIdle || s.state == StateRolledBack {
		return nil
	}

	s.log.Warn("update failed, switching back to %s (work left on %s)", s.OriginalRef, s.WorkingRef)
	// Rollback must run even when the run was cancelled
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}
	if err := s.git.SwitchTo(ctx, s.OriginalRef, true); err != nil {
		return fmt.Errorf("rollback to %s failed: %w", s.OriginalRef, err)
	}

	s.state = StateRolledBack
	return nil
}

// revisionOrEmpty resolves ref, mapping a branch without commits to ""
func revisionOrEmpty(ctx context.Context, g GitRunner, ref string) (string, error) {
	rev, err := g.ResolveRevision(ctx, ref)
	if errors.Is(err, vpackerrors.ErrRevisionNotFound) {
		return "", nil
	}
	return rev, err
}
