package engine

import "fmt"

// DriftKind is the outcome of a run as seen from the operator's branch
type DriftKind int

const (
	NoChanges DriftKind = iota
	ChangesApplied
)

func (k DriftKind) String() string {
	if k == ChangesApplied {
		return "changes-applied"
	}
	return "no-changes"
}

// Report describes what a run did to the operator's branch
type Report struct {
	Kind   DriftKind
	Branch string
	Before string
	After  string

	// Applied lists the operations that ran, including ones that turned out
	// to be no-ops (an update of an unchanged upstream)
	Applied []Op

	// PendingBranch names the disposable branch still holding the changes
	// when they were not merged back
	PendingBranch string

	// Held lists plugins skipped because their update policy is disabled
	Held []PluginDescriptor
}

// Drift compares the revision of branch before and after a run. It only
// reports; it never touches the repository.
func Drift(branch, before, after string, applied []Op, pendingBranch string) Report {
	r := Report{
		Kind:    NoChanges,
		Branch:  branch,
		Before:  before,
		After:   after,
		Applied: applied,
	}
	if before != after {
		r.Kind = ChangesApplied
		r.PendingBranch = pendingBranch
	}
	return r
}

// Pending reports whether the changes still wait on the disposable branch
func (r Report) Pending() bool {
	return r.Kind == ChangesApplied && r.PendingBranch != ""
}

// Summary is the one-line verdict printed at the end of a run
func (r Report) Summary() string {
	switch {
	case r.Kind == NoChanges:
		return "All plugins are up to date, nothing to do"
	case r.Pending():
		return fmt.Sprintf("Plugins updated, merge %s to apply changes", r.PendingBranch)
	default:
		return fmt.Sprintf("Plugins updated on %s (%s..%s)", r.Branch, shortRev(r.Before), shortRev(r.After))
	}
}

func shortRev(rev string) string {
	if rev == "" {
		return "(root)"
	}
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
