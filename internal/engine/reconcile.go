package engine

import (
	"context"
	"errors"

	vpackerrors "vpack.dev/vpack/internal/errors"
)

// DefaultWorkBranch is the disposable branch transactional runs work on
const DefaultWorkBranch = "update-plugins"

// ReconcileOptions configure one run
type ReconcileOptions struct {
	Plan       PlanOptions
	Executor   ExecutorOptions
	WorkBranch string
	// MergeBack fast-forwards the operator's branch to the disposable branch
	// on success; otherwise the changes are left pending there
	MergeBack bool
}

// Reconciler runs the inspect, plan, execute and report pipeline
type Reconciler struct {
	git      GitRunner
	strategy Strategy
	resolver BranchResolver
	log      Logger
}

// NewReconciler creates a Reconciler. log may be nil.
func NewReconciler(g GitRunner, strategy Strategy, resolver BranchResolver, log Logger) *Reconciler {
	if log == nil {
		log = nopLogger{}
	}
	return &Reconciler{
		git:      g,
		strategy: strategy,
		resolver: resolver,
		log:      log,
	}
}

// Plan inspects the repository and computes the operations a run would
// perform, without mutating anything
func (r *Reconciler) Plan(ctx context.Context, desired []PluginDescriptor, opts PlanOptions) (Plan, error) {
	c, err := Inspect(ctx, r.strategy, desired)
	if err != nil {
		return Plan{}, err
	}
	return BuildPlan(c, opts), nil
}

// Run reconciles the repository with desired. It refuses to start on a dirty
// working tree. For transactional strategies the whole run happens on a
// disposable branch and the operator's branch is restored on any failure.
func (r *Reconciler) Run(ctx context.Context, desired []PluginDescriptor, opts ReconcileOptions) (report *Report, err error) {
	dirty, err := r.git.HasLocalChanges(ctx)
	if err != nil {
		return nil, err
	}
	if dirty {
		return nil, vpackerrors.NewDirtyWorkingTreeError(r.git.Root())
	}

	branch, err := r.git.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}
	before, err := revisionOrEmpty(ctx, r.git, branch)
	if err != nil {
		return nil, err
	}

	var session *Session
	if r.strategy.Transactional() {
		workBranch := opts.WorkBranch
		if workBranch == "" {
			workBranch = DefaultWorkBranch
		}
		session, err = BeginSession(ctx, r.git, workBranch, r.log)
		if err != nil {
			return nil, err
		}
		defer func() {
			if cerr := session.Close(ctx); cerr != nil {
				report = nil
				err = errors.Join(err, cerr)
			}
		}()
	}

	plan, err := r.Plan(ctx, desired, opts.Plan)
	if err != nil {
		return nil, err
	}
	for _, held := range plan.Held {
		r.log.Info("update disabled for %s, skipping", held.Name)
	}

	if session != nil {
		session.MarkReconciling()
	}

	executor := NewExecutor(r.git, r.strategy, r.resolver, r.log, opts.Executor)
	result, err := executor.Execute(ctx, plan.Ops)
	if err != nil {
		return nil, err
	}

	after := ""
	pending := ""
	if session != nil {
		after, err = session.Commit(ctx, opts.MergeBack)
		if err != nil {
			return nil, err
		}
		if session.State() == StatePending {
			pending = session.WorkingRef
		}
	} else {
		after, err = revisionOrEmpty(ctx, r.git, branch)
		if err != nil {
			return nil, err
		}
	}

	rep := Drift(branch, before, after, result.Applied, pending)
	rep.Held = plan.Held
	return &rep, nil
}
