package engine

// PlanOptions are the two orthogonal run-level inputs of the planner
type PlanOptions struct {
	Action Action
	Mode   RunMode
}

// Plan is the ordered operation list of one run
type Plan struct {
	Ops []Op

	// Held lists installed plugins left alone because their policy disables updates
	Held []PluginDescriptor
}

// IsEmpty reports whether the plan has no operations
func (p Plan) IsEmpty() bool {
	return len(p.Ops) == 0
}

// Count returns the number of operations of kind
func (p Plan) Count(kind OpKind) int {
	n := 0
	for _, op := range p.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// BuildPlan converts a classification into operations: all removals, then all
// adds, then all updates. Adds and updates follow manifest order, removals
// follow path order.
func BuildPlan(c Classification, opts PlanOptions) Plan {
	var plan Plan

	if opts.Action.removes() {
		for _, p := range c.Undesired {
			plan.Ops = append(plan.Ops, RemoveOp(p.Path))
		}
	}

	if opts.Action.adds() {
		for _, d := range c.DesiredAbsent {
			plan.Ops = append(plan.Ops, AddOp(d))
		}
	}

	if opts.Action.updates() && opts.Mode == ModeFull {
		for _, d := range c.DesiredPresent {
			if d.UpdatePolicy.IsDisabled() {
				plan.Held = append(plan.Held, d)
				continue
			}
			plan.Ops = append(plan.Ops, UpdateOp(d))
		}
	}

	return plan
}

// PlanFor classifies and plans in one step
func PlanFor(desired []PluginDescriptor, installed []InstalledPlugin, opts PlanOptions) Plan {
	return BuildPlan(Classify(desired, installed), opts)
}
