// Package engine reconciles the plugins embedded in a repository with the
// plugins a manifest asks for.
//
// A run flows through:
//   - Inspect: enumerate installed plugins and classify them against the desired set
//   - BuildPlan: a pure function turning the classification into ordered operations
//   - Executor: apply the operations through a Strategy, one commit each
//   - Session: for strategies that rewrite the operator's branch, a disposable
//     branch that is merged back on success and abandoned on failure
//   - Drift: compare the operator's branch before and after
//
// Two strategies exist: SubtreeStrategy (squash-merge) and SubmoduleStrategy
// (linked checkout). Reconciler ties the pieces together.
package engine
