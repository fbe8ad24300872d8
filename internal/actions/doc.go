// Package actions provides high-level business logic for CLI commands.
//
// Each action corresponds to a vpack command (install, update, sync, clean,
// plan, config) and wires the manifest loader, the git layer and the
// reconciliation engine together.
//
// Key patterns:
//   - Actions accept runtime.Context which provides Config, Splog and other dependencies
//   - Actions are stateless: every run re-reads the manifests and the repository
//   - Actions handle user interaction through the tui package
package actions
