// Package runtime provides the execution context for vpack commands.
//
// It encapsulates shared dependencies needed by actions: the loaded
// configuration, the logger and whether the operator can be prompted.
package runtime
