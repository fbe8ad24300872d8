package config

import (
	"fmt"
	"slices"
	"strings"

	"vpack.dev/vpack/internal/utils"
)

// Valid enum values for configuration fields.
var (
	ValidStrategies = []string{StrategySubtree, StrategySubmodule}
	ValidBackends   = []string{BackendGit, BackendGitHub}
)

// Validate checks enum fields and the work branch name
func (c *Config) Validate() error {
	if err := validateEnum(c.Strategy, "strategy", ValidStrategies); err != nil {
		return err
	}
	if err := validateEnum(c.Resolver.Backend, "resolver.backend", ValidBackends); err != nil {
		return err
	}
	if c.WorkBranch != "" {
		if err := utils.ValidateBranchName(c.WorkBranch); err != nil {
			return fmt.Errorf("work_branch: %w", err)
		}
	}
	return nil
}

// ValidateStrategy validates a strategy value against ValidStrategies.
// Exported for use in CLI flag validation.
func ValidateStrategy(strategy string) error {
	return validateEnum(strategy, "strategy", ValidStrategies)
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
