package git

import (
	"context"
	"fmt"
)

// SetConfig writes key=value into the repository's local configuration
func (r *Repository) SetConfig(ctx context.Context, key, value string) error {
	if _, err := r.runner.Run(ctx, "config", key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// GetConfig reads key from the repository configuration. A missing key is
// returned as an empty string.
func (r *Repository) GetConfig(ctx context.Context, key string) (string, error) {
	code, err := r.runner.RunExitCode(ctx, "config", "--get", key)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	if code != 0 {
		return "", nil
	}
	return r.runner.Run(ctx, "config", "--get", key)
}
