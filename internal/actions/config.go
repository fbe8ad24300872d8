package actions

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"vpack.dev/vpack/internal/config"
	"vpack.dev/vpack/internal/runtime"
)

// ConfigInitOptions contains options for `vpack config init`
type ConfigInitOptions struct {
	// Path overrides config.Path()
	Path  string
	Force bool
}

// ConfigInitAction writes the commented default configuration file
func ConfigInitAction(ctx *runtime.Context, opts ConfigInitOptions) error {
	path := opts.Path
	if path == "" {
		var err error
		path, err = config.Path()
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !opts.Force {
		return fmt.Errorf("%s already exists, use --force to overwrite it", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.DefaultConfig), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	ctx.Splog.Info("Wrote %s", path)
	return nil
}

// ConfigPathAction prints where the configuration file is looked up
func ConfigPathAction(ctx *runtime.Context) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.Out, path)
	return err
}

// ConfigShowAction prints the effective configuration as TOML
func ConfigShowAction(ctx *runtime.Context) error {
	return toml.NewEncoder(ctx.Out).Encode(ctx.Config)
}
