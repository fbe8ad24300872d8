package runtime

import (
	"context"
	"fmt"
	"io"
	"os"

	"vpack.dev/vpack/internal/config"
	"vpack.dev/vpack/internal/tui"
)

// Context provides access to configuration and output for commands
type Context struct {
	Context     context.Context
	Config      config.Config
	Splog       *tui.Splog
	Out         io.Writer
	Interactive bool
	// WorkDir is where the host repository is looked up for the subtree strategy
	WorkDir string
	// GitEnv is appended to the environment of every git command
	GitEnv []string
}

// NewContext creates a context around cfg that logs to out
func NewContext(cfg config.Config, out io.Writer, verbose bool) *Context {
	return &Context{
		Context: context.Background(),
		Config:  cfg,
		Splog:   tui.NewSplogWithWriter(out, verbose),
		Out:     out,
	}
}

// GetContext loads the configuration and sets up logging to out and the log
// file for a command run
func GetContext(ctx context.Context, out io.Writer, verbose bool) (*Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	splog, err := tui.NewSplogWithConfig(out, tui.GetLogFilePath(cfg.LogFile), verbose)
	if err != nil {
		// A broken log file location must not stop a run
		splog = tui.NewSplogWithWriter(out, verbose)
		splog.Debug("file logging disabled: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	return &Context{
		Context:     ctx,
		Config:      cfg,
		Splog:       splog,
		Out:         out,
		Interactive: tui.IsTTY(),
		WorkDir:     wd,
	}, nil
}

// Close releases the log file
func (c *Context) Close() error {
	return c.Splog.Close()
}
