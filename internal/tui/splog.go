package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/natefinch/lumberjack.v2"
)

// consoleHandler prints bare messages: no timestamps, no levels
type consoleHandler struct {
	w       io.Writer
	verbose bool
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level > slog.LevelDebug || h.verbose
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	_, err := fmt.Fprintln(h.w, record.Message)
	return err
}

func (h *consoleHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *consoleHandler) WithGroup(string) slog.Handler      { return h }

// teeHandler sends each record to the console and, when configured, the log file
type teeHandler struct {
	console slog.Handler
	file    slog.Handler
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.console.Enabled(ctx, level) || (h.file != nil && h.file.Enabled(ctx, level))
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	if h.console.Enabled(ctx, record.Level) {
		errs = append(errs, h.console.Handle(ctx, record))
	}
	if h.file != nil {
		errs = append(errs, h.file.Handle(ctx, record))
	}
	return errors.Join(errs...)
}

func (h *teeHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *teeHandler) WithGroup(string) slog.Handler      { return h }

// envInt reads a positive integer override for the log rotation settings
func envInt(name string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(name)); err == nil && n > 0 {
		return n
	}
	return fallback
}

func newRotatingLog(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    envInt("VPACK_LOG_MAX_SIZE", 1), // megabytes
		MaxBackups: envInt("VPACK_LOG_MAX_BACKUPS", 2),
		MaxAge:     envInt("VPACK_LOG_MAX_AGE", 30), // days
	}
}

// Splog prints progress for the operator and mirrors every message, debug
// included, into a rotating log file
type Splog struct {
	logger *slog.Logger
	file   io.Closer
}

// NewSplogWithWriter creates a console-only splog writing to w. Debug
// messages are shown when verbose is set or DEBUG is in the environment.
func NewSplogWithWriter(w io.Writer, verbose bool) *Splog {
	splog, _ := NewSplogWithConfig(w, "", verbose)
	return splog
}

// NewSplogWithConfig creates a splog writing to w with optional file logging.
// The file receives every level regardless of verbose.
func NewSplogWithConfig(w io.Writer, logFilePath string, verbose bool) (*Splog, error) {
	handler := &teeHandler{
		console: &consoleHandler{w: w, verbose: verbose || os.Getenv("DEBUG") != ""},
	}
	splog := &Splog{}

	if logFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file := newRotatingLog(logFilePath)
		splog.file = file
		handler.file = slog.NewTextHandler(file, &slog.HandlerOptions{
			Level: slog.LevelDebug,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.String(a.Key, a.Value.Time().Format("2006-01-02 15:04:05.000"))
				}
				return a
			},
		})
	}

	splog.logger = slog.New(handler)
	return splog, nil
}

func (s *Splog) log(level slog.Level, prefix, format string, args []interface{}) {
	s.logger.Log(context.Background(), level, prefix+fmt.Sprintf(format, args...))
}

// Info writes a progress message
func (s *Splog) Info(format string, args ...interface{}) {
	s.log(slog.LevelInfo, "", format, args)
}

// Warn writes a warning
func (s *Splog) Warn(format string, args ...interface{}) {
	s.log(slog.LevelWarn, "⚠️  ", format, args)
}

// Debug writes a message shown only in verbose mode; the log file always gets it
func (s *Splog) Debug(format string, args ...interface{}) {
	s.log(slog.LevelDebug, "", format, args)
}

// Tip writes a suggestion for what to do next
func (s *Splog) Tip(format string, args ...interface{}) {
	s.log(slog.LevelInfo, "💡 ", format, args)
}

// Close closes the log file if one was opened
func (s *Splog) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
