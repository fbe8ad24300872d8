// Package tui provides the terminal side of vpack.
//
// It handles:
//   - Structured logging and status reporting (Splog)
//   - Terminal styling and colors (using lipgloss)
//   - Interactive confirmation (using survey)
package tui
