// Package utils provides shared utility functions.
//
// These utilities are used across multiple packages and include:
//   - Branch name validation
//   - Reading piped input from standard input
package utils
