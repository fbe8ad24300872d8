package utils

import (
	"fmt"
	"strings"
)

// MaxBranchNameByteLength is the longest branch name accepted. Git refs may be
// 256 bytes including the "refs/heads/" prefix.
const MaxBranchNameByteLength = 245

// ValidateBranchName reports why name cannot be used as a local branch,
// following the rules of git check-ref-format --branch
func ValidateBranchName(name string) error {
	invalid := func(reason string) error {
		return fmt.Errorf("invalid branch name %q: %s", name, reason)
	}

	switch {
	case name == "":
		return invalid("empty")
	case name == "@":
		return invalid(`"@" is reserved`)
	case len(name) > MaxBranchNameByteLength:
		return invalid("too long")
	case strings.HasPrefix(name, "-"):
		return invalid(`starts with "-"`)
	case strings.HasPrefix(name, "/"), strings.HasSuffix(name, "/"):
		return invalid(`starts or ends with "/"`)
	case strings.HasSuffix(name, "."):
		return invalid(`ends with "."`)
	case strings.Contains(name, ".."):
		return invalid(`contains ".."`)
	case strings.Contains(name, "//"):
		return invalid(`contains "//"`)
	case strings.Contains(name, "@{"):
		return invalid(`contains "@{"`)
	}

	for _, r := range name {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(" ~^:?*[\\", r) {
			return invalid(fmt.Sprintf("contains %q", r))
		}
	}

	for _, component := range strings.Split(name, "/") {
		if strings.HasPrefix(component, ".") {
			return invalid(`a component starts with "."`)
		}
		if strings.HasSuffix(component, ".lock") {
			return invalid(`a component ends with ".lock"`)
		}
	}
	return nil
}
