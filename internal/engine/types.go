package engine

import (
	"fmt"
	"strings"
)

// Namespaces under the embedding root. Plugins in start/ are always loaded,
// plugins in opt/ on demand.
const (
	NamespaceStart = "start"
	NamespaceOpt   = "opt"
)

// UpdatePolicy governs whether subsequent runs pull new upstream content
type UpdatePolicy string

const (
	// UpdateAuto pulls on every sync
	UpdateAuto UpdatePolicy = "auto"
	// UpdateDisabled never pulls after the initial install
	UpdateDisabled UpdatePolicy = "disabled"
)

// IsDisabled reports whether the plugin must not be pulled after install
func (p UpdatePolicy) IsDisabled() bool {
	return p == UpdateDisabled
}

// IsPassthrough reports whether the policy is a strategy-specific value such
// as a submodule update mode ("rebase", "merge", "checkout", ...)
func (p UpdatePolicy) IsPassthrough() bool {
	return p != "" && p != UpdateAuto && p != UpdateDisabled
}

// PluginDescriptor is the identity and policy of one embedded repository.
// Descriptors are rebuilt from the manifest on every run.
type PluginDescriptor struct {
	SourceURL    string
	Name         string // install path below the embedding root, e.g. "start/vim-surround"
	Branch       string // empty until resolved against the remote's default branch
	Optional     bool
	UpdatePolicy UpdatePolicy
}

// HasBranch reports whether the descriptor names an explicit branch
func (d PluginDescriptor) HasBranch() bool {
	return d.Branch != ""
}

// InstalledPlugin is a plugin found in the host repository at the start of a run
type InstalledPlugin struct {
	Path    string // relative to the embedding root, same convention as PluginDescriptor.Name
	Present bool
}

// OpKind tags a reconciliation operation
type OpKind int

const (
	// OpRemove deletes an installed plugin that is no longer desired
	OpRemove OpKind = iota
	// OpAdd embeds a desired plugin that is not installed
	OpAdd
	// OpUpdate pulls the latest upstream content into an installed plugin
	OpUpdate
)

func (k OpKind) String() string {
	switch k {
	case OpRemove:
		return "remove"
	case OpAdd:
		return "add"
	case OpUpdate:
		return "update"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Op is one step of a reconciliation plan. Path is always set; Plugin is set
// for OpAdd and OpUpdate.
type Op struct {
	Kind   OpKind
	Path   string
	Plugin PluginDescriptor
}

// RemoveOp builds an OpRemove for path
func RemoveOp(path string) Op {
	return Op{Kind: OpRemove, Path: path}
}

// AddOp builds an OpAdd for plugin
func AddOp(plugin PluginDescriptor) Op {
	return Op{Kind: OpAdd, Path: plugin.Name, Plugin: plugin}
}

// UpdateOp builds an OpUpdate for plugin
func UpdateOp(plugin PluginDescriptor) Op {
	return Op{Kind: OpUpdate, Path: plugin.Name, Plugin: plugin}
}

func (o Op) String() string {
	return fmt.Sprintf("%s %s", o.Kind, o.Path)
}

// Action selects which groups of operations a run may emit
type Action string

const (
	// ActionInstall adds missing plugins only
	ActionInstall Action = "install"
	// ActionUpdate adds missing plugins and updates installed ones
	ActionUpdate Action = "update"
	// ActionSync removes, adds and updates
	ActionSync Action = "sync"
	// ActionClean removes undesired plugins only
	ActionClean Action = "clean"
)

// Actions lists every valid action in CLI order
var Actions = []Action{ActionInstall, ActionUpdate, ActionSync, ActionClean}

// ParseAction converts a CLI word into an Action
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if string(a) == strings.ToLower(s) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", s)
}

func (a Action) removes() bool {
	return a == ActionSync || a == ActionClean
}

func (a Action) adds() bool {
	return a != ActionClean
}

func (a Action) updates() bool {
	return a == ActionUpdate || a == ActionSync
}

// RunMode restricts a run independently of each plugin's UpdatePolicy
type RunMode int

const (
	// ModeFull allows every operation the action permits
	ModeFull RunMode = iota
	// ModeAddsAndRemovesOnly skips all pulls
	ModeAddsAndRemovesOnly
)

func (m RunMode) String() string {
	if m == ModeAddsAndRemovesOnly {
		return "adds-and-removes-only"
	}
	return "full"
}

// StrategyKind names an embedding strategy
type StrategyKind string

const (
	// StrategySubtree folds each plugin's history into squashed commits of the host repository
	StrategySubtree StrategyKind = "subtree"
	// StrategySubmodule tracks each plugin as an independently versioned submodule
	StrategySubmodule StrategyKind = "submodule"
)

// ParseStrategyKind converts a config or flag value into a StrategyKind
func ParseStrategyKind(s string) (StrategyKind, error) {
	switch StrategyKind(strings.ToLower(s)) {
	case StrategySubtree:
		return StrategySubtree, nil
	case StrategySubmodule:
		return StrategySubmodule, nil
	default:
		return "", fmt.Errorf("unknown strategy %q: must be %q or %q", s, StrategySubtree, StrategySubmodule)
	}
}
