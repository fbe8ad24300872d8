// Package manifest loads plugin lists into normalized descriptors.
//
// A manifest is a JSON or YAML sequence. Each entry is either a source
// string ("owner/repo" or a full URL) or a mapping:
//
//	repo:   source, required
//	name:   install directory, defaults to the last path segment of repo
//	branch: branch to track, defaults to the remote's default branch
//	opt:    install under opt/ instead of start/
//	update: false disables pulls, a string is passed to the strategy
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"vpack.dev/vpack/internal/engine"
	vpackerrors "vpack.dev/vpack/internal/errors"
)

// DefaultHost is prepended to bare owner/repo sources
const DefaultHost = "https://github.com"

// Options control normalization
type Options struct {
	DefaultHost string
	// Stdin is read for the manifest path "-"
	Stdin io.Reader
}

type rawEntry struct {
	Repo   string    `yaml:"repo"`
	Name   string    `yaml:"name"`
	Branch string    `yaml:"branch"`
	Opt    bool      `yaml:"opt"`
	Update yaml.Node `yaml:"update"`
}

// Load reads every manifest in order and returns the merged descriptors.
// When two entries share a name the later one wins and takes the later
// position.
func Load(paths []string, opts Options) ([]engine.PluginDescriptor, error) {
	var all []engine.PluginDescriptor
	for _, p := range paths {
		plugins, err := LoadFile(p, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, plugins...)
	}

	all = Dedupe(all)
	if len(all) == 0 {
		return nil, vpackerrors.ErrNoPlugins
	}
	return all, nil
}

// LoadFile reads a single manifest
func LoadFile(p string, opts Options) ([]engine.PluginDescriptor, error) {
	if p == "-" {
		if opts.Stdin == nil {
			return nil, vpackerrors.NewManifestNotFoundError(p)
		}
		return Parse("<stdin>", opts.Stdin, opts)
	}

	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return nil, vpackerrors.NewManifestNotFoundError(p)
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, vpackerrors.NewManifestNotFoundError(p)
	}
	defer f.Close()

	return Parse(p, f, opts)
}

// Parse decodes a manifest from r. name is only used in errors.
func Parse(name string, r io.Reader, opts Options) ([]engine.PluginDescriptor, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, vpackerrors.NewManifestParseError(name, -1, "empty document", nil)
		}
		return nil, vpackerrors.NewManifestParseError(name, -1, "", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, vpackerrors.NewManifestParseError(name, -1, "expected a list of plugins", nil)
	}

	plugins := make([]engine.PluginDescriptor, 0, len(root.Content))
	for i, node := range root.Content {
		entry, err := decodeEntry(node)
		if err != nil {
			return nil, vpackerrors.NewManifestParseError(name, i, err.Error(), nil)
		}
		plugin, err := normalize(entry, opts)
		if err != nil {
			return nil, vpackerrors.NewManifestParseError(name, i, err.Error(), nil)
		}
		plugins = append(plugins, plugin)
	}
	return plugins, nil
}

func decodeEntry(node *yaml.Node) (rawEntry, error) {
	var entry rawEntry
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag != "!!str" {
			return entry, fmt.Errorf("expected a source string, got %s", node.Value)
		}
		entry.Repo = node.Value
	case yaml.MappingNode:
		if err := node.Decode(&entry); err != nil {
			return entry, err
		}
	default:
		return entry, fmt.Errorf("expected a string or a mapping")
	}

	if strings.TrimSpace(entry.Repo) == "" {
		return entry, fmt.Errorf("missing repo")
	}
	return entry, nil
}

func normalize(entry rawEntry, opts Options) (engine.PluginDescriptor, error) {
	source := ExpandSource(strings.TrimSpace(entry.Repo), opts.DefaultHost)

	name := entry.Name
	if name == "" {
		name = SourceBaseName(source)
	}
	if err := validateName(name); err != nil {
		return engine.PluginDescriptor{}, err
	}

	policy, err := parsePolicy(&entry.Update)
	if err != nil {
		return engine.PluginDescriptor{}, err
	}

	ns := engine.NamespaceStart
	if entry.Opt {
		ns = engine.NamespaceOpt
	}

	return engine.PluginDescriptor{
		SourceURL:    source,
		Name:         ns + "/" + name,
		Branch:       entry.Branch,
		Optional:     entry.Opt,
		UpdatePolicy: policy,
	}, nil
}

// ExpandSource turns an owner/repo shorthand into a URL on host. URLs,
// scp-style remotes and local paths are returned unchanged.
func ExpandSource(source, host string) string {
	if host == "" {
		host = DefaultHost
	}
	switch {
	case strings.Contains(source, "://"):
		return source
	case strings.HasPrefix(source, "/"), strings.HasPrefix(source, "./"), strings.HasPrefix(source, "../"):
		return source
	case strings.Contains(source, "@") && strings.Contains(source, ":"):
		return source
	default:
		return strings.TrimSuffix(host, "/") + "/" + strings.TrimPrefix(source, "/")
	}
}

// SourceBaseName returns the last path component of a source without a
// trailing .git
func SourceBaseName(source string) string {
	s := strings.TrimRight(source, "/")
	if i := strings.LastIndexAny(s, "/:"); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSuffix(s, ".git")
}

func validateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("invalid plugin name %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("plugin name %q must be a single path segment", name)
	case path.Clean(name) != name:
		return fmt.Errorf("invalid plugin name %q", name)
	}
	return nil
}

func parsePolicy(node *yaml.Node) (engine.UpdatePolicy, error) {
	if node.Kind == 0 {
		return engine.UpdateAuto, nil
	}
	if node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("update must be a boolean or a string")
	}

	switch node.Tag {
	case "!!bool":
		var enabled bool
		if err := node.Decode(&enabled); err != nil {
			return "", err
		}
		if enabled {
			return engine.UpdateAuto, nil
		}
		return engine.UpdateDisabled, nil
	case "!!str":
		switch strings.ToLower(node.Value) {
		case "", string(engine.UpdateAuto):
			return engine.UpdateAuto, nil
		case "none", string(engine.UpdateDisabled):
			return engine.UpdateDisabled, nil
		default:
			return engine.UpdatePolicy(node.Value), nil
		}
	case "!!null":
		return engine.UpdateAuto, nil
	default:
		return "", fmt.Errorf("update must be a boolean or a string, got %s", node.Value)
	}
}

// Dedupe keeps the last declaration of every name, at the position of that
// last declaration
func Dedupe(plugins []engine.PluginDescriptor) []engine.PluginDescriptor {
	last := make(map[string]int, len(plugins))
	for i, p := range plugins {
		last[p.Name] = i
	}
	out := make([]engine.PluginDescriptor, 0, len(last))
	for i, p := range plugins {
		if last[p.Name] == i {
			out = append(out, p)
		}
	}
	return out
}
