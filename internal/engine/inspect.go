package engine

import (
	"context"
	"fmt"
	"sort"
)

// Classification is the three-way split of desired against installed plugins.
// Desired plugins keep manifest order; undesired ones are sorted by path.
type Classification struct {
	DesiredPresent []PluginDescriptor
	DesiredAbsent  []PluginDescriptor
	Undesired      []InstalledPlugin
}

// Classify splits desired and installed by name. It does no I/O.
func Classify(desired []PluginDescriptor, installed []InstalledPlugin) Classification {
	present := make(map[string]bool, len(installed))
	for _, p := range installed {
		if p.Present {
			present[p.Path] = true
		}
	}
	wanted := make(map[string]bool, len(desired))

	var c Classification
	for _, d := range desired {
		wanted[d.Name] = true
		if present[d.Name] {
			c.DesiredPresent = append(c.DesiredPresent, d)
		} else {
			c.DesiredAbsent = append(c.DesiredAbsent, d)
		}
	}

	for _, p := range installed {
		if p.Present && !wanted[p.Path] {
			c.Undesired = append(c.Undesired, p)
		}
	}
	sort.Slice(c.Undesired, func(i, j int) bool {
		return c.Undesired[i].Path < c.Undesired[j].Path
	})

	return c
}

// Inspect reads the installed plugins from strategy and classifies them
func Inspect(ctx context.Context, strategy Strategy, desired []PluginDescriptor) (Classification, error) {
	installed, err := strategy.Installed(ctx)
	if err != nil {
		return Classification{}, fmt.Errorf("failed to enumerate installed plugins: %w", err)
	}
	return Classify(desired, installed), nil
}
