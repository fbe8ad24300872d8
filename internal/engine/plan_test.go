package engine_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"vpack.dev/vpack/internal/engine"
)

func installed(paths ...string) []engine.InstalledPlugin {
	out := make([]engine.InstalledPlugin, 0, len(paths))
	for _, p := range paths {
		out = append(out, engine.InstalledPlugin{Path: p, Present: true})
	}
	return out
}

func opStrings(ops []engine.Op) []string {
	out := make([]string, 0, len(ops))
	for _, op := range ops {
		out = append(out, op.String())
	}
	return out
}

var syncFull = engine.PlanOptions{Action: engine.ActionSync, Mode: engine.ModeFull}

func TestClassify(t *testing.T) {
	c := engine.Classify(
		[]engine.PluginDescriptor{plugin("b"), plugin("a"), plugin("c")},
		append(installed("start/z", "start/a", "start/y"), engine.InstalledPlugin{Path: "start/c", Present: false}),
	)

	require.Len(t, c.DesiredPresent, 1)
	assert.Equal(t, "start/a", c.DesiredPresent[0].Name)

	require.Len(t, c.DesiredAbsent, 2)
	assert.Equal(t, "start/b", c.DesiredAbsent[0].Name)
	assert.Equal(t, "start/c", c.DesiredAbsent[1].Name, "entries not present count as absent")

	assert.Equal(t, installed("start/y", "start/z"), c.Undesired)
}

func TestBuildPlan(t *testing.T) {
	t.Run("removes, then adds, then updates", func(t *testing.T) {
		plan := engine.PlanFor(
			[]engine.PluginDescriptor{plugin("x"), plugin("y")},
			installed("start/y", "start/z"),
			syncFull,
		)
		assert.Equal(t, []string{"remove start/z", "add start/x", "update start/y"}, opStrings(plan.Ops))
		assert.Empty(t, plan.Held)
	})

	t.Run("disabled plugins are held, not updated", func(t *testing.T) {
		x := plugin("x")
		x.UpdatePolicy = engine.UpdateDisabled
		plan := engine.PlanFor([]engine.PluginDescriptor{x}, installed("start/x"), syncFull)
		assert.True(t, plan.IsEmpty())
		require.Len(t, plan.Held, 1)
		assert.Equal(t, "start/x", plan.Held[0].Name)
	})

	t.Run("disabled plugins are still added when missing", func(t *testing.T) {
		plan := engine.PlanFor([]engine.PluginDescriptor{held("x")}, nil, syncFull)
		assert.Equal(t, []string{"add start/x"}, opStrings(plan.Ops))
	})

	t.Run("groups keep manifest order", func(t *testing.T) {
		desired := []engine.PluginDescriptor{plugin("m"), plugin("b"), plugin("k"), plugin("a")}
		plan := engine.PlanFor(desired, installed("start/k", "start/m", "start/q", "start/c"), syncFull)
		assert.Equal(t, []string{
			"remove start/c",
			"remove start/q",
			"add start/b",
			"add start/a",
			"update start/m",
			"update start/k",
		}, opStrings(plan.Ops))
	})

	t.Run("passthrough policies are updated", func(t *testing.T) {
		x := plugin("x")
		x.UpdatePolicy = "rebase"
		plan := engine.PlanFor([]engine.PluginDescriptor{x}, installed("start/x"), syncFull)
		assert.Equal(t, []string{"update start/x"}, opStrings(plan.Ops))
	})

	desired := []engine.PluginDescriptor{plugin("x"), plugin("y")}
	current := installed("start/y", "start/z")

	tests := []struct {
		name string
		opts engine.PlanOptions
		want []string
	}{
		{"install", engine.PlanOptions{Action: engine.ActionInstall}, []string{"add start/x"}},
		{"update", engine.PlanOptions{Action: engine.ActionUpdate}, []string{"add start/x", "update start/y"}},
		{"clean", engine.PlanOptions{Action: engine.ActionClean}, []string{"remove start/z"}},
		{"sync skipping pulls", engine.PlanOptions{Action: engine.ActionSync, Mode: engine.ModeAddsAndRemovesOnly}, []string{"remove start/z", "add start/x"}},
		{"update skipping pulls", engine.PlanOptions{Action: engine.ActionUpdate, Mode: engine.ModeAddsAndRemovesOnly}, []string{"add start/x"}},
	}
	for _, tt := range tests {
		t.Run("action "+tt.name, func(t *testing.T) {
			plan := engine.PlanFor(desired, current, tt.opts)
			assert.Equal(t, tt.want, opStrings(plan.Ops))
		})
	}
}

func TestParseAction(t *testing.T) {
	for _, a := range engine.Actions {
		got, err := engine.ParseAction(string(a))
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	got, err := engine.ParseAction("SYNC")
	require.NoError(t, err)
	assert.Equal(t, engine.ActionSync, got)

	_, err = engine.ParseAction("upgrade")
	require.Error(t, err)
}

// drawState draws a manifest and an installed set over a small name pool so
// that overlaps are frequent
func drawState(t *rapid.T) ([]engine.PluginDescriptor, []engine.InstalledPlugin) {
	pool := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	names := rapid.SliceOfNDistinct(rapid.SampledFrom(pool), 0, len(pool), rapid.ID[string]).Draw(t, "desired")
	desired := make([]engine.PluginDescriptor, 0, len(names))
	for _, n := range names {
		p := plugin(n)
		if rapid.Bool().Draw(t, "disabled_"+n) {
			p.UpdatePolicy = engine.UpdateDisabled
		}
		desired = append(desired, p)
	}

	have := rapid.SliceOfNDistinct(rapid.SampledFrom(pool), 0, len(pool), rapid.ID[string]).Draw(t, "installed")
	paths := make([]string, 0, len(have))
	for _, n := range have {
		paths = append(paths, "start/"+n)
	}
	return desired, installed(paths...)
}

func TestPlanProperties(t *testing.T) {
	t.Run("one add per missing plugin and one remove per undesired plugin", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			desired, current := drawState(t)
			plan := engine.PlanFor(desired, current, syncFull)

			present := map[string]bool{}
			for _, p := range current {
				present[p.Path] = true
			}
			wanted := map[string]bool{}
			for _, d := range desired {
				wanted[d.Name] = true
			}

			adds := map[string]int{}
			removes := map[string]int{}
			for _, op := range plan.Ops {
				switch op.Kind {
				case engine.OpAdd:
					adds[op.Path]++
				case engine.OpRemove:
					removes[op.Path]++
				}
			}

			for _, d := range desired {
				if !present[d.Name] && adds[d.Name] != 1 {
					t.Fatalf("expected exactly one add for %s, got %d", d.Name, adds[d.Name])
				}
			}
			for _, p := range current {
				if !wanted[p.Path] && removes[p.Path] != 1 {
					t.Fatalf("expected exactly one remove for %s, got %d", p.Path, removes[p.Path])
				}
			}
			if len(adds)+len(removes) != plan.Count(engine.OpAdd)+plan.Count(engine.OpRemove) {
				t.Fatalf("duplicate operations in %v", opStrings(plan.Ops))
			}
		})
	})

	t.Run("no remove follows an add or update", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			desired, current := drawState(t)
			opts := engine.PlanOptions{
				Action: rapid.SampledFrom(engine.Actions).Draw(t, "action"),
				Mode:   rapid.SampledFrom([]engine.RunMode{engine.ModeFull, engine.ModeAddsAndRemovesOnly}).Draw(t, "mode"),
			}
			plan := engine.PlanFor(desired, current, opts)

			seenNonRemove := false
			for _, op := range plan.Ops {
				if op.Kind != engine.OpRemove {
					seenNonRemove = true
					continue
				}
				if seenNonRemove {
					t.Fatalf("remove after add/update: %v", opStrings(plan.Ops))
				}
			}
		})
	})

	t.Run("disabled plugins never update but are still removed", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			desired, current := drawState(t)
			plan := engine.PlanFor(desired, current, syncFull)

			disabled := map[string]bool{}
			for _, d := range desired {
				if d.UpdatePolicy.IsDisabled() {
					disabled[d.Name] = true
				}
			}
			for _, op := range plan.Ops {
				if op.Kind == engine.OpUpdate && disabled[op.Path] {
					t.Fatalf("update emitted for disabled plugin %s", op.Path)
				}
			}

			// dropping every disabled plugin from the manifest removes them
			var kept []engine.PluginDescriptor
			for _, d := range desired {
				if !disabled[d.Name] {
					kept = append(kept, d)
				}
			}
			again := engine.PlanFor(kept, current, syncFull)
			removed := map[string]bool{}
			for _, op := range again.Ops {
				if op.Kind == engine.OpRemove {
					removed[op.Path] = true
				}
			}
			for _, p := range current {
				if disabled[p.Path] && !removed[p.Path] {
					t.Fatalf("disabled plugin %s was not removed after leaving the manifest", p.Path)
				}
			}
		})
	})

	t.Run("a reconciled state plans no adds or removes", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			desired, current := drawState(t)
			opts := engine.PlanOptions{Action: engine.ActionSync, Mode: engine.ModeAddsAndRemovesOnly}
			_ = engine.PlanFor(desired, current, opts)

			// apply the plan: the installed set becomes the desired set
			paths := make([]string, 0, len(desired))
			for _, d := range desired {
				paths = append(paths, d.Name)
			}
			second := engine.PlanFor(desired, installed(paths...), opts)
			if !second.IsEmpty() {
				t.Fatalf("expected an empty plan, got %v", opStrings(second.Ops))
			}
		})
	})
}

func ExamplePlanFor() {
	plan := engine.PlanFor(
		[]engine.PluginDescriptor{plugin("x"), plugin("y")},
		installed("start/y", "start/z"),
		engine.PlanOptions{Action: engine.ActionSync},
	)
	for _, op := range plan.Ops {
		fmt.Println(op)
	}
	// Output:
	// remove start/z
	// add start/x
	// update start/y
}
