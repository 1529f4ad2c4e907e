package suite

import (
	"fmt"

	"jsonbench/internal/adapter"
	"jsonbench/internal/benchmark"
	"jsonbench/internal/config"
	"jsonbench/internal/jsonpath"
)

// Target is a value every case reads, with its expected value and per adapter
// exceptions.
type Target struct {
	Name     string
	Target   adapter.Target
	Expected benchmark.Expected
	// Overrides replace Expected for the named adapters. Lossy adapters must
	// have one for float targets.
	Overrides map[string]benchmark.Expected
	// Skip disables the target for the named adapters.
	Skip map[string]string
}

// ExpectedFor returns the expected value for an adapter and false when a
// lossy adapter has no declared drift for a float target.
func (t Target) ExpectedFor(a adapter.Adapter) (benchmark.Expected, bool) {
	d := a.Descriptor()
	if e, ok := t.Overrides[d.Name]; ok {
		return e, true
	}
	if d.Lossy && t.Target.Kind == adapter.KindFloat {
		return benchmark.Expected{}, false
	}
	return t.Expected, true
}

// Drift of pi through a float32 accessor: float64(float32(3.14159)).
const piFloat32 = 3.141590118408203

// DefaultTargets returns the two values the suite measures in both fixtures.
func DefaultTargets() []Target {
	return []Target{
		{
			Name:     "top_level",
			Target:   adapter.Target{Path: jsonpath.MustParse("topLevelProperty"), Kind: adapter.KindInt},
			Expected: benchmark.Exact(adapter.Int(1)),
		},
		{
			Name:     "fourth_level",
			Target:   adapter.Target{Path: jsonpath.MustParse("property.subProperty.thirdLevel.pi"), Kind: adapter.KindFloat},
			Expected: benchmark.Exact(adapter.Float(3.14159)),
			Overrides: map[string]benchmark.Expected{
				"gjson-f32": benchmark.Drifted(piFloat32, "pi read through a float32 accessor"),
			},
		},
	}
}

// FromConfig converts a configured target.
func FromConfig(tc config.TargetConfig) (Target, error) {
	target, err := tc.Target()
	if err != nil {
		return Target{}, fmt.Errorf("target %s: %w", tc.Name, err)
	}
	value, err := tc.Value()
	if err != nil {
		return Target{}, fmt.Errorf("target %s: %w", tc.Name, err)
	}

	t := Target{
		Name:     tc.Name,
		Target:   target,
		Expected: benchmark.Exact(value),
		Skip:     tc.Skip,
	}
	for name := range tc.Drift {
		v, err := tc.DriftValue(name)
		if err != nil {
			return Target{}, fmt.Errorf("target %s: %w", tc.Name, err)
		}
		if t.Overrides == nil {
			t.Overrides = make(map[string]benchmark.Expected)
		}
		t.Overrides[name] = benchmark.Drifted(v, "declared in config")
	}
	return t, nil
}
