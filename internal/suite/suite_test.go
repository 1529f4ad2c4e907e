package suite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsonbench/internal/adapter"
	"jsonbench/internal/benchmark"
	"jsonbench/internal/config"
	"jsonbench/internal/fixture"
)

func TestDefault_Cases(t *testing.T) {
	cases := Default().Cases()

	// 11 adapters, 2 fixtures, 5 cases per fixture (1 parse-all, 2 navigate,
	// 2 extract), plus stateful copies for fastjson, simdjson and gojq.
	assert.Len(t, cases, 11*2*5+3*2*5)

	ids := make(map[string]bool)
	for _, c := range cases {
		assert.False(t, ids[c.ID()], "duplicate id %s", c.ID())
		ids[c.ID()] = true
		assert.NoError(t, c.Validate(), c.ID())
	}

	assert.True(t, ids["gjson/small/extract/top_level/stateless"])
	assert.True(t, ids["fastjson/large/navigate/fourth_level/stateful"])
	assert.True(t, ids["encoding-json/small/parse-all/stateless"])
	assert.False(t, ids["gjson/small/extract/top_level/stateful"])
}

func TestDefault_DriftOverride(t *testing.T) {
	tbl := Default()
	var err error
	tbl.Filter, err = NewFilter("^gjson-f32$", "^small$", "^extract$", "")
	require.NoError(t, err)

	cases := tbl.Cases()
	require.Len(t, cases, 2)

	for _, c := range cases {
		switch c.TargetName {
		case "top_level":
			assert.Equal(t, benchmark.RuleExact, c.Expected.Rule)
		case "fourth_level":
			assert.Equal(t, benchmark.RuleDeclaredDrift, c.Expected.Rule)
			assert.Equal(t, adapter.Float(3.141590118408203), c.Expected.Value)
		}
	}
}

func TestFilter(t *testing.T) {
	_, err := NewFilter("(", "", "", "")
	assert.ErrorContains(t, err, "invalid adapter filter")

	tbl := Default()
	tbl.Filter, err = NewFilter("^gjson$", "", "", "")
	require.NoError(t, err)
	assert.Len(t, tbl.Cases(), 2*5)

	tbl.Filter, err = NewFilter("", "large", "navigate", "fourth")
	require.NoError(t, err)
	for _, c := range tbl.Cases() {
		assert.Equal(t, fixture.Large, c.Fixture)
		assert.Equal(t, adapter.ModeNavigate, c.Mode)
		assert.Equal(t, "fourth_level", c.TargetName)
	}

	// Parse-all cases have no target and are not removed by a target filter.
	tbl.Filter, err = NewFilter("^encoding-json$", "^small$", "", "top")
	require.NoError(t, err)
	modes := make(map[adapter.Mode]int)
	for _, c := range tbl.Cases() {
		modes[c.Mode]++
	}
	assert.Equal(t, 1, modes[adapter.ModeParseAll])
	assert.Equal(t, 1, modes[adapter.ModeNavigate])
	assert.Equal(t, 1, modes[adapter.ModeExtract])
}

// Every case over the embedded fixtures either passes or is skipped with a
// reason; none fails.
func TestDefault_RunsClean(t *testing.T) {
	if testing.Short() {
		t.Skip("runs every case")
	}
	store := fixture.NewStore(fixture.Embedded())
	r := benchmark.NewRunner(benchmark.Config{Warmup: 1, Samples: 2, BatchSize: 2}, store)

	results, err := r.Run(context.Background(), Default().Cases())
	require.NoError(t, err)

	skipped := make(map[string]string)
	for _, res := range results {
		switch res.Status {
		case benchmark.StatusPassed:
			assert.True(t, res.Trusted(), res.Name)
		case benchmark.StatusSkipped:
			assert.NotEmpty(t, res.Reason, res.Name)
			skipped[res.Name] = res.Reason
		default:
			t.Errorf("%s: %s: %s", res.Name, res.Status, res.Reason)
		}
	}

	assert.Contains(t, skipped["gjson/small/parse-all/stateless"], "defers all parsing")
	assert.Contains(t, skipped["jstream/large/navigate/top_level/stateless"], "streaming decoder")
	assert.Contains(t, skipped["encoding-json/small/extract/top_level/stateless"], "no path query API")
}

func TestFromConfig(t *testing.T) {
	tc := config.TargetConfig{
		Name:     "pi",
		Path:     "property.subProperty.thirdLevel.pi",
		Kind:     "float",
		Expected: "3.14159",
		Drift:    map[string]string{"gjson-f32": "3.141590118408203"},
		Skip:     map[string]string{"jstream": "not interesting"},
	}
	target, err := FromConfig(tc)
	require.NoError(t, err)
	assert.Equal(t, adapter.Float(3.14159), target.Expected.Value)
	assert.Equal(t, benchmark.RuleDeclaredDrift, target.Overrides["gjson-f32"].Rule)

	e, ok := target.ExpectedFor(adapter.NewGJSONFloat32())
	assert.True(t, ok)
	assert.Equal(t, adapter.Float(3.141590118408203), e.Value)

	tc.Kind = "bogus"
	_, err = FromConfig(tc)
	assert.ErrorContains(t, err, "target pi")
}

func TestCases_LossyWithoutDriftIsDisabled(t *testing.T) {
	target, err := FromConfig(config.TargetConfig{
		Name: "pi", Path: "property.subProperty.thirdLevel.pi", Kind: "float", Expected: "3.14159",
		Skip: map[string]string{"gjson": "covered elsewhere"},
	})
	require.NoError(t, err)

	tbl := Table{
		Adapters: []adapter.Adapter{adapter.NewGJSON(), adapter.NewGJSONFloat32(), adapter.NewJSONParser()},
		Fixtures: []string{fixture.Small},
		Modes:    []adapter.Mode{adapter.ModeExtract},
		Targets:  []Target{target},
	}
	cases := tbl.Cases()
	require.Len(t, cases, 3)

	assert.Equal(t, "covered elsewhere", cases[0].Disabled)
	assert.Contains(t, cases[1].Disabled, "gjson-f32 is lossy and declares no drift for pi")
	assert.Empty(t, cases[2].Disabled)

	r := benchmark.NewRunner(benchmark.Config{Samples: 1, BatchSize: 1}, fixture.NewStore(fixture.Embedded()))
	results, err := r.Run(context.Background(), cases)
	require.NoError(t, err)
	assert.Equal(t, benchmark.StatusSkipped, results[0].Status)
	assert.Equal(t, benchmark.StatusSkipped, results[1].Status)
	assert.Equal(t, benchmark.StatusPassed, results[2].Status)
}
