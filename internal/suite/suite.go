// Package suite builds the benchmark case table: adapters × fixtures ×
// modes × targets × setup paths.
package suite

import (
	"fmt"
	"regexp"

	"jsonbench/internal/adapter"
	"jsonbench/internal/benchmark"
	"jsonbench/internal/fixture"
)

// Filter selects cases by regular expressions. Nil expressions match all.
type Filter struct {
	Adapter *regexp.Regexp
	Fixture *regexp.Regexp
	Mode    *regexp.Regexp
	Target  *regexp.Regexp
}

// NewFilter compiles the non-empty expressions.
func NewFilter(adapterExpr, fixtureExpr, modeExpr, targetExpr string) (Filter, error) {
	var f Filter
	for _, e := range []struct {
		expr string
		dst  **regexp.Regexp
		name string
	}{
		{adapterExpr, &f.Adapter, "adapter"},
		{fixtureExpr, &f.Fixture, "fixture"},
		{modeExpr, &f.Mode, "mode"},
		{targetExpr, &f.Target, "target"},
	} {
		if e.expr == "" {
			continue
		}
		re, err := regexp.Compile(e.expr)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid %s filter: %w", e.name, err)
		}
		*e.dst = re
	}
	return f, nil
}

// Match reports whether c passes every expression.
func (f Filter) Match(c *benchmark.Case) bool {
	return matches(f.Adapter, c.AdapterName()) &&
		matches(f.Fixture, c.Fixture) &&
		matches(f.Mode, c.Mode.String()) &&
		(c.Mode == adapter.ModeParseAll || matches(f.Target, c.TargetName))
}

func matches(re *regexp.Regexp, s string) bool {
	return re == nil || re.MatchString(s)
}

// Table describes the cases to generate.
type Table struct {
	Adapters []adapter.Adapter
	Fixtures []string
	Modes    []adapter.Mode
	Targets  []Target
	// Reasons are author supplied skip reasons by adapter name and mode. They
	// take precedence over the reasons adapters declare.
	Reasons map[string]map[adapter.Mode]string
	Filter  Filter
}

// DefaultReasons are the skip reasons the suite documents for engines whose
// unsupported modes deserve more than the adapter's own wording.
func DefaultReasons() map[string]map[adapter.Mode]string {
	return map[string]map[adapter.Mode]string{
		"jstream": {
			adapter.ModeParseAll: "jstream is a streaming decoder that emits values as it scans, there is no whole-document value",
			adapter.ModeNavigate: "jstream is a streaming decoder that emits values as it scans, there is no whole-document value",
		},
	}
}

// Default is every registered adapter over both fixtures, every mode and the
// default targets.
func Default() Table {
	return Table{
		Adapters: adapter.Default().All(),
		Fixtures: []string{fixture.Small, fixture.Large},
		Modes:    adapter.Modes(),
		Targets:  DefaultTargets(),
		Reasons:  DefaultReasons(),
	}
}

// Cases expands the table. Parse-all cases are generated once per fixture
// and verified against the first target; navigate and extract cases are
// generated per target. Reusable adapters get a stateful case next to each
// stateless one.
func (t Table) Cases() []*benchmark.Case {
	var cases []*benchmark.Case
	for _, a := range t.Adapters {
		name := a.Descriptor().Name
		setups := []adapter.Setup{adapter.SetupStateless}
		if _, ok := a.(adapter.Reusable); ok {
			setups = append(setups, adapter.SetupReusable)
		}

		for _, fx := range t.Fixtures {
			for _, mode := range t.Modes {
				targets := t.Targets
				if mode == adapter.ModeParseAll && len(targets) > 1 {
					targets = targets[:1]
				}
				for _, target := range targets {
					for _, setup := range setups {
						c := &benchmark.Case{
							Adapter:    a,
							Fixture:    fx,
							Mode:       mode,
							Target:     target.Target,
							Setup:      setup,
							SkipReason: t.Reasons[name][mode],
						}
						if mode != adapter.ModeParseAll {
							c.TargetName = target.Name
							c.Disabled = target.Skip[name]
						}

						expected, ok := target.ExpectedFor(a)
						if ok {
							c.Expected = expected
						} else {
							c.Expected = target.Expected
							if c.Disabled == "" {
								c.Disabled = fmt.Sprintf("%s is lossy and declares no drift for %s", name, target.Name)
							}
						}

						if t.Filter.Match(c) {
							cases = append(cases, c)
						}
					}
				}
			}
		}
	}
	return cases
}
