package benchmark

import (
	"fmt"
	"strings"

	"jsonbench/internal/adapter"
)

// Rule is the equality rule an expected value is checked under.
type Rule int

const (
	// RuleExact requires the same kind and the exact value.
	RuleExact Rule = iota
	// RuleDeclaredDrift is exact equality against a drifted float literal the
	// case declares for a lossy adapter.
	RuleDeclaredDrift
)

func (r Rule) String() string {
	if r == RuleDeclaredDrift {
		return "declared-drift"
	}
	return "exact"
}

// Expected is the value a case must produce.
type Expected struct {
	Value adapter.Scalar
	Rule  Rule
	// Note documents a declared drift.
	Note string
}

// Exact expects v exactly.
func Exact(v adapter.Scalar) Expected {
	return Expected{Value: v}
}

// Drifted expects the float literal v, documented by note.
func Drifted(v float64, note string) Expected {
	return Expected{Value: adapter.Float(v), Rule: RuleDeclaredDrift, Note: note}
}

// Check compares got against the expected value.
func (e Expected) Check(target string, got adapter.Scalar) error {
	if got.Equal(e.Value) {
		return nil
	}
	return &MismatchError{Target: target, Got: got, Want: e.Value, Rule: e.Rule}
}

// Case is one measurable unit: an adapter running one mode over one fixture.
type Case struct {
	Name    string
	Adapter adapter.Adapter
	Fixture string
	Mode    adapter.Mode
	// TargetName labels Target in reports, e.g. "top_level".
	TargetName string
	Target     adapter.Target
	Expected   Expected
	Setup      adapter.Setup
	// SkipReason is reported when the adapter does not support Mode.
	SkipReason string
	// Disabled skips the case regardless of adapter support.
	Disabled string

	state Status
}

// State returns the current lifecycle state.
func (c *Case) State() Status {
	if c.state == "" {
		return StatusPending
	}
	return c.state
}

func (c *Case) setState(s Status) {
	c.state = s
}

// AdapterName returns the adapter's name or "<nil>".
func (c *Case) AdapterName() string {
	if c.Adapter == nil {
		return "<nil>"
	}
	return c.Adapter.Descriptor().Name
}

// ID returns Name, or a name derived from the case fields.
func (c *Case) ID() string {
	if c.Name != "" {
		return c.Name
	}
	parts := []string{c.AdapterName(), c.Fixture, c.Mode.String()}
	if c.TargetName != "" {
		parts = append(parts, c.TargetName)
	}
	parts = append(parts, c.Setup.String())
	return strings.Join(parts, "/")
}

// Validate checks that the case is well formed. Unsupported modes are not a
// validation failure; the runner reports them as skipped.
func (c *Case) Validate() error {
	var problems []string
	if c.Adapter == nil {
		problems = append(problems, "no adapter")
	}
	if c.Fixture == "" {
		problems = append(problems, "no fixture")
	}
	if c.Mode < adapter.ModeParseAll || c.Mode > adapter.ModeExtract {
		problems = append(problems, fmt.Sprintf("unknown mode %d", int(c.Mode)))
	}
	if len(c.Target.Path) == 0 {
		problems = append(problems, "no target path")
	}
	if c.Expected.Value.Kind != c.Target.Kind {
		problems = append(problems, fmt.Sprintf("expected %s value for %s target", c.Expected.Value.Kind, c.Target.Kind))
	}
	if c.Expected.Rule == RuleDeclaredDrift {
		if c.Expected.Value.Kind != adapter.KindFloat {
			problems = append(problems, "declared drift on a non-float value")
		}
		if c.Adapter != nil && !c.Adapter.Descriptor().Lossy {
			problems = append(problems, fmt.Sprintf("declared drift on %s, which is not documented as lossy", c.AdapterName()))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w %s: %s", ErrInvalidCase, c.ID(), strings.Join(problems, "; "))
	}
	return nil
}

// result returns a Result populated with the case identity.
func (c *Case) result() Result {
	r := Result{
		Name:    c.ID(),
		Adapter: c.AdapterName(),
		Fixture: c.Fixture,
		Mode:    c.Mode.String(),
		Setup:   c.Setup.String(),
		Status:  c.State(),
	}
	if c.Mode != adapter.ModeParseAll {
		r.Target = c.TargetName
		if r.Target == "" {
			r.Target = c.Target.Path.String()
		}
	}
	return r
}
