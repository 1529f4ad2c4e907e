package benchmark

import (
	"errors"
	"fmt"

	"jsonbench/internal/adapter"
	"jsonbench/internal/fixture"
)

// FixtureLoader supplies fixture documents.
type FixtureLoader interface {
	Load(id string) (*fixture.Fixture, error)
}

// Plan is a case ready to execute: Op runs one iteration of the timed work
// including its correctness check, unless Check is set.
type Plan struct {
	Case    *Case
	Fixture *fixture.Fixture
	Op      func() error
	// Check verifies the result of the last Op. The runner calls it after
	// every iteration, before the next Op, and keeps its cost out of the
	// samples. Only parse-all sets it, so that timings stay pure parsing.
	Check func() error
	// Verify runs the operation once and checks the expected value, for every
	// mode including parse-all.
	Verify func() error
	// Skip is set when the case cannot run; Op is nil then.
	Skip string
}

// Prepare resolves the adapter instance and fixture for c. Invalid cases and
// unavailable fixtures are returned as errors; unsupported combinations come
// back as a plan with Skip set.
func Prepare(c *Case, fixtures FixtureLoader) (*Plan, error) {
	p := &Plan{Case: c}

	if c.Adapter != nil && !c.Adapter.Supports(c.Mode) {
		p.Skip = c.SkipReason
		if p.Skip == "" {
			p.Skip = adapter.Reason(c.Adapter, c.Mode)
		}
		return p, nil
	}
	if c.Disabled != "" {
		p.Skip = c.Disabled
		return p, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	a := c.Adapter
	if c.Setup == adapter.SetupReusable {
		r, ok := a.(adapter.Reusable)
		if !ok {
			p.Skip = c.SkipReason
			if p.Skip == "" {
				p.Skip = fmt.Sprintf("%s has no reusable parser state", c.AdapterName())
			}
			return p, nil
		}
		a = r.Instance()
	}

	f, err := fixtures.Load(c.Fixture)
	if err != nil {
		return nil, err
	}
	p.Fixture = f

	text := f.Data
	target := c.Target
	label := c.Target.Path.String()
	check := c.Expected.Check

	lookup := func() error {
		doc, err := a.ParseAll(text)
		if err != nil {
			return err
		}
		got, err := doc.Lookup(target)
		if err != nil {
			return err
		}
		return check(label, got)
	}

	switch c.Mode {
	case adapter.ModeParseAll:
		var doc adapter.Document
		p.Op = func() error {
			d, err := a.ParseAll(text)
			if err != nil {
				return err
			}
			if d == nil {
				return errors.New("parse returned no document")
			}
			doc = d
			return nil
		}
		p.Check = func() error {
			got, err := doc.Lookup(target)
			if err != nil {
				return err
			}
			return check(label, got)
		}
		p.Verify = lookup
	case adapter.ModeNavigate:
		p.Op = lookup
		p.Verify = lookup
	case adapter.ModeExtract:
		p.Op = func() error {
			got, err := a.Extract(text, target)
			if err != nil {
				return err
			}
			return check(label, got)
		}
		p.Verify = p.Op
	}
	return p, nil
}
