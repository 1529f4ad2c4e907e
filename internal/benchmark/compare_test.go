package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	prev := Run{
		Results: []Result{
			{Name: "B1", Status: StatusPassed, Iterations: 10, NsPerOp: 100, BytesPerOp: 50},
			{Name: "B2", Status: StatusPassed, Iterations: 10, NsPerOp: 200},
			{Name: "B4", Status: StatusPassed, Iterations: 10, NsPerOp: 200},
		},
	}
	curr := Run{
		Results: []Result{
			{Name: "B1", Status: StatusPassed, Iterations: 10, NsPerOp: 110, BytesPerOp: 40}, // 10% slower, 20% less memory
			{Name: "B3", Status: StatusPassed, Iterations: 10, NsPerOp: 300},                 // New
			{Name: "B4", Status: StatusFailed, Reason: "mismatch"},                            // Untrusted
		},
	}

	comps := Compare(prev, curr)

	assert.Len(t, comps, 1) // Only B1 matches

	c := comps[0]
	assert.Equal(t, "B1", c.Name)
	assert.InDelta(t, 10.0, c.NsPerOpDiff, 0.01)
	assert.InDelta(t, -20.0, c.BytesPerOpDiff, 0.01)
	assert.Equal(t, "B1: +10.00% ns/op", c.String())
}

func TestRegressions(t *testing.T) {
	comps := []Comparison{
		{Name: "a", NsPerOpDiff: 5},
		{Name: "b", NsPerOpDiff: 50},
		{Name: "c", NsPerOpDiff: 15},
		{Name: "d", NsPerOpDiff: -30},
	}
	regs := Regressions(comps, 10)
	assert.Len(t, regs, 2)
	assert.Equal(t, "b", regs[0].Name)
	assert.Equal(t, "c", regs[1].Name)
}
