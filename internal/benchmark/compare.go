package benchmark

import (
	"fmt"
	"sort"
)

type Comparison struct {
	Name            string
	NsPerOpDiff     float64 // Percentage change
	BytesPerOpDiff  float64 // Percentage change
	AllocsPerOpDiff float64 // Percentage change
	Prev            Result
	Curr            Result
}

// Compare returns comparisons for cases that passed in both runs. Failed and
// skipped results carry no trusted timing and are left out.
func Compare(prev, curr Run) []Comparison {
	prevMap := make(map[string]Result)
	for _, r := range prev.Results {
		if r.Trusted() {
			prevMap[r.Name] = r
		}
	}

	var comparisons []Comparison
	for _, c := range curr.Results {
		if !c.Trusted() {
			continue
		}
		if p, ok := prevMap[c.Name]; ok {
			comp := Comparison{
				Name: c.Name,
				Prev: p,
				Curr: c,
			}

			if p.NsPerOp > 0 {
				comp.NsPerOpDiff = ((c.NsPerOp - p.NsPerOp) / p.NsPerOp) * 100
			}
			if p.BytesPerOp > 0 {
				comp.BytesPerOpDiff = float64(c.BytesPerOp-p.BytesPerOp) / float64(p.BytesPerOp) * 100
			}
			if p.AllocsPerOp > 0 {
				comp.AllocsPerOpDiff = float64(c.AllocsPerOp-p.AllocsPerOp) / float64(p.AllocsPerOp) * 100
			}

			comparisons = append(comparisons, comp)
		}
	}
	return comparisons
}

// Regressions returns comparisons slower than threshold percent, worst first.
func Regressions(comps []Comparison, threshold float64) []Comparison {
	var out []Comparison
	for _, c := range comps {
		if c.NsPerOpDiff > threshold {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NsPerOpDiff > out[j].NsPerOpDiff
	})
	return out
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s: %+.2f%% ns/op", c.Name, c.NsPerOpDiff)
}
