// Package report groups results by comparable work and ranks them.
package report

import (
	"sort"

	"jsonbench/internal/benchmark"
)

// Ranked is a passed result and its place in its group.
type Ranked struct {
	Rank   int              `json:"rank"`
	Result benchmark.Result `json:"result"`
	// Relative is NsPerOp over the group's fastest NsPerOp.
	Relative float64 `json:"relative"`
}

// Group holds the results of one comparison key. Only passed results are
// ranked; failed and skipped results are listed apart.
type Group struct {
	Key     string             `json:"key"`
	Ranked  []Ranked           `json:"ranked"`
	Failed  []benchmark.Result `json:"failed,omitempty"`
	Skipped []benchmark.Result `json:"skipped,omitempty"`
}

// Fastest returns the rank 1 result.
func (g Group) Fastest() (benchmark.Result, bool) {
	if len(g.Ranked) == 0 {
		return benchmark.Result{}, false
	}
	return g.Ranked[0].Result, true
}

// Report is the grouped view of a run.
type Report struct {
	Groups  []Group `json:"groups"`
	Passed  int     `json:"passed"`
	Failed  int     `json:"failed"`
	Skipped int     `json:"skipped"`
}

// Build groups results by Result.Group. Groups are sorted by key; ranked
// entries by mean ns/op, ties broken by name.
func Build(results []benchmark.Result) *Report {
	r := &Report{}
	index := make(map[string]int)

	for _, res := range results {
		key := res.Group()
		i, ok := index[key]
		if !ok {
			i = len(r.Groups)
			index[key] = i
			r.Groups = append(r.Groups, Group{Key: key})
		}
		g := &r.Groups[i]

		switch {
		case res.Trusted():
			g.Ranked = append(g.Ranked, Ranked{Result: res})
			r.Passed++
		case res.Status == benchmark.StatusSkipped:
			g.Skipped = append(g.Skipped, res)
			r.Skipped++
		default:
			g.Failed = append(g.Failed, res)
			r.Failed++
		}
	}

	for i := range r.Groups {
		rank(&r.Groups[i])
	}
	sort.Slice(r.Groups, func(i, j int) bool {
		return r.Groups[i].Key < r.Groups[j].Key
	})
	return r
}

func rank(g *Group) {
	sort.SliceStable(g.Ranked, func(i, j int) bool {
		a, b := g.Ranked[i].Result, g.Ranked[j].Result
		if a.NsPerOp != b.NsPerOp {
			return a.NsPerOp < b.NsPerOp
		}
		return a.Name < b.Name
	})
	for i := range g.Ranked {
		g.Ranked[i].Rank = i + 1
		if best := g.Ranked[0].Result.NsPerOp; best > 0 {
			g.Ranked[i].Relative = g.Ranked[i].Result.NsPerOp / best
		}
	}
}
