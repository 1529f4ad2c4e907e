package benchmark

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// GoTestRunner runs the Go-native benchmarks with 'go test' and parses the
// output into results.
type GoTestRunner struct {
	// Filter is passed to -bench.
	Filter string
	// Benchtime is passed to -benchtime when set.
	Benchtime string
	// Dir is the working directory of 'go test'; empty means the current one.
	Dir string
}

var (
	// BenchmarkSuite/gjson/small/extract/top_level/stateless-8   1000000   1000 ns/op   12.5 MB/s   100 B/op   10 allocs/op
	benchRegex = regexp.MustCompile(`^(Benchmark\S+?)(?:-\d+)?\s+(\d+)\s+([\d\.]+)\s+ns/op(?:\s+([\d\.]+)\s+MB/s)?(?:\s+(\d+)\s+B/op\s+(\d+)\s+allocs/op)?`)
	// --- SKIP: BenchmarkSuite/gjson/small/parse-all/stateless
	skipRegex = regexp.MustCompile(`^\s*--- SKIP: (Benchmark\S+)`)
	// --- FAIL: BenchmarkSuite/...
	failRegex = regexp.MustCompile(`^\s*--- FAIL: (Benchmark\S+)`)
	//     suite_bench_test.go:41: message
	logRegex = regexp.MustCompile(`^\s+\S+\.go:\d+: `)
)

// suitePrefix is the top level benchmark the case table runs under.
const suitePrefix = "BenchmarkSuite/"

func NewGoTestRunner() *GoTestRunner {
	return &GoTestRunner{Filter: "."}
}

// Run executes the benchmarks in packagePath. A failing benchmark makes
// 'go test' exit non-zero; the results of the other benchmarks are still
// returned, with the failed ones marked. Run only errors when the output
// holds no results at all.
func (r *GoTestRunner) Run(ctx context.Context, packagePath string) ([]Result, error) {
	args := []string{"test", "-bench=" + r.Filter, "-benchmem", "-run=^$", "-v"}
	if r.Benchtime != "" {
		args = append(args, "-benchtime="+r.Benchtime)
	}
	args = append(args, packagePath)
	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = r.Dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, fmt.Errorf("benchmark execution failed: %w", err)
	}

	results := ParseOutput(out.String())
	if len(results) == 0 && err != nil {
		return nil, fmt.Errorf("benchmark execution failed: %w\nOutput:\n%s", err, out.String())
	}
	return results, nil
}

// ParseOutput parses 'go test -bench -v' output. Sub-benchmarks of
// BenchmarkSuite are named by their case id; skipped and failed benchmarks
// are reported with their status. A parent benchmark that only fails
// because a sub-benchmark failed is not reported on its own.
func ParseOutput(output string) []Result {
	var results []Result
	var raw []string
	lines := strings.Split(output, "\n")

	// message returns the log line following lines[i], if there is one.
	message := func(i int) (string, bool) {
		if i+1 >= len(lines) || !logRegex.MatchString(lines[i+1]) {
			return "", false
		}
		return skipReason(lines[i+1]), true
	}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")

		if m := skipRegex.FindStringSubmatch(line); m != nil {
			res := resultFromName(m[1])
			res.Status = StatusSkipped
			if msg, ok := message(i); ok {
				res.Reason = msg
				i++
			}
			results = append(results, res)
			raw = append(raw, m[1])
			continue
		}
		if m := failRegex.FindStringSubmatch(line); m != nil {
			res := resultFromName(m[1])
			res.Status = StatusFailed
			res.Reason = "benchmark failed"
			if msg, ok := message(i); ok {
				res.Reason = msg
				i++
			}
			results = append(results, res)
			raw = append(raw, m[1])
			continue
		}

		matches := benchRegex.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		res := resultFromName(matches[1])
		res.Status = StatusPassed

		if val, err := strconv.ParseInt(matches[2], 10, 64); err == nil {
			res.Iterations = val
		}
		if val, err := strconv.ParseFloat(matches[3], 64); err == nil {
			res.NsPerOp = val
			res.Stats = Stats{Samples: 1, Mean: val, Min: val, Max: val, Median: val, P90: val, P99: val, CILow: val, CIHigh: val}
		}
		if matches[4] != "" {
			if val, err := strconv.ParseFloat(matches[4], 64); err == nil {
				res.MBPerSec = val
			}
		}
		if matches[5] != "" {
			if val, err := strconv.ParseInt(matches[5], 10, 64); err == nil {
				res.BytesPerOp = val
			}
		}
		if matches[6] != "" {
			if val, err := strconv.ParseInt(matches[6], 10, 64); err == nil {
				res.AllocsPerOp = val
			}
		}

		results = append(results, res)
		raw = append(raw, matches[1])
	}

	return dropParents(results, raw)
}

// dropParents removes failed results whose name is the parent of another
// result, e.g. "--- FAIL: BenchmarkSuite" after a failed sub-benchmark.
func dropParents(results []Result, raw []string) []Result {
	out := results[:0]
	for i, res := range results {
		if res.Status == StatusFailed && hasChild(raw, raw[i]) {
			continue
		}
		out = append(out, res)
	}
	return out
}

func hasChild(names []string, parent string) bool {
	for _, n := range names {
		if strings.HasPrefix(n, parent+"/") {
			return true
		}
	}
	return false
}

// resultFromName splits a case id of the form
// adapter/fixture/mode[/target]/setup back into its fields.
func resultFromName(name string) Result {
	res := Result{Name: name}
	if !strings.HasPrefix(name, suitePrefix) {
		return res
	}
	id := strings.TrimPrefix(name, suitePrefix)
	res.Name = id

	parts := strings.Split(id, "/")
	switch len(parts) {
	case 5:
		res.Adapter, res.Fixture, res.Mode, res.Target, res.Setup = parts[0], parts[1], parts[2], parts[3], parts[4]
	case 4:
		res.Adapter, res.Fixture, res.Mode, res.Setup = parts[0], parts[1], parts[2], parts[3]
	}
	return res
}

// skipReason extracts the message from a "    file_test.go:42: reason" line.
func skipReason(line string) string {
	line = strings.TrimSpace(line)
	if i := strings.Index(line, ": "); i >= 0 && strings.Contains(line[:i], ".go:") {
		return line[i+2:]
	}
	return line
}
