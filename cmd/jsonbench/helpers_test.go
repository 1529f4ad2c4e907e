package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"jsonbench/internal/benchmark"
)

type mockStore struct {
	runs  []benchmark.Run
	saved []benchmark.Run
}

func (m *mockStore) Save(run benchmark.Run) error {
	m.saved = append(m.saved, run)
	return nil
}

func (m *mockStore) LoadLatest() (*benchmark.Run, error) {
	if len(m.runs) == 0 {
		return nil, nil
	}
	return &m.runs[len(m.runs)-1], nil
}

func (m *mockStore) LoadAll() ([]benchmark.Run, error) {
	return m.runs, nil
}

type mockRunner struct {
	results []benchmark.Result
	err     error
	pkg     string
}

func (m *mockRunner) Run(ctx context.Context, packagePath string) ([]benchmark.Result, error) {
	m.pkg = packagePath
	return m.results, m.err
}

// useStore swaps the history store for the duration of the test.
func useStore(t *testing.T, s benchmark.Store) {
	t.Helper()
	orig := newStoreFunc
	newStoreFunc = func(string) (benchmark.Store, error) { return s, nil }
	t.Cleanup(func() { newStoreFunc = orig })
}

func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func passedResult(name string, ns float64) benchmark.Result {
	return benchmark.Result{
		Name: name, Adapter: "gjson", Fixture: "small", Mode: "extract", Target: "top_level", Setup: "stateless",
		Status: benchmark.StatusPassed, Iterations: 1000, NsPerOp: ns,
	}
}

// fastArgs keep suite runs short.
var fastArgs = []string{"--samples", "1", "--warmup", "0", "--batch-size", "1"}
