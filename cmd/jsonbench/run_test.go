package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsonbench/internal/benchmark"
	"jsonbench/internal/fixture"
)

func TestRunCmd(t *testing.T) {
	dir := t.TempDir()
	history := filepath.Join(dir, "history.json")
	metricsFile := filepath.Join(dir, "jsonbench.prom")

	args := append([]string{
		"--adapter", "^gjson$", "--fixture", "^small$",
		"--history", history, "--save", "--metrics-file", metricsFile,
	}, fastArgs...)
	output, err := execute(newRunCmd(), args...)
	require.NoError(t, err, output)

	assert.Contains(t, output, "small/extract/top_level/stateless")
	assert.Contains(t, output, "small/extract/fourth_level/stateless")
	assert.Contains(t, output, "defers all parsing")
	assert.Contains(t, output, "2 passed, 0 failed, 3 skipped")
	assert.Contains(t, output, "Results saved to "+history)

	store, err := benchmark.NewFileStore(history)
	require.NoError(t, err)
	runs, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Len(t, runs[0].Results, 5)
	assert.NotEmpty(t, runs[0].GoVersion)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "jsonbench_ns_per_op")
}

func TestRunCmd_JSON(t *testing.T) {
	args := append([]string{"--adapter", "^jsonparser$", "--fixture", "^small$", "--mode", "extract", "--format", "json"}, fastArgs...)
	output, err := execute(newRunCmd(), args...)
	require.NoError(t, err, output)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(output), "{"), output)
	assert.Contains(t, output, `"adapter": "jsonparser"`)
}

// A corrupted fixture makes every reader of the changed value fail and the
// command exit with an error.
func TestRunCmd_CorruptedFixture(t *testing.T) {
	dir := t.TempDir()
	data, err := fixture.Embedded().Read(fixture.Small)
	require.NoError(t, err)
	corrupted := strings.Replace(string(data), `"topLevelProperty": 1`, `"topLevelProperty": 2`, 1)
	require.NotEqual(t, string(data), corrupted)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "small.json"), []byte(corrupted), 0644))

	args := append([]string{
		"--adapter", "^gjson$", "--fixture", "^small$", "--target", "top_level",
		"--fixtures-dir", dir,
	}, fastArgs...)
	output, err := execute(newRunCmd(), args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 cases failed")
	assert.Contains(t, output, "FAILED")
	assert.Contains(t, output, "got 2 (int), want 1 (int)")
}

func TestRunCmd_MissingFixture(t *testing.T) {
	args := append([]string{"--adapter", "^gjson$", "--fixtures-dir", t.TempDir()}, fastArgs...)
	_, err := execute(newRunCmd(), args...)
	assert.ErrorIs(t, err, fixture.ErrFixtureUnavailable)
}

func TestRunCmd_Filters(t *testing.T) {
	_, err := execute(newRunCmd(), "--adapter", "no-such-adapter")
	assert.EqualError(t, err, "no cases match the filters")

	_, err = execute(newRunCmd(), "--mode", "(")
	assert.ErrorContains(t, err, "invalid mode filter")
}

func TestRunCmd_Compare(t *testing.T) {
	name := "gjson/small/extract/top_level/stateless"
	store := &mockStore{runs: []benchmark.Run{{
		Timestamp: time.Now().Add(-time.Hour),
		Results:   []benchmark.Result{passedResult(name, 0.001)},
	}}}
	useStore(t, store)

	args := append([]string{
		"--adapter", "^gjson$", "--fixture", "^small$", "--mode", "extract", "--target", "top_level",
		"--compare", "--fail-threshold", "10",
	}, fastArgs...)
	output, err := execute(newRunCmd(), args...)

	assert.Contains(t, output, "Comparison with previous run")
	assert.Contains(t, output, name)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 cases regressed beyond 10.00%")
	assert.Empty(t, store.saved)
}

func TestRunCmd_CompareWithoutHistory(t *testing.T) {
	store := &mockStore{}
	useStore(t, store)

	args := append([]string{"--adapter", "^gjson$", "--fixture", "^small$", "--compare", "--save", "--fail-threshold", "0"}, fastArgs...)
	output, err := execute(newRunCmd(), args...)
	require.NoError(t, err, output)
	assert.Contains(t, output, "No previous run to compare with.")
	assert.Len(t, store.saved, 1)
}

func TestFixtureIDs(t *testing.T) {
	cases := []*benchmark.Case{
		{Fixture: fixture.Large},
		{Fixture: fixture.Small},
		{Fixture: fixture.Large},
	}
	assert.Equal(t, []string{fixture.Large, fixture.Small}, fixtureIDs(cases))
	assert.Empty(t, fixtureIDs(nil))
}
