package main

import (
	"io"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"jsonbench/internal/benchmark"
	"jsonbench/internal/fixture"
)

// Swappable in tests.
var (
	newStoreFunc = func(path string) (benchmark.Store, error) { return benchmark.OpenStore(path) }
	execCommand  = exec.Command
)

func closeStore(s benchmark.Store) {
	if c, ok := s.(io.Closer); ok {
		c.Close()
	}
}

// fixtureSource reads fixtures from dir, or the embedded copies when dir is empty.
func fixtureSource(dir string) fixture.Source {
	if dir == "" {
		return fixture.Embedded()
	}
	return fixture.DirSource{Dir: dir}
}

func newRun(results []benchmark.Result) benchmark.Run {
	run := benchmark.Run{
		Timestamp: time.Now(),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Results:   results,
	}
	if commit, err := gitCommit(); err == nil {
		run.Commit = commit
	}
	return run
}

func gitCommit() (string, error) {
	out, err := execCommand("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
