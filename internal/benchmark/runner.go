package benchmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"jsonbench/internal/fixture"
)

// Config controls the measurement methodology.
type Config struct {
	// Warmup iterations run before timing and are discarded.
	Warmup int
	// Samples is the number of timed batches.
	Samples int
	// BatchSize is the iterations per sample. Zero calibrates a batch size
	// that lasts at least MinSampleTime.
	BatchSize     int
	MinSampleTime time.Duration
	MaxBatch      int
	// MaxDuration bounds sampling for one case. At least one sample is
	// always taken.
	MaxDuration time.Duration
}

// DefaultConfig returns the standard methodology.
func DefaultConfig() Config {
	return Config{
		Warmup:        100,
		Samples:       20,
		MinSampleTime: 5 * time.Millisecond,
		MaxBatch:      1_000_000,
		MaxDuration:   10 * time.Second,
	}
}

// Observer is notified as cases move through the runner. Every CaseStarted
// is followed by exactly one CaseFinished or CaseAborted.
type Observer interface {
	CaseStarted(c *Case)
	CaseFinished(c *Case, r Result)
	// CaseAborted reports a case that stopped without an outcome, because the
	// run was cancelled or cannot continue.
	CaseAborted(c *Case, err error)
}

// Runner executes cases one at a time.
type Runner struct {
	cfg       Config
	fixtures  FixtureLoader
	observers []Observer
	logger    *slog.Logger
}

// NewRunner creates a runner reading fixtures from fixtures.
func NewRunner(cfg Config, fixtures FixtureLoader, observers ...Observer) *Runner {
	if cfg.Samples <= 0 {
		cfg.Samples = 1
	}
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = DefaultConfig().MaxBatch
	}
	return &Runner{
		cfg:       cfg,
		fixtures:  fixtures,
		observers: observers,
		logger:    slog.Default().With("component", "runner"),
	}
}

// Run executes cases sequentially. Every fixture the cases reference is
// loaded before the first case starts; an unavailable fixture aborts the run.
// Cancelling ctx stops between samples or cases and returns the results of
// the cases that completed.
func (r *Runner) Run(ctx context.Context, cases []*Case) ([]Result, error) {
	seen := make(map[string]bool)
	for _, c := range cases {
		if seen[c.Fixture] || c.Fixture == "" {
			continue
		}
		seen[c.Fixture] = true
		if _, err := r.fixtures.Load(c.Fixture); err != nil {
			return nil, err
		}
	}

	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := r.RunCase(ctx, c)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// RunCase executes one case. The returned error is non-nil only for
// failures that invalidate the whole run, or cancellation; the case then has
// no result and returns to pending.
func (r *Runner) RunCase(ctx context.Context, c *Case) (Result, error) {
	c.setState(StatusRunning)
	for _, o := range r.observers {
		o.CaseStarted(c)
	}

	res, err := r.runCase(ctx, c)
	if err != nil {
		c.setState(StatusPending)
		r.logger.Warn("case aborted", "case", c.ID(), "error", err)
		for _, o := range r.observers {
			o.CaseAborted(c, err)
		}
		return Result{}, err
	}
	c.setState(res.Status)

	log := r.logger.With("case", res.Name, "status", res.Status)
	switch res.Status {
	case StatusPassed:
		log.Debug("case passed", "ns_per_op", res.NsPerOp, "iterations", res.Iterations)
	case StatusSkipped:
		log.Debug("case skipped", "reason", res.Reason)
	default:
		log.Warn("case failed", "reason", res.Reason)
	}

	for _, o := range r.observers {
		o.CaseFinished(c, res)
	}
	return res, nil
}

func (r *Runner) runCase(ctx context.Context, c *Case) (Result, error) {
	res := c.result()

	plan, err := Prepare(c, r.fixtures)
	if err != nil {
		if errors.Is(err, fixture.ErrFixtureUnavailable) {
			return res, err
		}
		return failed(res, err), nil
	}
	if plan.Skip != "" {
		res.Status = StatusSkipped
		res.Reason = plan.Skip
		return res, nil
	}

	if err := plan.Verify(); err != nil {
		return failed(res, atIteration(err, c, 0)), nil
	}

	var iter int64
	op := func() error {
		iter++
		if err := plan.Op(); err != nil {
			return atIteration(err, c, iter)
		}
		return nil
	}
	check := func() error {
		if err := plan.Check(); err != nil {
			return atIteration(err, c, iter)
		}
		return nil
	}
	step := op
	if plan.Check != nil {
		step = func() error {
			if err := op(); err != nil {
				return err
			}
			return check()
		}
	}

	for i := 0; i < r.cfg.Warmup; i++ {
		if err := step(); err != nil {
			return failed(res, err), nil
		}
	}

	batch := r.cfg.BatchSize
	if batch <= 0 {
		batch, err = r.calibrate(step)
		if err != nil {
			return failed(res, err), nil
		}
	}

	samples := make([]float64, 0, r.cfg.Samples)
	var timed int64
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	deadline := time.Now().Add(r.cfg.MaxDuration)

	for s := 0; s < r.cfg.Samples; s++ {
		if s > 0 {
			if err := ctx.Err(); err != nil {
				return res, fmt.Errorf("%s cancelled after %d samples: %w", c.ID(), s, err)
			}
			if r.cfg.MaxDuration > 0 && time.Now().After(deadline) {
				break
			}
		}
		var unmeasured time.Duration
		start := time.Now()
		for i := 0; i < batch; i++ {
			if err := op(); err != nil {
				return failed(res, err), nil
			}
			if plan.Check != nil {
				checkStart := time.Now()
				if err := check(); err != nil {
					return failed(res, err), nil
				}
				unmeasured += time.Since(checkStart)
			}
		}
		elapsed := time.Since(start) - unmeasured
		if elapsed < 0 {
			elapsed = 0
		}
		samples = append(samples, float64(elapsed.Nanoseconds())/float64(batch))
		timed += int64(batch)
	}
	runtime.ReadMemStats(&after)

	res.Status = StatusPassed
	res.Iterations = timed
	res.Samples = samples
	res.Stats = Summarize(samples)
	res.NsPerOp = res.Stats.Mean
	res.BytesPerOp = int64(after.TotalAlloc-before.TotalAlloc) / timed
	res.AllocsPerOp = int64(after.Mallocs-before.Mallocs) / timed
	if res.NsPerOp > 0 {
		res.MBPerSec = float64(plan.Fixture.Len()) / res.NsPerOp * 1e9 / 1e6
	}
	return res, nil
}

// calibrate grows the batch size until one batch lasts MinSampleTime.
func (r *Runner) calibrate(op func() error) (int, error) {
	n := 1
	for {
		start := time.Now()
		for i := 0; i < n; i++ {
			if err := op(); err != nil {
				return 0, err
			}
		}
		elapsed := time.Since(start)
		if elapsed >= r.cfg.MinSampleTime || n >= r.cfg.MaxBatch {
			return n, nil
		}

		next := n * 100
		if elapsed > 0 {
			// Aim 20% past the target, growing at most 100x per round.
			predicted := int(float64(n) * 1.2 * float64(r.cfg.MinSampleTime) / float64(elapsed))
			if predicted < next {
				next = predicted
			}
		}
		if next <= n {
			next = n + 1
		}
		if next > r.cfg.MaxBatch {
			next = r.cfg.MaxBatch
		}
		n = next
	}
}

func failed(res Result, err error) Result {
	res.Status = StatusFailed
	res.Err = err
	res.Reason = err.Error()
	return res
}
