package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"jsonbench/internal/benchmark"
	"jsonbench/internal/config"
	"jsonbench/internal/fixture"
	"jsonbench/internal/metrics"
	"jsonbench/internal/report"
	"jsonbench/internal/suite"
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark suite",
		Long: `Runs every adapter over the fixtures in each supported mode, verifying
the value read on every iteration. Cases an engine cannot express are
reported as skipped; wrong values or parse errors fail the case and the
command.`,
		RunE: runSuite,
	}

	f := cmd.Flags()
	addFilterFlags(f)
	f.Int("samples", 0, "Timed samples per case")
	f.Int("warmup", 0, "Warm-up iterations per case")
	f.Int("batch-size", 0, "Iterations per sample (0 calibrates)")
	f.String("fixtures-dir", "", "Read small.json and large.json from this directory")
	f.String("format", "table", "Output format (table, json)")
	f.String("metrics-file", "", "Write Prometheus metrics to this textfile")
	f.String("history", "", "History file (.json, or .db for SQLite)")
	f.Bool("save", false, "Save results to history")
	f.Bool("compare", false, "Compare with the latest saved run")
	f.Float64("threshold", 0, "Percentage slowdown reported as a regression")
	f.Float64("fail-threshold", 0, "Fail when a case slows down by more than this percentage (0 disables)")

	cmd.PreRun = bindFlags(map[string]string{
		"samples":        "runner.samples",
		"warmup":         "runner.warmup",
		"batch-size":     "runner.batch_size",
		"fixtures-dir":   "fixtures_dir",
		"format":         "format",
		"metrics-file":   "metrics_file",
		"history":        "history",
		"threshold":      "threshold",
		"fail-threshold": "fail_threshold",
	})
	return cmd
}

// addFilterFlags adds the case selection flags shared by run and list.
func addFilterFlags(f *pflag.FlagSet) {
	f.String("adapter", "", "Only select adapters matching this regex")
	f.String("fixture", "", "Only select fixtures matching this regex")
	f.String("mode", "", "Only select modes matching this regex (parse-all, navigate, extract)")
	f.String("target", "", "Only select targets matching this regex")
}

// bindFlags maps flags to config keys when the command runs, so commands
// sharing a key do not steal each other's binding. Only flags set on the
// command line override the config.
func bindFlags(keys map[string]string) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, _ []string) {
		for flag, key := range keys {
			viper.BindPFlag(key, cmd.Flags().Lookup(flag))
		}
	}
}

// buildCases expands the default table with configured targets and filters.
func buildCases(cmd *cobra.Command) ([]*benchmark.Case, error) {
	tbl := suite.Default()

	extra, err := config.Targets()
	if err != nil {
		return nil, err
	}
	for _, tc := range extra {
		t, err := suite.FromConfig(tc)
		if err != nil {
			return nil, err
		}
		tbl.Targets = append(tbl.Targets, t)
	}

	adapterExpr, _ := cmd.Flags().GetString("adapter")
	fixtureExpr, _ := cmd.Flags().GetString("fixture")
	modeExpr, _ := cmd.Flags().GetString("mode")
	targetExpr, _ := cmd.Flags().GetString("target")
	tbl.Filter, err = suite.NewFilter(adapterExpr, fixtureExpr, modeExpr, targetExpr)
	if err != nil {
		return nil, err
	}
	return tbl.Cases(), nil
}

func runSuite(cmd *cobra.Command, args []string) error {
	cases, err := buildCases(cmd)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		return errors.New("no cases match the filters")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	m := metrics.NewMetrics()
	logger := &logObserver{}
	fixtures := fixture.NewStore(fixtureSource(viper.GetString("fixtures_dir")))
	if err := fixtures.Preload(fixtureIDs(cases)...); err != nil {
		return err
	}
	slog.Debug("Fixtures loaded", "ids", fixtures.Loaded())
	runner := benchmark.NewRunner(config.Runner(), fixtures, m, logger)

	slog.Info("Running benchmark suite", "cases", len(cases))
	results, runErr := runner.Run(ctx, cases)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	format := report.Format(viper.GetString("format"))
	rep := report.Build(results)
	if err := report.Write(cmd.OutOrStdout(), rep, format); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("run interrupted after %d of %d cases: %w", len(results), len(cases), runErr)
	}

	if path := viper.GetString("metrics_file"); path != "" {
		if err := m.WriteToTextfile(path); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		slog.Debug("Metrics written", "path", path)
	}

	run := newRun(results)
	compare, _ := cmd.Flags().GetBool("compare")
	save, _ := cmd.Flags().GetBool("save")
	var regressions []benchmark.Comparison
	if compare || save {
		store, err := newStoreFunc(viper.GetString("history"))
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer closeStore(store)

		if compare {
			regressions, err = compareWithLatest(cmd, store, run)
			if err != nil {
				return err
			}
		}
		if save {
			if err := store.Save(run); err != nil {
				return fmt.Errorf("failed to save history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nResults saved to %s\n", viper.GetString("history"))
		}
	}

	if rep.Failed > 0 {
		return fmt.Errorf("%d cases failed", rep.Failed)
	}
	return checkRegressions(regressions)
}

// fixtureIDs lists the fixtures cases read, in first-use order.
func fixtureIDs(cases []*benchmark.Case) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, c := range cases {
		if !seen[c.Fixture] {
			seen[c.Fixture] = true
			ids = append(ids, c.Fixture)
		}
	}
	return ids
}

func compareWithLatest(cmd *cobra.Command, store benchmark.Store, run benchmark.Run) ([]benchmark.Comparison, error) {
	prev, err := store.LoadLatest()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if prev == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "\nNo previous run to compare with.")
		return nil, nil
	}

	threshold := viper.GetFloat64("threshold")
	comps := benchmark.Compare(*prev, run)
	fmt.Fprintf(cmd.OutOrStdout(), "\nComparison with previous run (%s):\n", prev.Timestamp.Format("2006-01-02 15:04:05"))
	if err := report.WriteComparisons(cmd.OutOrStdout(), comps, threshold, report.Format(viper.GetString("format"))); err != nil {
		return nil, err
	}
	return comps, nil
}

// checkRegressions fails when a comparison is slower than fail_threshold.
func checkRegressions(comps []benchmark.Comparison) error {
	limit := viper.GetFloat64("fail_threshold")
	if limit <= 0 {
		return nil
	}
	regressions := benchmark.Regressions(comps, limit)
	if len(regressions) == 0 {
		return nil
	}
	for _, r := range regressions {
		slog.Warn("Performance regression", "case", r.Name, "ns_per_op_diff", fmt.Sprintf("%+.2f%%", r.NsPerOpDiff))
	}
	return fmt.Errorf("%d cases regressed beyond %.2f%%", len(regressions), limit)
}

// logObserver reports progress through the default logger.
type logObserver struct{}

func (logObserver) CaseStarted(c *benchmark.Case) {
	slog.Debug("Case started", "case", c.ID())
}

func (logObserver) CaseAborted(c *benchmark.Case, err error) {
	slog.Warn("Case aborted", "case", c.ID(), "error", err)
}

func (logObserver) CaseFinished(c *benchmark.Case, r benchmark.Result) {
	if r.Status == benchmark.StatusFailed {
		slog.Error("Case failed", "case", c.ID(), "error", r.Err)
		return
	}
	slog.Info("Case finished", "case", c.ID(), "status", r.Status, "ns_per_op", r.NsPerOp)
}
