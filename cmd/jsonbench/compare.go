package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jsonbench/internal/benchmark"
	"jsonbench/internal/report"
)

func init() {
	rootCmd.AddCommand(newCompareCmd())
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the two latest runs in the history",
		Long: `Compares the latest run in the history with the one before it. Only
cases that passed in both runs are compared; failed and skipped results carry
no trusted timing.`,
		RunE: runCompare,
	}
	f := cmd.Flags()
	f.String("history", "", "History file (.json, or .db for SQLite)")
	f.String("format", "table", "Output format (table, json)")
	f.Float64("threshold", 0, "Percentage slowdown highlighted as a regression")
	f.Float64("fail-threshold", 0, "Fail when a case slows down by more than this percentage (0 disables)")
	cmd.PreRun = bindFlags(map[string]string{
		"history":        "history",
		"format":         "format",
		"threshold":      "threshold",
		"fail-threshold": "fail_threshold",
	})
	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	store, err := newStoreFunc(viper.GetString("history"))
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer closeStore(store)

	runs, err := store.LoadAll()
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if len(runs) < 2 {
		return errors.New("need at least two saved runs to compare")
	}

	prev, curr := runs[len(runs)-2], runs[len(runs)-1]
	comps := benchmark.Compare(prev, curr)
	fmt.Fprintf(cmd.OutOrStdout(), "Comparing %s with %s\n",
		curr.Timestamp.Format("2006-01-02 15:04:05"), prev.Timestamp.Format("2006-01-02 15:04:05"))
	if err := report.WriteComparisons(cmd.OutOrStdout(), comps, viper.GetFloat64("threshold"), report.Format(viper.GetString("format"))); err != nil {
		return err
	}
	return checkRegressions(comps)
}
