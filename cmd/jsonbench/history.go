package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jsonbench/internal/benchmark"
)

func init() {
	rootCmd.AddCommand(newHistoryCmd())
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved runs",
		RunE:  runHistory,
	}
	cmd.Flags().String("history", "", "History file (.json, or .db for SQLite)")
	cmd.PreRun = bindFlags(map[string]string{"history": "history"})
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := newStoreFunc(viper.GetString("history"))
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer closeStore(store)

	runs, err := store.LoadAll()
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved runs.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "#\tTIMESTAMP\tCOMMIT\tGO\tPLATFORM\tPASSED\tFAILED\tSKIPPED")
	for i, run := range runs {
		counts := make(map[benchmark.Status]int)
		for _, r := range run.Results {
			counts[r.Status]++
		}
		commit := run.Commit
		if commit == "" {
			commit = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n", i+1,
			run.Timestamp.Format("2006-01-02 15:04:05"), commit, run.GoVersion, run.Platform,
			counts[benchmark.StatusPassed], counts[benchmark.StatusFailed], counts[benchmark.StatusSkipped])
	}
	return w.Flush()
}
