package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jsonbench/internal/benchmark"
	"jsonbench/internal/report"
)

// goTestRunner runs the testing.B suite.
type goTestRunner interface {
	Run(ctx context.Context, packagePath string) ([]benchmark.Result, error)
}

var newGoTestRunner = func(filter, benchtime string) goTestRunner {
	r := benchmark.NewGoTestRunner()
	if filter != "" {
		r.Filter = filter
	}
	r.Benchtime = benchtime
	return r
}

func init() {
	rootCmd.AddCommand(newImportCmd())
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file|-]",
		Short: "Import 'go test -bench' output as a run",
		Long: `Parses the output of 'go test -bench -benchmem -v' over the
BenchmarkSuite in internal/suite and saves it as a run. With --exec the
benchmarks are run first; otherwise the output is read from a file or stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runImport,
	}
	f := cmd.Flags()
	f.Bool("exec", false, "Run 'go test -bench' instead of reading output")
	f.String("package", "./internal/suite", "Package holding BenchmarkSuite")
	f.String("bench", "", "Benchmark filter passed to -bench")
	f.String("benchtime", "", "Value passed to -benchtime")
	f.String("history", "", "History file (.json, or .db for SQLite)")
	f.String("format", "table", "Output format (table, json)")
	f.Bool("dry-run", false, "Print the imported results without saving")
	cmd.PreRun = bindFlags(map[string]string{
		"history": "history",
		"format":  "format",
	})
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	results, err := importResults(cmd, args)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No benchmarks found.")
		return nil
	}

	if err := report.Write(cmd.OutOrStdout(), report.Build(results), report.Format(viper.GetString("format"))); err != nil {
		return err
	}

	if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
		return nil
	}
	store, err := newStoreFunc(viper.GetString("history"))
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer closeStore(store)
	if err := store.Save(newRun(results)); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nImported %d results into %s\n", len(results), viper.GetString("history"))
	return nil
}

func importResults(cmd *cobra.Command, args []string) ([]benchmark.Result, error) {
	if run, _ := cmd.Flags().GetBool("exec"); run {
		pkg, _ := cmd.Flags().GetString("package")
		filter, _ := cmd.Flags().GetString("bench")
		benchtime, _ := cmd.Flags().GetString("benchtime")
		fmt.Fprintf(cmd.ErrOrStderr(), "Running benchmarks for %s\n", pkg)
		return newGoTestRunner(filter, benchtime).Run(cmd.Context(), pkg)
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read benchmark output: %w", err)
	}
	return benchmark.ParseOutput(string(data)), nil
}
