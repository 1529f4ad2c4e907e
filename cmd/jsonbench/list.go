package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"jsonbench/internal/adapter"
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List adapters, or the cases a run would execute",
		RunE:  runList,
	}
	f := cmd.Flags()
	f.Bool("cases", false, "List cases instead of adapters")
	addFilterFlags(f)
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	showCases, _ := cmd.Flags().GetBool("cases")
	if showCases {
		cases, err := buildCases(cmd)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "CASE\tEXPECTED\tRULE")
		for _, c := range cases {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID(), c.Expected.Value, c.Expected.Rule)
		}
		return w.Flush()
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ADAPTER\tMODULE\tMODES\tSETUP\tNOTES")
	for _, a := range adapter.Default().All() {
		d := a.Descriptor()
		var modes []string
		for _, m := range adapter.Modes() {
			if a.Supports(m) {
				modes = append(modes, m.String())
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Name, d.Module, strings.Join(modes, ","), d.Setup, notes(a))
	}
	return w.Flush()
}

func notes(a adapter.Adapter) string {
	d := a.Descriptor()
	var out []string
	if d.Lossy {
		out = append(out, "lossy")
	}
	var unsupported []string
	for _, m := range adapter.Modes() {
		if !a.Supports(m) {
			unsupported = append(unsupported, fmt.Sprintf("no %s: %s", m, adapter.Reason(a, m)))
		}
	}
	sort.Strings(unsupported)
	return strings.Join(append(out, unsupported...), "; ")
}
