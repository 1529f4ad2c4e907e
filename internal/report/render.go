package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	jsoniter "github.com/json-iterator/go"

	"jsonbench/internal/benchmark"
)

// Format selects the output rendering.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

var (
	groupStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("242")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 1)
	fastestStyle = cellStyle.Foreground(lipgloss.Color("46")).Bold(true) // Green
	failedStyle  = cellStyle.Foreground(lipgloss.Color("196"))           // Red
	skippedStyle = cellStyle.Foreground(lipgloss.Color("220"))           // Yellow
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Write renders r in the given format.
func Write(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, r)
	case FormatTable, "":
		return writeTable(w, r)
	}
	return fmt.Errorf("unknown format %q", format)
}

func writeJSON(w io.Writer, v interface{}) error {
	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

func writeTable(w io.Writer, r *Report) error {
	var b strings.Builder
	for _, g := range r.Groups {
		b.WriteString(groupStyle.Render(g.Key) + "\n")

		if len(g.Ranked) > 0 {
			rows := make([][]string, 0, len(g.Ranked))
			for _, e := range g.Ranked {
				res := e.Result
				rows = append(rows, []string{
					fmt.Sprintf("%d", e.Rank),
					res.Adapter,
					fmt.Sprintf("%.1f", res.NsPerOp),
					fmt.Sprintf("±%.1f", res.Stats.StdDev),
					fmt.Sprintf("[%.1f, %.1f]", res.Stats.CILow, res.Stats.CIHigh),
					fmt.Sprintf("%.1f", res.Stats.P99),
					fmt.Sprintf("%.2f", res.MBPerSec),
					fmt.Sprintf("%d", res.BytesPerOp),
					fmt.Sprintf("%d", res.AllocsPerOp),
					fmt.Sprintf("%.2fx", e.Relative),
				})
			}
			t := newTable("RANK", "ADAPTER", "NS/OP", "STDDEV", "MEDIAN CI", "P99", "MB/S", "B/OP", "ALLOCS/OP", "RELATIVE").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					switch {
					case row == table.HeaderRow:
						return headerStyle
					case row == 0:
						return fastestStyle
					}
					return cellStyle
				})
			b.WriteString(t.Render() + "\n")
		}

		if len(g.Failed) > 0 {
			b.WriteString(statusTable(g.Failed, failedStyle) + "\n")
		}
		if len(g.Skipped) > 0 {
			b.WriteString(statusTable(g.Skipped, skippedStyle) + "\n")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%d passed, %d failed, %d skipped\n", r.Passed, r.Failed, r.Skipped)

	_, err := io.WriteString(w, b.String())
	return err
}

func statusTable(results []benchmark.Result, style lipgloss.Style) string {
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		rows = append(rows, []string{res.Adapter, strings.ToUpper(string(res.Status)), res.Reason})
	}
	return newTable("ADAPTER", "STATUS", "REASON").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return style
		}).
		Render()
}

// WriteComparisons renders run-to-run comparisons. Changes beyond threshold
// percent are highlighted.
func WriteComparisons(w io.Writer, comps []benchmark.Comparison, threshold float64, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, comps)
	}
	if len(comps) == 0 {
		_, err := fmt.Fprintln(w, "No comparable results.")
		return err
	}

	rows := make([][]string, 0, len(comps))
	for _, c := range comps {
		rows = append(rows, []string{
			c.Name,
			fmt.Sprintf("%.1f", c.Prev.NsPerOp),
			fmt.Sprintf("%.1f", c.Curr.NsPerOp),
			fmt.Sprintf("%+.2f%%", c.NsPerOpDiff),
			fmt.Sprintf("%+.2f%%", c.AllocsPerOpDiff),
		})
	}
	t := newTable("CASE", "PREV NS/OP", "CURR NS/OP", "DELTA", "ALLOCS DELTA").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			switch d := comps[row].NsPerOpDiff; {
			case d > threshold:
				return failedStyle
			case d < -threshold:
				return fastestStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
