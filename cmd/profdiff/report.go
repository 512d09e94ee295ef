package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/j-veylop/profdiff-tui/internal/models"
	"github.com/j-veylop/profdiff-tui/internal/ui/components"
)

// writeReport prints a comparison as plain text: one row per matched
// function with its indicator symbol, then the unmatched names and the FPS
// verdict.
func writeReport(w io.Writer, report *models.ComparisonReport, threshold float64) error {
	var b strings.Builder

	fmt.Fprintf(&b, "A (baseline):  %s\n", report.BaselinePath)
	fmt.Fprintf(&b, "B (candidate): %s\n\n", report.CandidatePath)

	c := report.Comparison
	if c.Empty() {
		b.WriteString("No functions in common.\n")
	} else {
		cells := make([][]string, 0, len(c.Rows))
		for _, r := range c.Rows {
			cells = append(cells, []string{
				r.Function,
				components.FormatMicros(r.DurationA),
				components.FormatMicros(r.DurationB),
				components.FormatPercent(r.PercentDiff),
				r.Indicator.Symbol() + " " + string(r.Indicator),
			})
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(components.ComparisonHeaders...).
			Rows(cells...).
			StyleFunc(func(row, col int) lipgloss.Style {
				style := lipgloss.NewStyle().Padding(0, 1)
				if row != table.HeaderRow && col >= 1 && col <= 3 {
					style = style.Align(lipgloss.Right)
				}
				return style
			})
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	if c != nil {
		writeNames(&b, "Only in A", c.OnlyInA)
		writeNames(&b, "Only in B", c.OnlyInB)
		writeNames(&b, "Undefined (zero baseline)", c.Undefined)
	}

	fmt.Fprintf(&b, "\nRegressions (> %.1f%% slower): %d\n", threshold, report.Regressions)

	switch {
	case report.FPS != nil:
		fmt.Fprintf(&b, "FPS (%s): A %s, B %s, winner %s\n",
			report.FPS.Function,
			components.FormatFPS(report.FPS.FpsA),
			components.FormatFPS(report.FPS.FpsB),
			report.FPS.Winner,
		)
	case report.FPSError != "":
		fmt.Fprintf(&b, "FPS: %s\n", report.FPSError)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeNames(b *strings.Builder, label string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(names, ", "))
}
