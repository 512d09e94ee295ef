package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/profdiff-tui/internal/models"
	"github.com/j-veylop/profdiff-tui/internal/ui/styles"
)

// ComparisonHeaders are the column titles of a comparison table.
var ComparisonHeaders = []string{"Function", "A (µs)", "B (µs)", "Diff", ""}

// FormatMicros renders a mean duration with thousands separators.
func FormatMicros(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

// FormatPercent renders a percent difference, or n/a when undefined.
func FormatPercent(pd float64) string {
	if math.IsNaN(pd) {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", pd)
}

// FormatFPS renders a frame rate, with ∞ for a zero frame time.
func FormatFPS(fps float64) string {
	if math.IsInf(fps, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", fps)
}

// ComparisonCells converts rows into plain table cells.
func ComparisonCells(rows []models.ComparisonRow) [][]string {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			r.Function,
			FormatMicros(r.DurationA),
			FormatMicros(r.DurationB),
			FormatPercent(r.PercentDiff),
			string(r.Indicator),
		})
	}
	return cells
}

// RenderComparisonTable renders the rows as a bordered table. Rows slower
// than threshold percent are highlighted as regressions. selected marks a
// row as the cursor position, -1 for none.
func RenderComparisonTable(rows []models.ComparisonRow, width int, threshold float64, selected int) string {
	if len(rows) == 0 {
		return styles.HelpStyle.Render("No functions in common")
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Subtle)).
		Headers(ComparisonHeaders...).
		Rows(ComparisonCells(rows)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Padding(0, 1)
			}
			style := styles.TableCellStyle
			if col == 1 || col == 2 || col == 3 {
				style = style.Align(lipgloss.Right)
			}
			if row >= 0 && row < len(rows) && col >= 3 {
				style = style.Foreground(styles.GetDiffStyle(rows[row].PercentDiff, threshold).GetForeground())
			}
			if row == selected {
				style = style.Background(styles.BgAccent).Bold(true)
			}
			return style
		})

	if width > 0 {
		t = t.Width(width)
	}

	return t.Render()
}
