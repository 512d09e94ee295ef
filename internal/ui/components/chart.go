// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/profdiff-tui/internal/models"
	"github.com/j-veylop/profdiff-tui/internal/ui/styles"
)

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	data = finite(data)
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// RenderFPSTrend plots baseline and candidate frame rates over time.
// Infinite readings are dropped from both series.
func RenderFPSTrend(points []models.FPSPoint, width, height int, caption string) string {
	var fpsA, fpsB []float64
	for _, p := range points {
		if math.IsInf(p.FpsA, 0) || math.IsInf(p.FpsB, 0) {
			continue
		}
		fpsA = append(fpsA, p.FpsA)
		fpsB = append(fpsB, p.FpsB)
	}
	if len(fpsA) == 0 {
		return styles.HelpStyle.Render("No FPS history yet")
	}

	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	// asciigraph needs at least two points to draw a line.
	if len(fpsA) == 1 {
		fpsA = append(fpsA, fpsA[0])
		fpsB = append(fpsB, fpsB[0])
	}

	return asciigraph.PlotMany([][]float64{fpsA, fpsB},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(
			asciigraph.Red,
			asciigraph.Blue,
		),
	)
}

// RenderDiffBars draws one signed horizontal bar per row. Bars grow right
// for improvements and left for slowdowns, scaled to the largest magnitude.
func RenderDiffBars(rows []models.ComparisonRow, width int, threshold float64) string {
	if len(rows) == 0 {
		return ""
	}

	maxAbs := 0.0
	maxLabelLen := 0
	for _, r := range rows {
		if !r.IsUndefined() && math.Abs(r.PercentDiff) > maxAbs {
			maxAbs = math.Abs(r.PercentDiff)
		}
		if w := lipgloss.Width(r.Function); w > maxLabelLen {
			maxLabelLen = w
		}
	}
	if maxAbs == 0 {
		maxAbs = 1
	}

	half := (width - maxLabelLen - 12) / 2
	if half < 5 {
		half = 5
	}

	axis := lipgloss.NewStyle().Foreground(styles.Subtle).Render("│")

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		label := strings.Repeat(" ", maxLabelLen-lipgloss.Width(r.Function)) + r.Function
		style := styles.GetDiffStyle(r.PercentDiff, threshold)

		if r.IsUndefined() {
			left := strings.Repeat(" ", half)
			lines = append(lines, label+" "+left+axis+" "+style.Render("n/a"))
			continue
		}

		n := int(math.Round(math.Abs(r.PercentDiff) / maxAbs * float64(half)))
		if n == 0 && r.PercentDiff != 0 {
			n = 1
		}
		bar := style.Render(strings.Repeat("█", n))
		value := style.Render(fmt.Sprintf(" %+.1f%%", r.PercentDiff))

		var line string
		if r.PercentDiff < 0 {
			line = label + " " + strings.Repeat(" ", half-n) + bar + axis + value
		} else {
			line = label + " " + strings.Repeat(" ", half) + axis + bar + value
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// sparkChars are Unicode block characters for sparklines (low to high).
var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline chart scaled between
// the minimum and maximum value, so negative series render too.
func RenderSparkline(values []float64, width int) string {
	values = finite(values)
	if len(values) == 0 || width <= 0 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	// Sample values to fit width
	step := float64(len(values)) / float64(width)
	if step < 1 {
		step = 1
	}

	var result strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		idx := int((val - lo) / span * float64(len(sparkChars)-1))
		idx = max(0, min(idx, len(sparkChars)-1))
		result.WriteRune(sparkChars[idx])
	}

	return result.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// finite returns values without NaN and infinities.
func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}
