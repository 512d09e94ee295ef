package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/profdiff-tui/internal/models"
	"github.com/j-veylop/profdiff-tui/internal/ui/styles"
)

// FPSBar renders the frame rate of each run relative to the faster one.
type FPSBar struct {
	progress progress.Model
}

// NewFPSBar creates a new FPS bar with gradient colors.
func NewFPSBar() FPSBar {
	p := progress.New(
		progress.WithScaledGradient("#ff6b6b", "#51cf66"),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)
	return FPSBar{progress: p}
}

// RelativeFPS returns fps as a fraction of the faster of a and b.
// Infinite rates count as the full bar.
func RelativeFPS(fps, a, b float64) float64 {
	if math.IsInf(fps, 1) {
		return 1
	}
	top := math.Max(a, b)
	if math.IsInf(top, 1) || top <= 0 {
		return 0
	}
	return fps / top
}

// View renders one labelled bar per run. The bar fills whatever width is
// left after the label and value columns.
func (f FPSBar) View(result models.FpsResult, width int) string {
	barWidth := width - 30 // Reserve space for label and value
	if barWidth < 10 {
		barWidth = 10
	}
	f.progress.Width = barWidth

	line := func(label string, labelStyle lipgloss.Style, fps float64) string {
		bar := f.progress.ViewAs(RelativeFPS(fps, result.FpsA, result.FpsB))
		value := styles.ProgressPercentStyle.Width(10).Render(FormatFPS(fps))
		return lipgloss.JoinHorizontal(
			lipgloss.Center,
			labelStyle.Width(15).Render(label),
			bar,
			" ",
			value,
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		line("A (baseline)", styles.BaselineStyle, result.FpsA),
		line("B (candidate)", styles.CandidateStyle, result.FpsB),
	)
}

// Verdict summarizes the FPS comparison in one line.
func Verdict(result models.FpsResult) string {
	switch result.Winner {
	case models.WinnerA:
		return fmt.Sprintf("%s is faster: A %s fps vs B %s fps",
			styles.BaselineStyle.Render("A"), FormatFPS(result.FpsA), FormatFPS(result.FpsB))
	case models.WinnerB:
		return fmt.Sprintf("%s is faster: B %s fps vs A %s fps",
			styles.CandidateStyle.Render("B"), FormatFPS(result.FpsB), FormatFPS(result.FpsA))
	default:
		return fmt.Sprintf("%s at %s fps", styles.HelpStyle.Render("Tie"), FormatFPS(result.FpsA))
	}
}
