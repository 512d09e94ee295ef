package history

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/profdiff-tui/internal/models"
	"github.com/j-veylop/profdiff-tui/internal/ui/components"
	"github.com/j-veylop/profdiff-tui/internal/ui/styles"
)

// View renders the history tab.
func (m *Model) View() string {
	history := m.state.GetHistory()
	m.clampCursor(len(history))

	if len(history) == 0 {
		if m.errorMsg != "" {
			return m.renderError()
		}
		if m.loading {
			return m.renderLoading()
		}
		return m.renderEmpty()
	}

	sections := []string{
		m.renderHeader(len(history)),
		m.renderFPSChart(),
		m.renderList(history),
	}
	if m.detail != nil {
		sections = append(sections, m.renderDetail())
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderLoading() string {
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(styles.HelpStyle.Render("Loading history data..."))
}

func (m *Model) renderError() string {
	content := fmt.Sprintf("%s %s",
		styles.ErrorTextStyle.Render("Error:"),
		m.errorMsg,
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("History"),
		"",
		styles.HelpStyle.Render("No comparisons recorded yet."),
		styles.HelpStyle.Render("Every comparison run from the Profiles tab or the watcher is kept here."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderHeader(count int) string {
	title := styles.TitleStyle.Render("History")

	rangeStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)

	rangeIndicator := rangeStyle.Render(fmt.Sprintf("[t] last %d", m.limit()))

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", rangeIndicator)

	subtitle := fmt.Sprintf("%d comparisons recorded", count)
	if !m.lastRefresh.IsZero() {
		subtitle += ", refreshed " + humanize.Time(m.lastRefresh)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, styles.HelpStyle.Render(subtitle), "")
}

func (m *Model) renderFPSChart() string {
	cardWidth := m.cardWidth()

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("📈")
	rows := []string{fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Frame rate"))}

	chartWidth := max(cardWidth-12, 30)
	chart := components.RenderFPSTrend(m.fps, chartWidth, 8,
		fmt.Sprintf("Last %d runs - baseline (red) vs candidate (blue)", len(m.fps)))
	for line := range strings.SplitSeq(chart, "\n") {
		rows = append(rows, "  "+line)
	}

	if len(m.fps) > 0 {
		rows = append(rows, "", "  "+components.RenderLegend([]components.LegendItem{
			{Label: "A (baseline)", Color: styles.Error},
			{Label: "B (candidate)", Color: styles.Info},
		}))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderList(history []models.ComparisonRecord) string {
	cardWidth := m.cardWidth()

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows := []string{fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Comparisons"))}

	for i, rec := range history {
		rows = append(rows, m.renderRecord(rec, i == m.cursor))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRecord(rec models.ComparisonRecord, selected bool) string {
	prefix := "  "
	if selected {
		prefix = styles.FocusedStyle.Render("▸ ")
	}

	pair := fmt.Sprintf("%s → %s", filepath.Base(rec.BaselinePath), filepath.Base(rec.CandidatePath))
	if selected {
		pair = lipgloss.NewStyle().Bold(true).Render(pair)
	}

	fps := styles.HelpStyle.Render("no fps")
	if rec.HasFPS {
		fps = styles.GetWinnerStyle(string(rec.Winner)).Render(
			fmt.Sprintf("%s %s/%s", rec.Winner, components.FormatFPS(rec.FpsA), components.FormatFPS(rec.FpsB)))
	}

	regressions := styles.SuccessTextStyle.Render("ok")
	if rec.Regressions > 0 {
		regressions = styles.RegressionStyle.Render(fmt.Sprintf("%d regressed", rec.Regressions))
	}

	return fmt.Sprintf("%s%s  %s  %s  %s",
		prefix,
		pair,
		fps,
		regressions,
		styles.HelpStyle.Render(fmt.Sprintf("%d matched, %s", rec.Matched, humanize.Time(rec.CreatedAt))),
	)
}

func (m *Model) renderDetail() string {
	cardWidth := m.cardWidth()
	d := m.detail

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows := []string{fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Details"))}

	rows = append(rows, components.RenderComparisonTable(d.rows, cardWidth-6, m.threshold, -1))

	if d.function != "" && len(d.trend) > 0 {
		diffs := make([]float64, len(d.trend))
		for i, p := range d.trend {
			diffs[i] = p.PercentDiff
		}
		latest := d.trend[len(d.trend)-1].PercentDiff
		rows = append(rows, "",
			fmt.Sprintf("%s %s  %s",
				styles.SubTitleStyle.Render(d.function),
				components.RenderSparkline(diffs, min(len(diffs), cardWidth-30)),
				styles.GetDiffStyle(latest, m.threshold).Render(components.FormatPercent(latest)),
			),
		)
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
