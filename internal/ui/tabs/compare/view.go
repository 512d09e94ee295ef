package compare

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

// View renders the compare tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	report := m.state.GetReport()

	var sections []string
	sections = append(sections, m.renderTitle(report))

	if report == nil {
		sections = append(sections, m.renderEmpty())
	} else {
		sections = append(sections, m.renderFPS(report))
		sections = append(sections, m.renderSummary(report))
		if diag := m.renderDiagnostics(report); diag != "" {
			sections = append(sections, diag)
		}
		sections = append(sections, m.renderRows(report))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderTitle(report *models.ComparisonReport) string {
	title := styles.TitleStyle.Render("Compare")

	var subtitle string
	switch {
	case m.state.IsComparing():
		subtitle = m.spinner.ViewWithLabel()
	case report == nil:
		subtitle = styles.HelpStyle.Render("Baseline vs candidate trace")
	default:
		subtitle = fmt.Sprintf("%s %s  %s  %s %s  %s",
			styles.BaselineStyle.Render("A"),
			filepath.Base(report.BaselinePath),
			styles.HelpStyle.Render("→"),
			styles.CandidateStyle.Render("B"),
			filepath.Base(report.CandidatePath),
			styles.HelpStyle.Render(humanize.Time(report.CreatedAt)),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderEmpty() string {
	emptyIcon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")

	rows := []string{
		fmt.Sprintf("%s %s", emptyIcon, styles.HelpStyle.Render("No comparison yet")),
		"",
		styles.InfoTextStyle.Render("  ╰─▶ Pick a baseline (a) and candidate (b) on the Profiles tab"),
		styles.InfoTextStyle.Render("  ╰─▶ or write a new capture into the profile directory"),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderFPS(report *models.ComparisonReport) string {
	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows := []string{fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Frame rate"))}

	switch {
	case report.FPS != nil:
		rows = append(rows,
			styles.HelpStyle.Render("from "+report.FPS.Function),
			"",
			components.Verdict(*report.FPS),
			"",
			m.fpsBar.View(*report.FPS, m.cardWidth()-6),
		)
	case report.FPSError != "":
		rows = append(rows, styles.WarningTextStyle.Render("⚠ "+report.FPSError))
	default:
		rows = append(rows, styles.HelpStyle.Render("Not estimated"))
	}

	return styles.VerdictCardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderSummary(report *models.ComparisonReport) string {
	c := report.Comparison
	if c == nil {
		c = &models.Comparison{}
	}

	regressions := styles.SuccessTextStyle.Render("0 regressions")
	if report.Regressions > 0 {
		regressions = styles.RegressionStyle.Render(fmt.Sprintf("%d regressions", report.Regressions))
	}

	parts := []string{
		fmt.Sprintf("%d matched", len(c.Rows)),
		styles.BaselineStyle.Render(fmt.Sprintf("%d only in A", len(c.OnlyInA))),
		styles.CandidateStyle.Render(fmt.Sprintf("%d only in B", len(c.OnlyInB))),
		styles.UndefinedStyle.Render(fmt.Sprintf("%d undefined", len(c.Undefined))),
		regressions + styles.HelpStyle.Render(fmt.Sprintf(" (>%.1f%%)", m.threshold)),
	}

	return strings.Join(parts, styles.HelpStyle.Render(" · ")) + "\n"
}

func (m *Model) renderDiagnostics(report *models.ComparisonReport) string {
	var lines []string
	add := func(label string, summary *models.TraceSummary) {
		if summary == nil || !summary.Diagnostics.HasSkips() {
			return
		}
		d := summary.Diagnostics
		line := fmt.Sprintf("⚠ %s: skipped %d invocation(s)", label, d.SkippedInvocations)
		if len(d.SkippedBranches) > 0 {
			line += fmt.Sprintf(", branches %s", strings.Join(d.SkippedBranches, ", "))
		}
		lines = append(lines, styles.WarningTextStyle.Render(line))
	}
	add("A", report.Baseline)
	add("B", report.Candidate)

	if len(lines) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func (m *Model) renderRows(report *models.ComparisonReport) string {
	var rows []models.ComparisonRow
	if report.Comparison != nil {
		rows = sortedRows(report.Comparison.Rows, m.sortMode)
	}

	mode := "table"
	if m.showBars {
		mode = "bars"
	}
	header := styles.SubTitleStyle.Render("Functions") +
		styles.HelpStyle.Render(fmt.Sprintf("  %s, %s", mode, m.sortMode))

	var body string
	if m.showBars && len(rows) > 0 {
		body = components.RenderDiffBars(rows, m.cardWidth(), m.threshold)
	} else {
		body = components.RenderComparisonTable(rows, m.cardWidth(), m.threshold, -1)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}
