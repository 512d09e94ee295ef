package info

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/profdiff-tui/internal/ui/styles"
	"github.com/j-veylop/profdiff-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderConfigCard())
	sections = append(sections, m.renderStorageCard())
	sections = append(sections, m.renderAboutCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 80)
}

// renderConfigCard renders the comparison settings.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))
	rows = append(rows, "")

	if m.config != nil {
		baseline := m.config.BaselinePath
		if baseline == "" {
			baseline = "previous capture"
		}
		rows = append(rows,
			m.renderConfigRow("Profile Dir", m.config.ProfileDir),
			m.renderConfigRow("Baseline", baseline),
			m.renderConfigRow("FPS Function", m.config.FPSFunction),
			m.renderConfigRow("Zero Baseline", m.config.DivisionPolicy.String()),
			m.renderConfigRow("Threshold", fmt.Sprintf("%.1f%%", m.config.RegressionThreshold)),
			m.renderConfigRow("Watch Debounce", m.config.WatchDebounce.String()),
			m.renderConfigRow("Auto Compare", onOff(m.config.AutoCompare)),
			m.renderConfigRow("Notifications", onOff(m.config.Notifications)),
			m.renderConfigRow("Log File", m.config.LogPath),
		)
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderStorageCard renders the history database details.
func (m *Model) renderStorageCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("History Database"))
	rows = append(rows, "")

	path := ""
	if m.config != nil {
		path = m.config.DatabasePath
	}
	if m.store != nil {
		path = m.store.Path()
	}
	rows = append(rows, m.renderConfigRow("Database", path))

	switch {
	case m.stats == nil:
		rows = append(rows, styles.HelpStyle.Render("Press 'r' to read database stats"))
	case m.stats.err != nil:
		rows = append(rows, m.renderConfigRow("Schema", styles.ErrorTextStyle.Render(m.stats.err.Error())))
	default:
		rows = append(rows,
			m.renderConfigRow("Size", humanize.Bytes(uint64(max(m.stats.size, 0)))),
			m.renderConfigRow("Schema", "v"+strconv.Itoa(m.stats.schema)),
		)
	}

	rows = append(rows, m.renderConfigRow("Comparisons", strconv.Itoa(len(m.state.GetHistory()))))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About profdiff"))
	rows = append(rows, "")

	rows = append(rows, m.renderConfigRow("Version", version.GetVersion()))
	rows = append(rows, m.renderConfigRow("Build Date", version.GetDate()))
	rows = append(rows, m.renderConfigRow("Git Commit", version.GetCommit()))
	rows = append(rows, m.renderConfigRow("Go Version", runtime.Version()))
	rows = append(rows, m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))
	rows = append(rows, "")

	profileCount := m.state.GetProfileCount()
	rows = append(rows, fmt.Sprintf("Captures: %s", styles.InfoTextStyle.Render(strconv.Itoa(profileCount))))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
