package profiles

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/profdiff-tui/internal/models"
	"github.com/j-veylop/profdiff-tui/internal/ui/components"
	"github.com/j-veylop/profdiff-tui/internal/ui/styles"
)

// View renders the profiles tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	profiles := m.state.GetProfiles()
	m.clampCursor(len(profiles))

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(profiles),
		m.renderList(profiles),
		m.renderSelection(),
	)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle(profiles []models.ProfileFile) string {
	title := styles.TitleStyle.Render("Profiles")

	subtitle := styles.HelpStyle.Render("No captures found")
	if len(profiles) > 0 {
		subtitle = styles.HelpStyle.Render(fmt.Sprintf("%d captures in %s",
			len(profiles), filepath.Dir(profiles[0].Path)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderList(profiles []models.ProfileFile) string {
	cardWidth := max(m.width-6, 40)

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows := []string{fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Captures"))}

	if len(profiles) == 0 {
		emptyIcon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")
		rows = append(rows,
			fmt.Sprintf("  %s %s", emptyIcon, styles.HelpStyle.Render("Waiting for profile_Data_*.json")),
			"",
			styles.InfoTextStyle.Render("  ╰─▶ Press R to rescan the directory"),
		)
		return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	baseline, candidate := m.state.GetSelection()
	for i, p := range profiles {
		rows = append(rows, m.renderRow(p, i == m.cursor, p.Path == baseline, p.Path == candidate))
	}

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderRow(p models.ProfileFile, selected, isBaseline, isCandidate bool) string {
	prefix := "  "
	if selected {
		prefix = styles.FocusedStyle.Render("▸ ")
	}

	tag := "   "
	switch {
	case isBaseline && isCandidate:
		tag = styles.BaselineStyle.Render("A") + styles.CandidateStyle.Render("B") + " "
	case isBaseline:
		tag = styles.BaselineStyle.Render("A") + "  "
	case isCandidate:
		tag = styles.CandidateStyle.Render("B") + "  "
	}

	name := p.Name
	if selected {
		name = lipgloss.NewStyle().Bold(true).Render(name)
	}

	meta := styles.HelpStyle.Render(fmt.Sprintf("%8s  %s",
		humanize.Bytes(uint64(max(p.Size, 0))), humanize.Time(p.ModTime)))

	return fmt.Sprintf("%s%s%-32s %s", prefix, tag, name, meta)
}

func (m *Model) renderSelection() string {
	baseline, candidate := m.state.GetSelection()

	label := func(path string) string {
		if path == "" {
			return styles.UndefinedStyle.Render("not set")
		}
		return filepath.Base(path)
	}

	return fmt.Sprintf("%s %s   %s %s",
		styles.BaselineStyle.Render("A:"), label(baseline),
		styles.CandidateStyle.Render("B:"), label(candidate),
	)
}
