// Package compare provides the tab showing the current comparison report.
package compare

import (
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/profdiff-tui/internal/app"
	"github.com/j-veylop/profdiff-tui/internal/models"
	"github.com/j-veylop/profdiff-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the compare tab.
type keyMap struct {
	Swap       key.Binding
	Rerun      key.Binding
	ToggleView key.Binding
	Sort       key.Binding
	Up         key.Binding
	Down       key.Binding
}

// defaultKeyMap returns the default key bindings for the compare tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Swap: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "swap A/B"),
		),
		Rerun: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "re-run"),
		),
		ToggleView: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "table/bars"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle sort"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// SortMode orders the rows of the report.
type SortMode int

const (
	// SortByName keeps the report order, ascending by function name.
	SortByName SortMode = iota
	// SortWorstFirst puts the largest slowdowns on top.
	SortWorstFirst
	// SortBestFirst puts the largest improvements on top.
	SortBestFirst
)

// String returns the label shown in the tab.
func (s SortMode) String() string {
	switch s {
	case SortWorstFirst:
		return "worst first"
	case SortBestFirst:
		return "best first"
	default:
		return "by name"
	}
}

// Next cycles to the following sort mode.
func (s SortMode) Next() SortMode {
	return (s + 1) % 3
}

// Model represents the compare tab state.
type Model struct {
	state     *app.State
	threshold float64
	spinner   components.LoadingSpinner
	fpsBar    components.FPSBar
	keys      keyMap
	viewport  viewport.Model
	width     int
	height    int
	showBars  bool
	sortMode  SortMode
}

// New creates a new compare model. threshold is the slowdown in percent
// above which a row is highlighted as a regression.
func New(state *app.State, threshold float64) *Model {
	return &Model{
		state:     state,
		threshold: threshold,
		spinner:   components.NewSpinner("Comparing..."),
		fpsBar:    components.NewFPSBar(),
		keys:      defaultKeyMap(),
		viewport:  viewport.New(0, 0),
	}
}

// Init initializes the compare tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the compare tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.ReportUpdatedMsg:
		m.viewport.GotoTop()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	report := m.state.GetReport()

	switch {
	case key.Matches(msg, m.keys.Swap):
		if report == nil {
			return m, nil
		}
		return m, requestCmd(report.CandidatePath, report.BaselinePath)

	case key.Matches(msg, m.keys.Rerun):
		if report == nil {
			return m, nil
		}
		return m, requestCmd(report.BaselinePath, report.CandidatePath)

	case key.Matches(msg, m.keys.ToggleView):
		m.showBars = !m.showBars
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		m.sortMode = m.sortMode.Next()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func requestCmd(baseline, candidate string) tea.Cmd {
	return func() tea.Msg {
		return app.CompareRequestMsg{Baseline: baseline, Candidate: candidate}
	}
}

// sortedRows returns a copy of rows ordered by mode. Undefined rows go last.
func sortedRows(rows []models.ComparisonRow, mode SortMode) []models.ComparisonRow {
	out := make([]models.ComparisonRow, len(rows))
	copy(out, rows)
	if mode == SortByName {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsUndefined() != b.IsUndefined() {
			return b.IsUndefined()
		}
		if mode == SortWorstFirst {
			return a.PercentDiff < b.PercentDiff
		}
		return a.PercentDiff > b.PercentDiff
	})
	return out
}

// SetSize sets the available size for the compare tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Swap,
		m.keys.Rerun,
		m.keys.ToggleView,
		m.keys.Sort,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Swap, m.keys.Rerun},
		{m.keys.ToggleView, m.keys.Sort},
		{m.keys.Up, m.keys.Down},
	}
}
