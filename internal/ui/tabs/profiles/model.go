// Package profiles provides the capture browser tab.
package profiles

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/profdiff-tui/internal/app"
	"github.com/j-veylop/profdiff-tui/internal/ui/components"
)

// BaselinePicker chooses a baseline for a capture when none is selected.
type BaselinePicker interface {
	BaselineFor(candidate string) (string, bool)
}

// keyMap defines the key bindings specific to the profiles tab.
type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	SetBaseline  key.Binding
	SetCandidate key.Binding
	Compare      key.Binding
	CompareSel   key.Binding
}

// defaultKeyMap returns the default key bindings for the profiles tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		SetBaseline: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "set baseline"),
		),
		SetCandidate: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "set candidate"),
		),
		Compare: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "compare with baseline"),
		),
		CompareSel: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "compare A/B"),
		),
	}
}

// headerLines is the number of lines rendered above the first capture.
const headerLines = 7

// Model represents the profiles tab state.
type Model struct {
	state    *app.State
	picker   BaselinePicker
	spinner  components.LoadingSpinner
	keys     keyMap
	viewport viewport.Model
	cursor   int
	width    int
	height   int
}

// New creates a new profiles model. picker may be nil.
func New(state *app.State, picker BaselinePicker) *Model {
	return &Model{
		state:    state,
		picker:   picker,
		spinner:  components.NewSpinner("Scanning captures..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the profiles tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the profiles tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	profiles := m.state.GetProfiles()
	m.clampCursor(len(profiles))

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.ensureVisible()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(profiles)-1 {
			m.cursor++
		}
		m.ensureVisible()
		return m, nil

	case key.Matches(msg, m.keys.SetBaseline):
		if len(profiles) > 0 {
			m.state.SetBaseline(profiles[m.cursor].Path)
		}
		return m, nil

	case key.Matches(msg, m.keys.SetCandidate):
		if len(profiles) > 0 {
			m.state.SetCandidate(profiles[m.cursor].Path)
		}
		return m, nil

	case key.Matches(msg, m.keys.Compare):
		if len(profiles) == 0 {
			return m, nil
		}
		candidate := profiles[m.cursor].Path
		return m, requestCmd(m.baselineFor(candidate), candidate)

	case key.Matches(msg, m.keys.CompareSel):
		baseline, candidate := m.state.GetSelection()
		return m, requestCmd(baseline, candidate)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// baselineFor returns the selected baseline unless it is the candidate
// itself, falling back to the picker.
func (m *Model) baselineFor(candidate string) string {
	baseline, _ := m.state.GetSelection()
	if baseline != "" && baseline != candidate {
		return baseline
	}
	if m.picker != nil {
		if b, ok := m.picker.BaselineFor(candidate); ok {
			return b
		}
	}
	return ""
}

func requestCmd(baseline, candidate string) tea.Cmd {
	return func() tea.Msg {
		return app.CompareRequestMsg{Baseline: baseline, Candidate: candidate}
	}
}

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) ensureVisible() {
	line := headerLines + m.cursor
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case m.viewport.Height > 0 && line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

// SetSize sets the available size for the profiles tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.SetBaseline,
		m.keys.SetCandidate,
		m.keys.Compare,
		m.keys.CompareSel,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.SetBaseline, m.keys.SetCandidate},
		{m.keys.Compare, m.keys.CompareSel},
	}
}
