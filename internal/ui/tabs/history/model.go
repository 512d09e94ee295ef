// Package history provides the history tab for browsing past comparisons.
package history

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/profdiff-tui/internal/app"
	"github.com/j-veylop/profdiff-tui/internal/models"
)

// Source reads recorded comparisons. *services.Manager implements it.
type Source interface {
	FPSHistory(limit int) ([]models.FPSPoint, error)
	ComparisonRows(runID string) ([]models.ComparisonRow, error)
	FunctionTrend(function string, limit int) ([]models.TrendPoint, error)
}

// trendLimits are the window sizes cycled with the range key.
var trendLimits = []int{10, 25, 50}

// keyMap defines the key bindings specific to the history tab.
type keyMap struct {
	ToggleRange key.Binding
	Refresh     key.Binding
	Delete      key.Binding
	Details     key.Binding
	Up          key.Binding
	Down        key.Binding
}

// defaultKeyMap returns the default key bindings for the history tab.
func defaultKeyMap() keyMap {
	return keyMap{
		ToggleRange: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle range"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Details: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// fpsLoadedMsg is sent when the FPS trend is loaded.
type fpsLoadedMsg struct {
	points []models.FPSPoint
}

// detailLoadedMsg carries the stored rows of one comparison.
type detailLoadedMsg struct {
	detail *detail
}

// historyErrorMsg is sent when there's an error loading history.
type historyErrorMsg struct {
	err string
}

// detail is the expanded view of one recorded comparison.
type detail struct {
	runID    string
	rows     []models.ComparisonRow
	function string
	trend    []models.TrendPoint
}

// Model represents the history tab state.
type Model struct {
	state     *app.State
	source    Source
	threshold float64
	width     int
	height    int
	keys      keyMap
	viewport  viewport.Model

	cursor      int
	limitIdx    int
	fps         []models.FPSPoint
	detail      *detail
	loading     bool
	lastRefresh time.Time
	errorMsg    string
}

// New creates a new history model.
func New(state *app.State, source Source, threshold float64) *Model {
	return &Model{
		state:     state,
		source:    source,
		threshold: threshold,
		keys:      defaultKeyMap(),
		viewport:  viewport.New(0, 0),
		limitIdx:  len(trendLimits) - 1,
	}
}

// Init initializes the history tab.
func (m *Model) Init() tea.Cmd {
	return m.loadFPSCmd()
}

func (m *Model) limit() int {
	return trendLimits[m.limitIdx]
}

// loadFPSCmd creates a command to load the FPS trend.
func (m *Model) loadFPSCmd() tea.Cmd {
	source, limit := m.source, m.limit()
	return func() tea.Msg {
		if source == nil {
			return historyErrorMsg{err: "Services not initialized"}
		}
		points, err := source.FPSHistory(limit)
		if err != nil {
			return historyErrorMsg{err: err.Error()}
		}
		return fpsLoadedMsg{points: points}
	}
}

// loadDetailCmd loads the rows of a comparison and the trend of its
// worst function.
func (m *Model) loadDetailCmd(runID string) tea.Cmd {
	source, limit := m.source, m.limit()
	return func() tea.Msg {
		if source == nil {
			return historyErrorMsg{err: "Services not initialized"}
		}
		rows, err := source.ComparisonRows(runID)
		if err != nil {
			return historyErrorMsg{err: err.Error()}
		}

		d := &detail{runID: runID, rows: rows, function: worstFunction(rows)}
		if d.function != "" {
			d.trend, err = source.FunctionTrend(d.function, limit)
			if err != nil {
				return historyErrorMsg{err: err.Error()}
			}
		}
		return detailLoadedMsg{detail: d}
	}
}

// worstFunction returns the function with the lowest defined percent
// difference, or "" when none is defined.
func worstFunction(rows []models.ComparisonRow) string {
	name := ""
	worst := 0.0
	for _, r := range rows {
		if r.IsUndefined() {
			continue
		}
		if name == "" || r.PercentDiff < worst {
			name, worst = r.Function, r.PercentDiff
		}
	}
	return name
}

// Update handles messages for the history tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case fpsLoadedMsg:
		m.fps = msg.points
		m.loading = false
		m.lastRefresh = time.Now()
		m.errorMsg = ""

	case detailLoadedMsg:
		m.detail = msg.detail

	case historyErrorMsg:
		m.loading = false
		m.errorMsg = msg.err
		cmds = append(cmds, func() tea.Msg {
			return app.AddNotificationMsg{
				Type:     app.NotificationError,
				Message:  fmt.Sprintf("History error: %s", msg.err),
				Duration: app.LongNotificationDuration,
			}
		})

	case app.TabSwitchMsg:
		if msg.Tab == app.TabHistory {
			return m.reload()
		}

	case app.HistoryLoadedMsg, app.ReportUpdatedMsg:
		return m.reload()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, tea.Batch(cmds...)
}

// reload refreshes the FPS trend and drops a detail whose comparison is gone.
func (m *Model) reload() (app.Tab, tea.Cmd) {
	history := m.state.GetHistory()
	m.clampCursor(len(history))

	if m.detail != nil {
		found := false
		for _, rec := range history {
			if rec.RunID == m.detail.runID {
				found = true
				break
			}
		}
		if !found {
			m.detail = nil
		}
	}

	if m.loading {
		return m, nil
	}
	m.loading = true
	return m, m.loadFPSCmd()
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	history := m.state.GetHistory()
	m.clampCursor(len(history))

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(history)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleRange):
		m.limitIdx = (m.limitIdx + 1) % len(trendLimits)
		m.loading = true
		return m, m.loadFPSCmd()

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.loadFPSCmd()

	case key.Matches(msg, m.keys.Delete):
		if len(history) == 0 {
			return m, nil
		}
		runID := history[m.cursor].RunID
		return m, func() tea.Msg {
			return app.DeleteComparisonMsg{RunID: runID}
		}

	case key.Matches(msg, m.keys.Details):
		if len(history) == 0 {
			return m, nil
		}
		runID := history[m.cursor].RunID
		if m.detail != nil && m.detail.runID == runID {
			m.detail = nil
			return m, nil
		}
		return m, m.loadDetailCmd(runID)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// SetSize sets the available size for the history tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Details,
		m.keys.Delete,
		m.keys.ToggleRange,
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Details, m.keys.Delete},
		{m.keys.ToggleRange, m.keys.Refresh},
		{m.keys.Up, m.keys.Down},
	}
}
