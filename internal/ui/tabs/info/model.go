// Package info provides the info tab with configuration and build details.
package info

import (
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/profdiff-tui/internal/app"
	"github.com/j-veylop/profdiff-tui/internal/config"
)

// Store describes the history database. *db.DB implements it.
type Store interface {
	Path() string
	SchemaVersion() (int, error)
}

// keyMap defines the key bindings specific to the info tab.
type keyMap struct {
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
}

// defaultKeyMap returns the default key bindings for the info tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
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

// storeStatsMsg carries the size and schema version of the database.
type storeStatsMsg struct {
	size   int64
	schema int
	err    error
}

// Model represents the info tab state.
type Model struct {
	state    *app.State
	config   *config.Config
	store    Store
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model

	stats *storeStatsMsg
}

// New creates a new info model. store may be nil.
func New(state *app.State, cfg *config.Config, store Store) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		store:    store,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the info tab.
func (m *Model) Init() tea.Cmd {
	return m.loadStatsCmd()
}

func (m *Model) loadStatsCmd() tea.Cmd {
	store := m.store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		msg := storeStatsMsg{}
		if fi, err := os.Stat(store.Path()); err == nil {
			msg.size = fi.Size()
		}
		msg.schema, msg.err = store.SchemaVersion()
		return msg
	}
}

// Update handles messages for the info tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case storeStatsMsg:
		m.stats = &msg

	case app.TabSwitchMsg:
		if msg.Tab == app.TabInfo {
			return m, m.loadStatsCmd()
		}

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Refresh) {
			return m, m.loadStatsCmd()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Refresh},
		{m.keys.Up, m.keys.Down},
	}
}
