// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/profdiff-tui/internal/config"
	"github.com/j-veylop/profdiff-tui/internal/db"
	"github.com/j-veylop/profdiff-tui/internal/logger"
	"github.com/j-veylop/profdiff-tui/internal/models"
	"github.com/j-veylop/profdiff-tui/internal/services/comparison"
	"github.com/j-veylop/profdiff-tui/internal/services/profiles"
)

type (
	// ProfilesChangedEvent is emitted when the capture list changes.
	ProfilesChangedEvent struct {
		Profiles []models.ProfileFile
	}

	// ComparisonStartedEvent is emitted before a comparison runs.
	ComparisonStartedEvent struct {
		BaselinePath  string
		CandidatePath string
	}

	// ComparisonCompletedEvent is emitted when a comparison finished and was recorded.
	ComparisonCompletedEvent struct {
		Report *models.ComparisonReport
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (ProfilesChangedEvent) isServiceEvent()     {}
func (ComparisonStartedEvent) isServiceEvent()   {}
func (ComparisonCompletedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()               {}

// desktopNotify sends a desktop notification without an icon.
func desktopNotify(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	profiles    *profiles.Service
	comparison  *comparison.Service
	database    *db.DB
	stopChan    chan struct{}
	routeDone   chan struct{}
	subscribers []chan<- ServiceEvent
	notify      func(title, body string) error

	// compareMu serializes comparisons so history rows keep capture order.
	compareMu sync.Mutex
	wg        sync.WaitGroup
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		cfg:       cfg,
		stopChan:  make(chan struct{}),
		routeDone: make(chan struct{}),
		notify:    desktopNotify,
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.profiles, err = profiles.New(cfg.ProfileDir, cfg.WatchDebounce)
	if err != nil {
		_ = m.database.Close()
		return nil, err
	}

	m.comparison = comparison.New(m.database, comparison.Config{
		FPSFunction:         cfg.FPSFunction,
		Division:            cfg.DivisionPolicy,
		RegressionThreshold: cfg.RegressionThreshold,
	})

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	defer close(m.routeDone)
	for {
		select {
		case event := <-m.profiles.Events():
			m.handleProfileEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handleProfileEvent converts and broadcasts profile events.
func (m *Manager) handleProfileEvent(event profiles.Event) {
	switch event.Type {
	case profiles.EventProfilesLoaded, profiles.EventProfileRemoved:
		m.broadcast(ProfilesChangedEvent{Profiles: m.profiles.Profiles()})

	case profiles.EventProfileAdded, profiles.EventProfileUpdated:
		m.broadcast(ProfilesChangedEvent{Profiles: m.profiles.Profiles()})
		if m.cfg.AutoCompare && event.Profile != nil {
			m.wg.Add(1)
			go func(path string) {
				defer m.wg.Done()
				m.autoCompare(path)
			}(event.Profile.Path)
		}

	case profiles.EventError:
		m.broadcast(ErrorEvent{
			Service: "profiles",
			Error:   event.Error,
		})
	}
}

// BaselineFor picks the baseline for a new capture: the configured baseline
// when set, otherwise the capture before it.
func (m *Manager) BaselineFor(candidate string) (string, bool) {
	if m.cfg.BaselinePath != "" {
		baseline, err := filepath.Abs(m.cfg.BaselinePath)
		if err == nil && baseline != candidate {
			return baseline, true
		}
		return "", false
	}
	prev, ok := m.profiles.Previous(candidate)
	if !ok {
		return "", false
	}
	return prev.Path, true
}

func (m *Manager) autoCompare(candidate string) {
	baseline, ok := m.BaselineFor(candidate)
	if !ok {
		logger.Debug("no baseline for capture", "path", candidate)
		return
	}
	if _, err := m.Compare(context.Background(), baseline, candidate); err != nil {
		logger.Warn("auto compare failed", "baseline", baseline, "candidate", candidate, "error", err)
	}
}

// Compare runs a comparison, records it and broadcasts the result.
func (m *Manager) Compare(ctx context.Context, baseline, candidate string) (*models.ComparisonReport, error) {
	m.compareMu.Lock()
	defer m.compareMu.Unlock()

	select {
	case <-m.stopChan:
		return nil, context.Canceled
	default:
	}

	m.broadcast(ComparisonStartedEvent{BaselinePath: baseline, CandidatePath: candidate})

	report, err := m.comparison.CompareFiles(ctx, baseline, candidate)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "comparison", Error: err})
		return nil, err
	}

	m.broadcast(ComparisonCompletedEvent{Report: report})
	m.checkNotifications(report)
	return report, nil
}

// checkNotifications raises a desktop notification when a capture regressed.
func (m *Manager) checkNotifications(report *models.ComparisonReport) {
	if !m.cfg.Notifications || !report.HasRegression() {
		return
	}

	title := fmt.Sprintf("Regression: %s", filepath.Base(report.CandidatePath))
	body := fmt.Sprintf("%d function(s) slower than %.1f%% vs %s",
		report.Regressions, m.cfg.RegressionThreshold, filepath.Base(report.BaselinePath))
	if report.FPS != nil && report.FPS.Winner == models.WinnerA {
		body = fmt.Sprintf("%s; %s dropped to %.1f fps from %.1f",
			body, report.FPS.Function, report.FPS.FpsB, report.FPS.FpsA)
	}
	if err := m.notify(title, body); err != nil {
		logger.Warn("failed to send notification", "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Profiles returns the known captures in capture order.
func (m *Manager) Profiles() []models.ProfileFile {
	return m.profiles.Profiles()
}

// RescanProfiles re-reads the capture directory and broadcasts the result.
func (m *Manager) RescanProfiles() error {
	if err := m.profiles.Rescan(); err != nil {
		return err
	}
	m.broadcast(ProfilesChangedEvent{Profiles: m.profiles.Profiles()})
	return nil
}

// ProfileDir returns the watched capture directory.
func (m *Manager) ProfileDir() string {
	return m.profiles.Dir()
}

// LastReport returns the most recent comparison of this session.
func (m *Manager) LastReport() *models.ComparisonReport {
	return m.comparison.Last()
}

// RecentComparisons returns the newest recorded comparisons.
func (m *Manager) RecentComparisons(limit int) ([]models.ComparisonRecord, error) {
	return m.database.GetRecentComparisons(limit)
}

// ComparisonRows returns the stored rows of a recorded comparison.
func (m *Manager) ComparisonRows(runID string) ([]models.ComparisonRow, error) {
	return m.database.GetComparisonRows(runID)
}

// FPSHistory returns the FPS trend of the configured frame function.
func (m *Manager) FPSHistory(limit int) ([]models.FPSPoint, error) {
	return m.database.GetFPSHistory(m.cfg.FPSFunction, limit)
}

// FunctionTrend returns the recorded durations of one function.
func (m *Manager) FunctionTrend(function string, limit int) ([]models.TrendPoint, error) {
	return m.database.GetFunctionTrend(function, limit)
}

// DeleteComparison removes a recorded comparison.
func (m *Manager) DeleteComparison(runID string) error {
	return m.database.DeleteComparison(runID)
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	var errs []error
	if err := m.profiles.Close(); err != nil {
		errs = append(errs, err)
	}

	// Let in-flight comparisons finish before the database goes away.
	<-m.routeDone
	m.wg.Wait()

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// InitialState returns the captures and recent history for TUI initialization.
func (m *Manager) InitialState() ([]models.ProfileFile, []models.ComparisonRecord) {
	history, err := m.database.GetRecentComparisons(0)
	if err != nil {
		logger.Error("failed to load comparison history", "error", err)
	}
	return m.profiles.Profiles(), history
}
