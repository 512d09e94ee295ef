// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/j-veylop/profdiff-tui/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial    bool
	Comparison bool
	History    bool
}

// State is shared between the application model and its tabs.
type State struct {
	mu sync.RWMutex

	Profiles []models.ProfileFile
	History  []models.ComparisonRecord
	Report   *models.ComparisonReport

	// Paths picked on the profiles tab.
	Baseline  string
	Candidate string

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty state that is still loading its initial data.
func NewState() *State {
	return &State{
		Profiles:      make([]models.ProfileFile, 0),
		History:       make([]models.ComparisonRecord, 0),
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "comparison":
		s.Loading.Comparison = loading
	case "history":
		s.Loading.History = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Comparison ||
		s.Loading.History
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// IsComparing returns true while a comparison is running.
func (s *State) IsComparing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Comparison
}

// SetProfiles replaces the capture list. Selections pointing at removed
// captures are cleared.
func (s *State) SetProfiles(profiles []models.ProfileFile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Profiles = profiles
	s.LastUpdated = time.Now()

	known := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		known[p.Path] = true
	}
	if !known[s.Candidate] {
		s.Candidate = ""
	}
	// The baseline may live outside the watched directory.
	if s.Baseline != "" && !known[s.Baseline] && isWatched(s.Baseline, profiles) {
		s.Baseline = ""
	}
}

// isWatched reports whether path shares a directory with the captures.
func isWatched(path string, profiles []models.ProfileFile) bool {
	dir := filepath.Dir(path)
	for _, p := range profiles {
		if filepath.Dir(p.Path) == dir {
			return true
		}
	}
	return false
}

// GetProfiles returns a copy of the capture list.
func (s *State) GetProfiles() []models.ProfileFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make([]models.ProfileFile, len(s.Profiles))
	copy(profiles, s.Profiles)
	return profiles
}

// GetProfileCount returns the number of captures.
func (s *State) GetProfileCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Profiles)
}

// SetBaseline selects the A side of the next comparison.
func (s *State) SetBaseline(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Baseline = path
}

// SetCandidate selects the B side of the next comparison.
func (s *State) SetCandidate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Candidate = path
}

// GetSelection returns the selected baseline and candidate paths.
func (s *State) GetSelection() (baseline, candidate string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Baseline, s.Candidate
}

// SetReport stores the latest comparison. It returns false when the report
// is already the current one.
func (s *State) SetReport(report *models.ComparisonReport) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if report == nil {
		return false
	}
	if s.Report != nil && s.Report.RunID == report.RunID {
		return false
	}
	s.Report = report
	s.Baseline = report.BaselinePath
	s.Candidate = report.CandidatePath
	s.LastUpdated = time.Now()
	return true
}

// GetReport returns the latest comparison, or nil.
func (s *State) GetReport() *models.ComparisonReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Report
}

// SetHistory replaces the comparison history. A removed current report is
// kept on screen until the next comparison.
func (s *State) SetHistory(history []models.ComparisonRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.History = history
}

// GetHistory returns a copy of the comparison history, newest first.
func (s *State) GetHistory() []models.ComparisonRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make([]models.ComparisonRecord, len(s.History))
	copy(history, s.History)
	return history
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := fmt.Sprintf("%s-%d", time.Now().Format("20060102150405"), s.notificationSeq)

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
