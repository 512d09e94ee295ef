package app

import (
	"time"

	"github.com/j-veylop/profdiff-tui/internal/models"
	"github.com/j-veylop/profdiff-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// InitialDataMsg carries the captures and history known at startup.
type InitialDataMsg struct {
	Profiles []models.ProfileFile
	History  []models.ComparisonRecord
}

// HistoryLoadedMsg contains the comparison history, newest first.
type HistoryLoadedMsg struct {
	History []models.ComparisonRecord
	Error   error
}

// CompareRequestMsg asks for a comparison of two captures.
type CompareRequestMsg struct {
	Baseline  string
	Candidate string
}

// ComparisonResultMsg is the outcome of a requested comparison.
type ComparisonResultMsg struct {
	Report *models.ComparisonReport
	Error  error
}

// ReportUpdatedMsg signals that State holds a new comparison report.
type ReportUpdatedMsg struct {
	Report *models.ComparisonReport
}

// DeleteComparisonMsg requests removal of a history entry.
type DeleteComparisonMsg struct {
	RunID string
}

// DeleteComparisonResultMsg contains the result of a history deletion.
type DeleteComparisonResultMsg struct {
	RunID string
	Error error
}

// RescanResultMsg contains the result of re-reading the capture directory.
type RescanResultMsg struct {
	Profiles []models.ProfileFile
	Error    error
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg is sent to a tab when it becomes active.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
