package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/profdiff-tui/internal/db"
	"github.com/j-veylop/profdiff-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	// CompareTimeout bounds a comparison started from the UI.
	CompareTimeout = 30 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadInitialData returns a command that loads captures and history.
func loadInitialData(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		profiles, history := mgr.InitialState()
		return InitialDataMsg{Profiles: profiles, History: history}
	}
}

// loadHistoryCmd returns a command that reloads the comparison history.
func loadHistoryCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		history, err := mgr.RecentComparisons(db.DefaultHistoryLimit)
		return HistoryLoadedMsg{History: history, Error: err}
	}
}

// compareCmd returns a command that runs a comparison through the manager.
func compareCmd(mgr *services.Manager, baseline, candidate string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), CompareTimeout)
		defer cancel()

		report, err := mgr.Compare(ctx, baseline, candidate)
		return ComparisonResultMsg{Report: report, Error: err}
	}
}

// deleteComparisonCmd returns a command that removes a history entry.
func deleteComparisonCmd(mgr *services.Manager, runID string) tea.Cmd {
	return func() tea.Msg {
		err := mgr.DeleteComparison(runID)
		return DeleteComparisonResultMsg{RunID: runID, Error: err}
	}
}

// rescanCmd returns a command that re-reads the capture directory.
func rescanCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		err := mgr.RescanProfiles()
		return RescanResultMsg{Profiles: mgr.Profiles(), Error: err}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// notifyCmd returns a command that adds a notification.
func notifyCmd(notifType NotificationType, message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     notifType,
			Message:  message,
			Duration: duration,
		}
	}
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, LongNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// Commands provides a public interface to the command functions.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// LoadInitialData returns a command that loads captures and history.
func (c *Commands) LoadInitialData() tea.Cmd {
	return loadInitialData(c.manager)
}

// LoadHistory returns a command that reloads the comparison history.
func (c *Commands) LoadHistory() tea.Cmd {
	return loadHistoryCmd(c.manager)
}

// Compare returns a command that compares two captures.
func (c *Commands) Compare(baseline, candidate string) tea.Cmd {
	return compareCmd(c.manager, baseline, candidate)
}

// DeleteComparison returns a command that removes a history entry.
func (c *Commands) DeleteComparison(runID string) tea.Cmd {
	return deleteComparisonCmd(c.manager, runID)
}

// Rescan returns a command that re-reads the capture directory.
func (c *Commands) Rescan() tea.Cmd {
	return rescanCmd(c.manager)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// ClearNotification returns a command that removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}
