// Package styles defines the visual styling for the application.
package styles

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Color definitions for the profdiff theme.
var (
	// Primary colors
	Primary   = lipgloss.Color("205") // Pink
	Secondary = lipgloss.Color("63")  // Purple
	Subtle    = lipgloss.Color("240") // Gray

	// Run colors
	Baseline  = lipgloss.Color("208") // Orange
	Candidate = lipgloss.Color("39")  // Blue

	// Status colors
	Success = lipgloss.Color("42")  // Green
	Error   = lipgloss.Color("196") // Red
	Warning = lipgloss.Color("220") // Yellow
	Info    = lipgloss.Color("39")  // Blue

	// Background colors
	BgDark   = lipgloss.Color("235")
	BgAccent = lipgloss.Color("236")

	// Text colors
	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")

	// ToastStyle for floating notifications.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary).
	MarginBottom(1)

// DocStyle provides consistent document margins.
var DocStyle = lipgloss.NewStyle().
	Margin(1, 2).
	Padding(0, 1)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(1, 2).
	MarginBottom(1)

// CardTitleStyle styles card headers.
var CardTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// FocusedStyle is used for focused input elements.
var FocusedStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// ProgressPercentStyle styles the percentage display.
var ProgressPercentStyle = lipgloss.NewStyle().
	Foreground(TextPrimary).
	Width(6).
	Align(lipgloss.Right)

// HelpStyle is the base style for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HelpPanelStyle creates the help overlay panel.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(Primary).
	Padding(1, 3).
	Background(BgDark)

// TableCellStyle styles table cells.
var TableCellStyle = lipgloss.NewStyle().
	Padding(0, 1)

// BetterStyle marks functions that got faster.
var BetterStyle = lipgloss.NewStyle().
	Foreground(Success)

// WorseStyle marks functions that got slower.
var WorseStyle = lipgloss.NewStyle().
	Foreground(Warning)

// RegressionStyle marks slowdowns past the regression threshold.
var RegressionStyle = lipgloss.NewStyle().
	Foreground(Error).
	Bold(true)

// UndefinedStyle marks rows without a percent difference.
var UndefinedStyle = lipgloss.NewStyle().
	Foreground(Subtle).
	Italic(true)

// BaselineStyle labels the A run.
var BaselineStyle = lipgloss.NewStyle().
	Foreground(Baseline).
	Bold(true)

// CandidateStyle labels the B run.
var CandidateStyle = lipgloss.NewStyle().
	Foreground(Candidate).
	Bold(true)

// ErrorTextStyle for error messages.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(Error)

// SuccessTextStyle for success messages.
var SuccessTextStyle = lipgloss.NewStyle().
	Foreground(Success)

// WarningTextStyle for warning messages.
var WarningTextStyle = lipgloss.NewStyle().
	Foreground(Warning)

// InfoTextStyle for info messages.
var InfoTextStyle = lipgloss.NewStyle().
	Foreground(Info)

// VerdictCardStyle frames the FPS verdict.
var VerdictCardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Secondary).
	Padding(0, 2).
	MarginBottom(1)

// GetDiffStyle returns the style for a percent difference.
// Positive values are improvements.
func GetDiffStyle(percentDiff, threshold float64) lipgloss.Style {
	switch {
	case math.IsNaN(percentDiff):
		return UndefinedStyle
	case percentDiff > 0:
		return BetterStyle
	case percentDiff < -threshold:
		return RegressionStyle
	default:
		return WorseStyle
	}
}

// GetWinnerStyle returns the style for an FPS winner label.
func GetWinnerStyle(winner string) lipgloss.Style {
	switch winner {
	case "A":
		return BaselineStyle
	case "B":
		return CandidateStyle
	default:
		return HelpStyle
	}
}

// CenterBoth centers content both horizontally and vertically.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}
