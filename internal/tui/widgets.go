package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kartoza/kartoza-mini-recorder/internal/models"
)

// ========================================
// Brand Colors - Kartoza standard palette
// ========================================

var (
	ColorOrange   = lipgloss.Color("#DDA036") // Primary/Paused
	ColorBlue     = lipgloss.Color("#569FC6") // Secondary/Selection
	ColorGray     = lipgloss.Color("#9A9EA0") // Inactive/Subtle
	ColorWhite    = lipgloss.Color("#FFFFFF") // Text
	ColorDarkGray = lipgloss.Color("#3A3A3A") // Background
	ColorRed      = lipgloss.Color("#E95420") // Error/Recording
	ColorGreen    = lipgloss.Color("#4CAF50") // Success
)

// HeaderWidth is the standard width for the header
const HeaderWidth = 60

const divider = "────────────────────────────────────────────────────────────"

// HeaderState contains the dynamic state for the header
type HeaderState struct {
	State    models.RecordingState
	Source   string
	Duration string
	BlinkOn  bool // For blinking status indicator
}

// RenderHeader renders the application header with a status line
func RenderHeader(state HeaderState) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorOrange).
		Align(lipgloss.Center).
		Width(HeaderWidth)

	mottoStyle := lipgloss.NewStyle().
		Italic(true).
		Foreground(ColorGray).
		Align(lipgloss.Center).
		Width(HeaderWidth)

	dividerStyle := lipgloss.NewStyle().
		Foreground(ColorGray).
		Width(HeaderWidth)

	statusStyle := lipgloss.NewStyle().
		Foreground(ColorWhite).
		Align(lipgloss.Center).
		Width(HeaderWidth)

	title := titleStyle.Render("Kartoza Mini Recorder")
	motto := mottoStyle.Render("capture your screen")
	line := dividerStyle.Render(divider)

	indicator, indicatorColor := statusIndicator(state.State, state.BlinkOn)
	styled := lipgloss.NewStyle().
		Foreground(indicatorColor).
		Bold(true).
		Render(indicator)

	source := state.Source
	if source == "" {
		source = "Auto"
	}
	duration := state.Duration
	if duration == "" {
		duration = "00:00:00"
	}

	status := statusStyle.Render(fmt.Sprintf("Status: %s  |  Screen: %s  |  Duration: %s",
		styled, source, duration))

	return lipgloss.JoinVertical(lipgloss.Center, title, motto, line, status, line)
}

// statusIndicator returns the status label and its color
func statusIndicator(state models.RecordingState, blinkOn bool) (string, lipgloss.Color) {
	switch state {
	case models.StateRecording:
		// Blink the dot while recording
		if blinkOn {
			return "● REC", ColorRed
		}
		return "○ REC", ColorRed
	case models.StatePaused:
		return "⏸ PAUSED", ColorOrange
	case models.StateStopped:
		return "Saving", ColorBlue
	}
	return "Ready", ColorGray
}

// RenderHelpFooter renders the help footer at the bottom of the screen
func RenderHelpFooter(helpText string, width int) string {
	helpStyle := lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true)

	footerStyle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center)

	return footerStyle.Render(helpStyle.Render(helpText))
}

// LayoutWithHeaderFooter places the header and content at the top and the
// footer on the last line
func LayoutWithHeaderFooter(header, content, footer string, width, height int) string {
	mainSection := lipgloss.JoinVertical(
		lipgloss.Center,
		header,
		"",
		content,
	)

	footerHeight := lipgloss.Height(footer)
	centeredMain := lipgloss.Place(
		width,
		height-footerHeight,
		lipgloss.Center,
		lipgloss.Top,
		mainSection,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		centeredMain,
		footer,
	)
}

// FormatBytes renders a byte count for humans
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// BigTimer renders HH:MM:SS in wide letter spacing
func BigTimer(elapsed string, state models.RecordingState) string {
	color := ColorGray
	switch state {
	case models.StateRecording:
		color = ColorWhite
	case models.StatePaused:
		color = ColorOrange
	}
	spaced := strings.Join(strings.Split(elapsed, ""), " ")
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Padding(1, 4).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Render(spaced)
}

// ========================================
// Common Styles
// ========================================

// Box style for content areas
var BoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorOrange).
	Padding(1, 2)

// Title style for section headings
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorOrange)

// Label style for form labels
var LabelStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// Value style for displaying values
var ValueStyle = lipgloss.NewStyle().
	Foreground(ColorWhite)

// Error style for error messages
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Bold(true)

// Success style for success messages
var SuccessStyle = lipgloss.NewStyle().
	Foreground(ColorGreen).
	Bold(true)
