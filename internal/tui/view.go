package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/kartoza/kartoza-mini-recorder/internal/models"
)

// View renders the recorder screen
func (m Model) View() string {
	header := RenderHeader(HeaderState{
		State:    m.status.State,
		Source:   m.status.Source,
		Duration: m.Elapsed(),
		BlinkOn:  m.blinkOn,
	})

	var content string
	if m.prompt != nil {
		content = m.prompt.view()
	} else {
		content = m.renderRecorder()
	}

	footer := RenderHelpFooter(m.help.View(keys), m.width)

	if m.width == 0 || m.height == 0 {
		return lipgloss.JoinVertical(lipgloss.Center, header, "", content, "", footer)
	}
	return LayoutWithHeaderFooter(header, content, footer, m.width, m.height)
}

func (m Model) renderRecorder() string {
	sections := []string{
		BigTimer(m.Elapsed(), m.status.State),
		"",
		m.renderInfo(),
		"",
		m.renderButtons(),
	}

	if line := m.renderMessage(); line != "" {
		sections = append(sections, "", line)
	}

	return lipgloss.NewStyle().
		Width(HeaderWidth).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center, sections...))
}

func (m Model) renderInfo() string {
	if !m.status.State.IsActive() {
		if m.status.LastSaved != "" {
			return LabelStyle.Render("Last saved: ") + ValueStyle.Render(m.status.LastSaved)
		}
		return LabelStyle.Render("Press F1 to start recording")
	}

	return fmt.Sprintf("%s%s   %s%s",
		LabelStyle.Render("Chunks: "), ValueStyle.Render(fmt.Sprintf("%d", m.status.Chunks)),
		LabelStyle.Render("Size: "), ValueStyle.Render(FormatBytes(m.status.Bytes)),
	)
}

// ToggleLabel is the caption of the toggle button for a state
func ToggleLabel(state models.RecordingState) string {
	switch state {
	case models.StateRecording:
		return "⏸ Pause"
	case models.StatePaused:
		return "▶ Resume"
	}
	return "● Record"
}

func (m Model) renderButtons() string {
	normalStyle := lipgloss.NewStyle().
		Padding(0, 3).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorGray)

	selectedStyle := lipgloss.NewStyle().
		Padding(0, 3).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Bold(true)

	toggleColor := ColorRed
	switch m.status.State {
	case models.StateRecording:
		toggleColor = ColorOrange
	case models.StatePaused:
		toggleColor = ColorGreen
	}

	toggleStyle := normalStyle
	if m.selected == ButtonToggle {
		toggleStyle = selectedStyle
	}
	toggleBtn := toggleStyle.Foreground(toggleColor).Render(ToggleLabel(m.status.State))

	stopStyle := normalStyle.Foreground(ColorWhite)
	if !m.status.State.IsActive() {
		stopStyle = normalStyle.Foreground(ColorDarkGray)
	} else if m.selected == ButtonStop {
		stopStyle = selectedStyle.Foreground(ColorRed)
	}
	stopBtn := stopStyle.Render("⏹ Stop")

	return lipgloss.JoinHorizontal(lipgloss.Center, toggleBtn, "    ", stopBtn)
}

func (m Model) renderMessage() string {
	switch {
	case m.busy:
		return LabelStyle.Render("Working...")
	case m.message == "":
		return ""
	case m.messageError:
		return ErrorStyle.Render(m.message)
	}
	return SuccessStyle.Render(m.message)
}
