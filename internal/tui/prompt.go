package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kartoza/kartoza-mini-recorder/internal/storage"
)

type promptResult struct {
	path string
	err  error
}

// promptRequestMsg opens the save prompt
type promptRequestMsg struct {
	suggested string
	reply     chan<- promptResult
}

type savePrompt struct {
	input textinput.Model
	reply chan<- promptResult
}

func newSavePrompt(req promptRequestMsg, width int) *savePrompt {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = req.suggested
	ti.SetValue(req.suggested)
	ti.CursorEnd()
	ti.Focus()

	p := &savePrompt{input: ti, reply: req.reply}
	p.setWidth(width)
	return p
}

func (p *savePrompt) setWidth(width int) {
	w := width - 12
	if w < 20 {
		w = HeaderWidth - 8
	}
	p.input.Width = w
}

func (p *savePrompt) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *savePrompt) value() string {
	return strings.TrimSpace(p.input.Value())
}

// answer replies once; the chooser only waits for a single result
func (p *savePrompt) answer(path string, err error) {
	if path == "" && err == nil {
		err = storage.ErrUserCancelled
	}
	select {
	case p.reply <- promptResult{path: path, err: err}:
	default:
	}
}

func (p *savePrompt) view() string {
	title := TitleStyle.Render("Save recording")
	hint := LabelStyle.Render("enter save • esc discard")
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		p.input.View(),
		"",
		hint,
	))
}
