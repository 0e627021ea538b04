package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kartoza/kartoza-mini-recorder/internal/models"
	"github.com/kartoza/kartoza-mini-recorder/internal/session"
	"github.com/kartoza/kartoza-mini-recorder/internal/storage"
)

// Controller is the session the TUI drives. *session.Manager satisfies it.
type Controller interface {
	Do(ctx context.Context, cmd session.Command) error
	Status() models.RecordingStatus
	Subscribe() (<-chan models.RecordingStatus, func())
}

// Button identifies one of the two controls
type Button int

const (
	ButtonToggle Button = iota
	ButtonStop
)

// Key bindings
type keyMap struct {
	Toggle key.Binding
	Stop   key.Binding
	Press  key.Binding
	Next   key.Binding
	Prev   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Stop, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Stop, k.Press},
		{k.Next, k.Prev},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Toggle: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("F1", "start/pause/resume"),
	),
	Stop: key.NewBinding(
		key.WithKeys("f2", "s"),
		key.WithHelp("F2/s", "stop and save"),
	),
	Press: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space/enter", "press button"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab", "right", "l"),
		key.WithHelp("tab/→", "next button"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "left", "h"),
		key.WithHelp("shift+tab/←", "previous button"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Messages
type tickMsg time.Time

type statusMsg models.RecordingStatus

type commandDoneMsg struct {
	cmd session.Command
	err error
}

// notifyMsg carries a session notification into the UI
type notifyMsg struct {
	title   string
	body    string
	isError bool
}

// Model is the recorder screen
type Model struct {
	ctx     context.Context
	ctrl    Controller
	updates <-chan models.RecordingStatus
	now     func() time.Time

	status   models.RecordingStatus
	selected Button
	blinkOn  bool
	ticking  bool
	busy     bool

	message      string
	messageError bool
	confirmQuit  bool

	prompt *savePrompt
	help   help.Model

	width  int
	height int
}

// NewModel creates the recorder screen for ctrl. updates is the channel
// returned by ctrl.Subscribe.
func NewModel(ctx context.Context, ctrl Controller, updates <-chan models.RecordingStatus) Model {
	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		updates: updates,
		now:     time.Now,
		status:  ctrl.Status(),
		blinkOn: true,
		help:    help.New(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return waitForStatus(m.updates)
}

// waitForStatus delivers the next status snapshot
func waitForStatus(updates <-chan models.RecordingStatus) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		status, ok := <-updates
		if !ok {
			return nil
		}
		return statusMsg(status)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// run sends cmd to the session without blocking the UI
func (m Model) run(cmd session.Command) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return commandDoneMsg{cmd: cmd, err: ctrl.Do(ctx, cmd)}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.prompt != nil {
			m.prompt.setWidth(msg.Width)
		}
		return m, nil

	case tea.KeyMsg:
		if m.prompt != nil {
			return m.updatePrompt(msg)
		}
		return m.handleKey(msg)

	case statusMsg:
		m.status = models.RecordingStatus(msg)
		if !m.status.State.IsActive() {
			m.selected = ButtonToggle
		}
		cmds := []tea.Cmd{waitForStatus(m.updates)}
		// The timer ticks only while a session is active
		if m.status.State.IsActive() && !m.ticking {
			m.ticking = true
			cmds = append(cmds, tickCmd())
		}
		return m, tea.Batch(cmds...)

	case tickMsg:
		if !m.status.State.IsActive() {
			m.ticking = false
			m.blinkOn = true
			return m, nil
		}
		m.blinkOn = !m.blinkOn
		return m, tickCmd()

	case commandDoneMsg:
		m.busy = false
		if msg.err != nil && !errors.Is(msg.err, session.ErrClosed) {
			m.message = msg.err.Error()
			m.messageError = true
		}
		return m, nil

	case notifyMsg:
		m.message = msg.body
		m.messageError = msg.isError
		return m, nil

	case promptRequestMsg:
		m.prompt = newSavePrompt(msg, m.width)
		return m, textinput.Blink
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, keys.Quit) {
		m.confirmQuit = false
	}

	switch {
	case key.Matches(msg, keys.Quit):
		// Quitting discards an active recording, so ask first
		if m.status.State.IsActive() && !m.confirmQuit && msg.String() != "ctrl+c" {
			m.confirmQuit = true
			m.message = "Recording in progress. Press q again to discard it and quit."
			m.messageError = true
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, keys.Toggle):
		return m.send(session.CommandToggle)

	case key.Matches(msg, keys.Stop):
		return m.send(session.CommandStop)

	case key.Matches(msg, keys.Press):
		if m.selected == ButtonStop {
			return m.send(session.CommandStop)
		}
		return m.send(session.CommandToggle)

	case key.Matches(msg, keys.Next), key.Matches(msg, keys.Prev):
		// Stop only makes sense with an active session
		if m.status.State.IsActive() {
			if m.selected == ButtonToggle {
				m.selected = ButtonStop
			} else {
				m.selected = ButtonToggle
			}
		}
		return m, nil

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

func (m Model) send(cmd session.Command) (tea.Model, tea.Cmd) {
	m.busy = true
	m.message = ""
	m.messageError = false
	return m, m.run(cmd)
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.prompt.answer(m.prompt.value(), nil)
		m.prompt = nil
		return m, nil
	case tea.KeyEsc:
		m.prompt.answer("", storage.ErrUserCancelled)
		m.prompt = nil
		m.message = "Recording discarded"
		m.messageError = false
		return m, nil
	case tea.KeyCtrlC:
		m.prompt.answer("", storage.ErrUserCancelled)
		m.prompt = nil
		return m, tea.Quit
	}

	cmd := m.prompt.update(msg)
	return m, cmd
}

// Elapsed returns the timer value shown for the current status
func (m Model) Elapsed() string {
	return session.FormatElapsed(session.Elapsed(m.status, m.now()))
}
