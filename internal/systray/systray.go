//go:build cgo

package systray

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"fyne.io/systray"
	"github.com/kartoza/kartoza-mini-recorder/internal/icon"
	"github.com/kartoza/kartoza-mini-recorder/internal/models"
	"github.com/kartoza/kartoza-mini-recorder/internal/session"
)

// trayIconSize is the pixel size icons are rendered at; the desktop scales
// them further as needed
const trayIconSize = 64

// Manager handles the system tray icon and menu
type Manager struct {
	ctrl   Controller
	logger *slog.Logger

	mToggle *systray.MenuItem
	mStop   *systray.MenuItem
	mStatus *systray.MenuItem
	mQuit   *systray.MenuItem

	icons map[models.RecordingState][]byte

	mu         sync.Mutex
	lastStatus models.RecordingStatus
	lastState  models.RecordingState
}

// New creates a tray manager for ctrl
func New(ctrl Controller, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		ctrl:   ctrl,
		logger: logger,
		icons:  make(map[models.RecordingState][]byte),
	}
	m.loadIcons()
	return m
}

// loadIcons renders one icon per state
func (m *Manager) loadIcons() {
	for _, state := range []models.RecordingState{models.StateIdle, models.StateRecording, models.StatePaused} {
		var data []byte
		var err error
		if runtime.GOOS == "windows" {
			data, err = icon.ICO(state, trayIconSize)
		} else {
			data, err = icon.PNG(state, trayIconSize)
		}
		if err != nil {
			m.logger.Warn("failed to render tray icon", "state", string(state), "error", err)
			continue
		}
		m.icons[state] = data
	}
}

func (m *Manager) setIcon(state models.RecordingState) {
	if state == models.StateStopped {
		state = models.StateIdle
	}
	if data := m.icons[state]; data != nil {
		systray.SetIcon(data)
	}
}

// Run shows the tray until ctx is cancelled or Quit is chosen. It must be
// called from the main goroutine.
func Run(ctx context.Context, ctrl Controller, logger *slog.Logger) error {
	m := New(ctrl, logger)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		systray.Quit()
	}()

	systray.Run(func() { m.OnReady(ctx, cancel) }, m.OnExit)
	return nil
}

// OnReady builds the menu and starts following the session
func (m *Manager) OnReady(ctx context.Context, quit context.CancelFunc) {
	m.setIcon(models.StateIdle)
	systray.SetTitle("Kartoza Recorder")
	systray.SetTooltip(idleTooltip)

	// Left click toggles, same as the toggle shortcut
	systray.SetOnTapped(func() {
		m.send(ctx, session.CommandToggle)
	})

	m.mToggle = systray.AddMenuItem("Start Recording", "Start a new recording")
	m.mStop = systray.AddMenuItem("Stop and Save", "Stop and save the recording")
	m.mStop.Disable()
	systray.AddSeparator()
	m.mStatus = systray.AddMenuItem("Idle", "Current status")
	m.mStatus.Disable()
	systray.AddSeparator()
	m.mQuit = systray.AddMenuItem("Quit", "Quit the application")

	go m.handleClicks(ctx, quit)
	go m.follow(ctx)
}

// OnExit is called when the systray is exiting
func (m *Manager) OnExit() {}

func (m *Manager) handleClicks(ctx context.Context, quit context.CancelFunc) {
	for {
		select {
		case <-m.mToggle.ClickedCh:
			m.send(ctx, session.CommandToggle)
		case <-m.mStop.ClickedCh:
			m.send(ctx, session.CommandStop)
		case <-m.mQuit.ClickedCh:
			quit()
			return
		case <-ctx.Done():
			return
		}
	}
}

// send runs cmd without blocking the tray. Failures are already reported
// to the user by the session.
func (m *Manager) send(ctx context.Context, cmd session.Command) {
	go func() {
		if err := m.ctrl.Do(ctx, cmd); err != nil {
			m.logger.Debug("tray command failed", "command", cmd.String(), "error", err)
		}
	}()
}

// follow applies status updates and refreshes the elapsed time once a
// second while a session is active
func (m *Manager) follow(ctx context.Context) {
	updates, cancel := m.ctrl.Subscribe()
	defer cancel()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case status, ok := <-updates:
			if !ok {
				return
			}
			m.apply(status)
		case <-ticker.C:
			m.mu.Lock()
			status := m.lastStatus
			m.mu.Unlock()
			if status.State.IsActive() {
				m.apply(status)
			}
		}
	}
}

func (m *Manager) apply(status models.RecordingStatus) {
	m.mu.Lock()
	changed := status.State != m.lastState
	m.lastStatus = status
	m.lastState = status.State
	m.mu.Unlock()

	view := ViewFor(status, time.Now())

	if changed {
		m.setIcon(status.State)
		m.mToggle.SetTitle(view.ToggleTitle)
		m.mToggle.SetTooltip(view.ToggleTip)
		if view.StopEnabled {
			m.mStop.Enable()
		} else {
			m.mStop.Disable()
		}
	}
	m.mStatus.SetTitle(view.StatusLine)
	systray.SetTooltip(view.Tooltip)
}
