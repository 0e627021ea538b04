package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kartoza/kartoza-mini-recorder/internal/models"
	"github.com/kartoza/kartoza-mini-recorder/internal/monitor"
	"github.com/kartoza/kartoza-mini-recorder/internal/recorder"
	"github.com/kartoza/kartoza-mini-recorder/internal/storage"
)

// Sink chooses where a finished recording goes and writes it there
type Sink interface {
	ChooseDestination(ctx context.Context, suggested string) (string, error)
	Write(ctx context.Context, path string, data []byte) (string, error)
}

// Notifier surfaces messages to the user
type Notifier interface {
	Info(title, body string) error
	Error(title, body string) error
}

// Clock returns the current time
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Options configures a Manager
type Options struct {
	// Interval is the chunk emission cadence requested from the pipeline
	Interval time.Duration
	// SourceName selects a capture source by name. Empty picks the primary
	// source, or the first one.
	SourceName string
	// OutputDir is where suggested save paths point
	OutputDir string
	Clock     Clock
	Logger    *slog.Logger
}

type request struct {
	cmd   Command
	reply chan error
}

// Manager owns the recording session and drives the capture pipeline. All
// transitions and chunk handling run on the goroutine executing Run.
type Manager struct {
	provider monitor.Provider
	pipeline recorder.Pipeline
	sink     Sink
	notifier Notifier
	opts     Options
	clock    Clock
	logger   *slog.Logger

	commands chan request
	done     chan struct{}
	runOnce  sync.Once

	// loop-owned
	session   *Session
	lastError string
	lastSaved string

	mu          sync.RWMutex
	status      models.RecordingStatus
	subscribers map[chan models.RecordingStatus]struct{}
}

// NewManager creates a Manager. Run must be called to process commands.
func NewManager(provider monitor.Provider, pipeline recorder.Pipeline, sink Sink, notifier Notifier, opts Options) *Manager {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m := &Manager{
		provider:    provider,
		pipeline:    pipeline,
		sink:        sink,
		notifier:    notifier,
		opts:        opts,
		clock:       clock,
		logger:      logger,
		commands:    make(chan request),
		done:        make(chan struct{}),
		session:     newIdleSession(),
		subscribers: make(map[chan models.RecordingStatus]struct{}),
	}
	m.status = m.session.status()
	return m
}

// Run processes commands and capture chunks until ctx is cancelled. An
// active recording is stopped and discarded on exit.
func (m *Manager) Run(ctx context.Context) error {
	started := false
	m.runOnce.Do(func() { started = true })
	if !started {
		return fmt.Errorf("session manager already running")
	}
	defer close(m.done)

	m.publish()

	for {
		var chunks <-chan []byte
		if m.session.capture != nil {
			chunks = m.session.capture.Chunks()
		}

		select {
		case <-ctx.Done():
			m.teardown()
			return nil

		case chunk, ok := <-chunks:
			if !ok {
				m.captureEnded(ctx)
				continue
			}
			m.session.append(chunk)
			m.publish()

		case req := <-m.commands:
			m.drainPending()
			req.reply <- m.handle(ctx, req.cmd)
		}
	}
}

// Do sends a command to the loop and waits for it to complete
func (m *Manager) Do(ctx context.Context, cmd Command) error {
	req := request{cmd: cmd, reply: make(chan error, 1)}

	select {
	case m.commands <- req:
	case <-m.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.reply:
		return err
	case <-m.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns the latest status snapshot
func (m *Manager) Status() models.RecordingStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Subscribe returns a channel receiving status snapshots after every change.
// Slow subscribers only see the most recent snapshot. Call cancel to stop.
func (m *Manager) Subscribe() (<-chan models.RecordingStatus, func()) {
	ch := make(chan models.RecordingStatus, 1)

	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	ch <- m.status
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.subscribers[ch]; ok {
			delete(m.subscribers, ch)
			close(ch)
		}
	}
	return ch, cancel
}

func (m *Manager) handle(ctx context.Context, cmd Command) error {
	m.logger.Debug("command", "command", cmd.String(), "state", string(m.session.State))

	switch cmd {
	case CommandStart:
		return m.start(ctx)
	case CommandPause:
		return m.pause()
	case CommandResume:
		return m.resume()
	case CommandToggle:
		switch m.session.State {
		case models.StateIdle:
			return m.start(ctx)
		case models.StatePaused:
			return m.resume()
		case models.StateRecording:
			return m.pause()
		}
		return nil
	case CommandStop:
		return m.stop(ctx)
	default:
		return fmt.Errorf("unknown command %s", cmd)
	}
}

func (m *Manager) start(ctx context.Context) error {
	if m.session.State != models.StateIdle {
		return nil
	}

	sources, err := m.provider.ListSources(ctx)
	if err != nil || len(sources) == 0 {
		if err == nil || !errors.Is(err, ErrNoSourceAvailable) {
			err = wrap(ErrNoSourceAvailable, err)
		}
		m.fail("Cannot start recording", err)
		return err
	}

	source := pickSource(sources, m.opts.SourceName)

	capture, err := m.pipeline.Bind(ctx, source)
	if err != nil {
		err = ensureWrapped(ErrCaptureUnavailable, err)
		m.fail("Cannot start recording", err)
		return err
	}

	if err := capture.Start(m.opts.Interval); err != nil {
		_ = capture.Stop()
		for range capture.Chunks() {
		}
		err = ensureWrapped(ErrCaptureUnavailable, err)
		m.fail("Cannot start recording", err)
		return err
	}

	m.session = &Session{
		ID:        uuid.NewString(),
		State:     models.StateRecording,
		Source:    source,
		StartTime: m.clock.Now(),
		capture:   capture,
	}
	m.lastError = ""
	m.publish()

	m.logger.Info("recording started", "session_id", m.session.ID, "source", source.Name)
	m.notify("Screen Recording", "Recording "+source.Name)
	return nil
}

func (m *Manager) pause() error {
	s := m.session
	if s.State != models.StateRecording {
		return nil
	}

	if err := s.capture.Pause(); err != nil {
		m.logger.Warn("pause failed", "session_id", s.ID, "error", err)
		m.fail("Cannot pause recording", err)
		return err
	}

	s.State = models.StatePaused
	s.PauseStartedAt = m.clock.Now()
	m.publish()

	m.logger.Info("recording paused", "session_id", s.ID)
	return nil
}

func (m *Manager) resume() error {
	s := m.session
	if s.State != models.StatePaused {
		return nil
	}

	if err := s.capture.Resume(); err != nil {
		m.logger.Warn("resume failed", "session_id", s.ID, "error", err)
		m.fail("Cannot resume recording", err)
		return err
	}

	s.AccumulatedPause += m.clock.Now().Sub(s.PauseStartedAt)
	s.PauseStartedAt = time.Time{}
	s.State = models.StateRecording
	m.publish()

	m.logger.Info("recording resumed", "session_id", s.ID, "paused_total", s.AccumulatedPause)
	return nil
}

func (m *Manager) stop(ctx context.Context) error {
	s := m.session
	if !s.State.IsActive() {
		return nil
	}

	// Reset happens whatever the outcome of the save
	defer m.reset()

	elapsed := Elapsed(s.status(), m.clock.Now())

	if err := s.capture.Stop(); err != nil {
		m.logger.Warn("capture stop failed", "session_id", s.ID, "error", err)
	}
	for chunk := range s.capture.Chunks() {
		s.append(chunk)
	}
	s.capture = nil

	s.State = models.StateStopped
	s.PauseStartedAt = time.Time{}
	m.publish()

	m.logger.Info("recording stopped",
		"session_id", s.ID,
		"elapsed", elapsed,
		"chunks", len(s.Chunks),
		"bytes", s.bytes,
	)

	return m.save(ctx, s)
}

func (m *Manager) save(ctx context.Context, s *Session) error {
	payload := s.payload()
	if len(payload) == 0 {
		m.notify("Screen Recording", "Nothing was recorded")
		return nil
	}

	suggested := filepath.Join(m.opts.OutputDir, storage.DefaultFileName(s.StartTime))
	path, err := m.sink.ChooseDestination(ctx, suggested)
	if errors.Is(err, ErrUserCancelled) {
		m.logger.Info("save cancelled", "session_id", s.ID)
		return nil
	}
	if err != nil {
		err = ensureWrapped(ErrIO, err)
		m.fail("Save failed", err)
		return err
	}

	path, err = m.sink.Write(ctx, path, payload)
	if err != nil {
		err = ensureWrapped(ErrIO, err)
		m.fail("Save failed", err)
		return err
	}

	m.lastSaved = path
	m.logger.Info("recording saved", "session_id", s.ID, "path", path, "bytes", len(payload))
	m.notify("Screen Recording Complete", filepath.Base(path)+" saved!")
	return nil
}

// captureEnded handles a pipeline that finished on its own, for example when
// the encoder crashed. Whatever was captured is saved like a normal stop.
func (m *Manager) captureEnded(ctx context.Context) {
	m.logger.Warn("capture ended unexpectedly", "session_id", m.session.ID)
	m.lastError = "capture ended unexpectedly"
	if m.notifier != nil {
		_ = m.notifier.Error("Screen Recording", "Capture ended unexpectedly, saving what was recorded")
	}
	_ = m.stop(ctx)
}

func (m *Manager) teardown() {
	s := m.session
	if s.capture == nil {
		return
	}
	_ = s.capture.Stop()
	for range s.capture.Chunks() {
	}
	m.logger.Info("recording discarded on exit", "session_id", s.ID, "chunks", len(s.Chunks))
	m.session = newIdleSession()
	m.publish()
}

func (m *Manager) reset() {
	m.session = newIdleSession()
	m.publish()
}

// drainPending appends chunks that were delivered before a command arrived
// so they keep their arrival order relative to the transition
func (m *Manager) drainPending() {
	s := m.session
	if s.capture == nil {
		return
	}
	for {
		select {
		case chunk, ok := <-s.capture.Chunks():
			if !ok {
				return
			}
			s.append(chunk)
		default:
			return
		}
	}
}

func (m *Manager) fail(title string, err error) {
	m.lastError = err.Error()
	m.logger.Error(title, "error", err)
	m.publish()
	if m.notifier != nil {
		_ = m.notifier.Error(title, err.Error())
	}
}

func (m *Manager) notify(title, body string) {
	if m.notifier != nil {
		_ = m.notifier.Info(title, body)
	}
}

func (m *Manager) publish() {
	status := m.session.status()
	status.LastError = m.lastError
	status.LastSaved = m.lastSaved

	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
	for ch := range m.subscribers {
		select {
		case ch <- status:
		default:
			// Replace the stale snapshot
			select {
			case <-ch:
			default:
			}
			ch <- status
		}
	}
}

func pickSource(sources []models.CaptureSource, name string) models.CaptureSource {
	if name != "" {
		for _, s := range sources {
			if s.Name == name || s.ID == name {
				return s
			}
		}
	}
	for _, s := range sources {
		if s.Primary {
			return s
		}
	}
	return sources[0]
}

func wrap(sentinel, err error) error {
	if err == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

func ensureWrapped(sentinel, err error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return wrap(sentinel, err)
}
