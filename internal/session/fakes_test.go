package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kartoza/kartoza-mini-recorder/internal/models"
	"github.com/kartoza/kartoza-mini-recorder/internal/recorder"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeProvider struct {
	mu      sync.Mutex
	sources []models.CaptureSource
	err     error
	calls   int
}

func (p *fakeProvider) ListSources(context.Context) ([]models.CaptureSource, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.sources, p.err
}

func (p *fakeProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// fakeCapture emits chunks on demand. Emit is ignored while paused, the
// way the real pipeline gates emission.
type fakeCapture struct {
	mu       sync.Mutex
	chunks   chan []byte
	started  bool
	paused   bool
	stopped  bool
	interval time.Duration
	pauses   int
	resumes  int
	emitted  int
	// tail is flushed as the final chunk on Stop
	tail []byte
}

func newFakeCapture() *fakeCapture {
	return &fakeCapture{chunks: make(chan []byte, 256)}
}

func (c *fakeCapture) Start(interval time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = true
	c.interval = interval
	return nil
}

func (c *fakeCapture) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
	c.pauses++
	return nil
}

func (c *fakeCapture) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
	c.resumes++
	return nil
}

func (c *fakeCapture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return nil
	}
	c.stopped = true
	if len(c.tail) > 0 {
		c.chunks <- c.tail
	}
	close(c.chunks)
	return nil
}

func (c *fakeCapture) Chunks() <-chan []byte {
	return c.chunks
}

// Emit sends one interval's chunk unless paused or stopped
func (c *fakeCapture) Emit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused || c.stopped {
		return
	}
	c.chunks <- []byte(fmt.Sprintf("c%d;", c.emitted))
	c.emitted++
}

// Crash closes the stream as if the encoder died
func (c *fakeCapture) Crash() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	close(c.chunks)
}

func (c *fakeCapture) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

func (c *fakeCapture) Pauses() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pauses
}

type fakePipeline struct {
	mu       sync.Mutex
	err      error
	startErr error
	binds    []models.CaptureSource
	last     *fakeCapture
}

func (p *fakePipeline) Bind(_ context.Context, source models.CaptureSource) (recorder.Capture, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.binds = append(p.binds, source)
	if p.err != nil {
		return nil, p.err
	}
	p.last = newFakeCapture()
	if p.startErr != nil {
		return &failingStart{fakeCapture: p.last, err: p.startErr}, nil
	}
	return p.last, nil
}

func (p *fakePipeline) Binds() []models.CaptureSource {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.CaptureSource(nil), p.binds...)
}

func (p *fakePipeline) Last() *fakeCapture {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

type failingStart struct {
	*fakeCapture
	err error
}

func (f *failingStart) Start(time.Duration) error { return f.err }

type writeCall struct {
	path string
	data []byte
}

type fakeSink struct {
	mu        sync.Mutex
	choice    string
	chooseErr error
	writeErr  error
	suggested []string
	writes    []writeCall
}

func (s *fakeSink) ChooseDestination(_ context.Context, suggested string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggested = append(s.suggested, suggested)
	if s.chooseErr != nil {
		return "", s.chooseErr
	}
	if s.choice != "" {
		return s.choice, nil
	}
	return suggested, nil
}

func (s *fakeSink) Write(_ context.Context, path string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, writeCall{path: path, data: data})
	if s.writeErr != nil {
		return "", s.writeErr
	}
	return path, nil
}

func (s *fakeSink) Calls() (chooses, writes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.suggested), len(s.writes)
}

func (s *fakeSink) Writes() []writeCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]writeCall(nil), s.writes...)
}

type message struct {
	title string
	body  string
}

type fakeNotifier struct {
	mu     sync.Mutex
	infos  []message
	errors []message
}

func (n *fakeNotifier) Info(title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infos = append(n.infos, message{title, body})
	return nil
}

func (n *fakeNotifier) Error(title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message{title, body})
	return nil
}

func (n *fakeNotifier) Infos() []message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]message(nil), n.infos...)
}

func (n *fakeNotifier) Errors() []message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]message(nil), n.errors...)
}

type harness struct {
	manager  *Manager
	clock    *fakeClock
	provider *fakeProvider
	pipeline *fakePipeline
	sink     *fakeSink
	notifier *fakeNotifier

	cancel   context.CancelFunc
	done     chan error
	stopOnce sync.Once
	runErr   error
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		clock: newFakeClock(),
		provider: &fakeProvider{sources: []models.CaptureSource{
			{ID: "0,0", Name: "eDP-1", Width: 1920, Height: 1080, Primary: true},
		}},
		pipeline: &fakePipeline{},
		sink:     &fakeSink{},
		notifier: &fakeNotifier{},
		done:     make(chan error, 1),
	}

	h.manager = NewManager(h.provider, h.pipeline, h.sink, h.notifier, Options{
		Interval:  time.Second,
		OutputDir: "/videos",
		Clock:     h.clock,
	})

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- h.manager.Run(ctx) }()

	t.Cleanup(func() { h.shutdown() })
	return h
}

// shutdown cancels the loop and returns the error Run exited with
func (h *harness) shutdown() error {
	h.stopOnce.Do(func() {
		h.cancel()
		h.runErr = <-h.done
	})
	return h.runErr
}

func (h *harness) do(t *testing.T, cmd Command) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := h.manager.Do(ctx, cmd)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("%s timed out", cmd)
	}
	return err
}

func (h *harness) mustDo(t *testing.T, cmd Command) {
	t.Helper()
	if err := h.do(t, cmd); err != nil {
		t.Fatalf("%s failed: %v", cmd, err)
	}
}

func (h *harness) state() models.RecordingState {
	return h.manager.Status().State
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
