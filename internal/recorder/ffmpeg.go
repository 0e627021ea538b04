package recorder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/kartoza/kartoza-mini-recorder/internal/deps"
	"github.com/kartoza/kartoza-mini-recorder/internal/models"
)

const (
	// bindProbe is how long Bind waits for the first encoded bytes before
	// assuming the capture is running
	bindProbe = 2 * time.Second
	// stopGrace is how long ffmpeg gets to finalise the stream after being
	// asked to quit
	stopGrace = 5 * time.Second
)

// FFmpegPipeline captures screens with an ffmpeg child process per session
type FFmpegPipeline struct {
	opts Options
}

// NewFFmpegPipeline creates a pipeline using the given encoder options
func NewFFmpegPipeline(opts Options) *FFmpegPipeline {
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if opts.Display == "" {
		opts.Display = os.Getenv("DISPLAY")
	}
	return &FFmpegPipeline{opts: opts}
}

// Bind spawns ffmpeg for source. It fails with ErrCaptureUnavailable when
// ffmpeg cannot be started or exits before producing any output.
func (p *FFmpegPipeline) Bind(ctx context.Context, source models.CaptureSource) (Capture, error) {
	args := BuildArgs(deps.DetectOS(), source, p.opts)

	cmd := exec.Command(p.opts.FFmpegPath, args...)
	setSysProcAttr(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}
	stderr := &tailBuffer{limit: 4096}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: failed to start ffmpeg: %v", ErrCaptureUnavailable, err)
	}

	c := &ffmpegCapture{
		cmd:     cmd,
		stdin:   stdin,
		chunker: newChunker(),
		exited:  make(chan struct{}),
	}

	go func() {
		_, _ = io.Copy(c.chunker, stdout)
		c.waitErr = cmd.Wait()
		close(c.exited)
	}()

	select {
	case <-c.chunker.firstWrite:
	case <-time.After(bindProbe):
	case <-c.exited:
		msg := strings.TrimSpace(stderr.String())
		if msg == "" && c.waitErr != nil {
			msg = c.waitErr.Error()
		}
		_ = stdin.Close()
		return nil, fmt.Errorf("%w: ffmpeg exited: %s", ErrCaptureUnavailable, msg)
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-c.exited
		_ = stdin.Close()
		return nil, ctx.Err()
	}

	return c, nil
}

type ffmpegCapture struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	chunker *chunker

	exited  chan struct{}
	waitErr error

	mu        sync.Mutex
	ticker    *time.Ticker
	started   bool
	suspended bool
	stopped   bool
}

func (c *ffmpegCapture) Chunks() <-chan []byte {
	return c.chunker.out
}

func (c *ffmpegCapture) Start(interval time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started || c.stopped {
		return fmt.Errorf("capture already started")
	}
	if interval <= 0 {
		return fmt.Errorf("invalid chunk interval %s", interval)
	}

	c.started = true
	c.ticker = time.NewTicker(interval)
	go c.chunker.run(c.ticker.C, c.exited)
	return nil
}

func (c *ffmpegCapture) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started || c.stopped || c.suspended {
		return nil
	}
	c.chunker.setPaused(true)
	if err := suspendProcess(c.cmd.Process); err != nil {
		c.chunker.setPaused(false)
		return fmt.Errorf("failed to suspend ffmpeg: %w", err)
	}
	c.suspended = true
	return nil
}

func (c *ffmpegCapture) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.suspended || c.stopped {
		return nil
	}
	if err := resumeProcess(c.cmd.Process); err != nil {
		return fmt.Errorf("failed to resume ffmpeg: %w", err)
	}
	c.suspended = false
	c.chunker.setPaused(false)
	return nil
}

// Stop asks ffmpeg to finish the stream. Chunks is closed once the final
// bytes have been emitted.
func (c *ffmpegCapture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return nil
	}
	c.stopped = true

	if !c.started {
		go c.chunker.run(nil, c.exited)
	}

	var firstErr error
	if c.suspended {
		if err := resumeProcess(c.cmd.Process); err != nil {
			firstErr = err
		}
		c.suspended = false
	}

	// "q" on stdin makes ffmpeg write the trailer and exit cleanly
	if _, err := io.WriteString(c.stdin, "q\n"); err != nil {
		if err := interruptProcess(c.cmd.Process); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	_ = c.stdin.Close()

	go func() {
		select {
		case <-c.exited:
		case <-time.After(stopGrace):
			_ = c.cmd.Process.Kill()
		}
		if c.ticker != nil {
			c.ticker.Stop()
		}
	}()

	return firstErr
}

// tailBuffer keeps the last limit bytes written to it
type tailBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf.Write(p)
	if over := t.buf.Len() - t.limit; over > 0 {
		t.buf.Next(over)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.String()
}
