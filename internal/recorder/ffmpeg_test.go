//go:build !windows

package recorder

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/kartoza/kartoza-mini-recorder/internal/models"
)

const helperEnv = "KARTOZA_RECORDER_HELPER"

// TestMain lets the test binary stand in for ffmpeg
func TestMain(m *testing.M) {
	switch os.Getenv(helperEnv) {
	case "encode":
		fakeEncoder()
		os.Exit(0)
	case "deny":
		fmt.Fprintln(os.Stderr, "Cannot open display :0, error 1.")
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// fakeEncoder writes a header, then data every 10ms until "q" arrives on
// stdin, then a trailer
func fakeEncoder() {
	quit := make(chan struct{})
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if strings.TrimSpace(scanner.Text()) == "q" {
				close(quit)
				return
			}
		}
	}()

	os.Stdout.WriteString("HEADER")
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-quit:
			os.Stdout.WriteString("TRAILER")
			return
		case <-ticker.C:
			os.Stdout.WriteString("data")
		}
	}
}

func testPipeline() *FFmpegPipeline {
	opts := DefaultOptions()
	opts.FFmpegPath = os.Args[0]
	return NewFFmpegPipeline(opts)
}

func TestFFmpegPipeline_StartStop(t *testing.T) {
	t.Setenv(helperEnv, "encode")

	capture, err := testPipeline().Bind(context.Background(), models.CaptureSource{ID: "0,0", Name: "test"})
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	if err := capture.Start(20 * time.Millisecond); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	var stream bytes.Buffer
	first, ok := receive(t, capture.Chunks())
	if !ok {
		t.Fatal("expected a chunk before stop")
	}
	stream.Write(first)

	if err := capture.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	deadline := time.After(10 * time.Second)
	for done := false; !done; {
		select {
		case chunk, ok := <-capture.Chunks():
			if !ok {
				done = true
				continue
			}
			if len(chunk) == 0 {
				t.Error("received an empty chunk")
			}
			stream.Write(chunk)
		case <-deadline:
			t.Fatal("chunks channel was not closed after Stop")
		}
	}

	got := stream.String()
	if !strings.HasPrefix(got, "HEADER") {
		t.Errorf("expected stream to start with HEADER, got %q", got)
	}
	if !strings.HasSuffix(got, "TRAILER") {
		t.Errorf("expected stream to end with TRAILER, got %q", got)
	}

	// Stopping twice is harmless
	if err := capture.Stop(); err != nil {
		t.Errorf("second Stop returned %v", err)
	}
}

func TestFFmpegPipeline_PauseResume(t *testing.T) {
	t.Setenv(helperEnv, "encode")

	capture, err := testPipeline().Bind(context.Background(), models.CaptureSource{ID: "0,0"})
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if err := capture.Start(10 * time.Millisecond); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := capture.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	// Pausing again is a no-op
	if err := capture.Pause(); err != nil {
		t.Fatalf("second Pause failed: %v", err)
	}

	// Anything emitted before the pause took effect may still be queued
	drain := time.After(100 * time.Millisecond)
	for waiting := true; waiting; {
		select {
		case <-capture.Chunks():
		case <-drain:
			waiting = false
		}
	}

	select {
	case chunk := <-capture.Chunks():
		t.Fatalf("expected no chunks while paused, got %q", chunk)
	case <-time.After(100 * time.Millisecond):
	}

	if err := capture.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if _, ok := receive(t, capture.Chunks()); !ok {
		t.Fatal("expected chunks after resume")
	}

	if err := capture.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	for range capture.Chunks() {
	}
}

func TestFFmpegPipeline_BindDenied(t *testing.T) {
	t.Setenv(helperEnv, "deny")

	_, err := testPipeline().Bind(context.Background(), models.CaptureSource{ID: "0,0"})
	if !errors.Is(err, ErrCaptureUnavailable) {
		t.Fatalf("expected ErrCaptureUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "Cannot open display") {
		t.Errorf("expected ffmpeg stderr in error, got %v", err)
	}
}

func openDescriptors(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skip("descriptor count needs /proc")
	}
	return len(entries)
}

func TestFFmpegPipeline_BindDeniedReleasesPipes(t *testing.T) {
	t.Setenv(helperEnv, "deny")
	p := testPipeline()

	before := openDescriptors(t)
	for i := 0; i < 5; i++ {
		if _, err := p.Bind(context.Background(), models.CaptureSource{ID: "0,0"}); err == nil {
			t.Fatal("expected bind to fail")
		}
	}
	if after := openDescriptors(t); after > before+1 {
		t.Errorf("expected pipes to be released, descriptors went from %d to %d", before, after)
	}
}

func TestFFmpegPipeline_MissingBinary(t *testing.T) {
	p := NewFFmpegPipeline(Options{FFmpegPath: "/nonexistent/ffmpeg-binary"})

	_, err := p.Bind(context.Background(), models.CaptureSource{ID: "0,0"})
	if !errors.Is(err, ErrCaptureUnavailable) {
		t.Fatalf("expected ErrCaptureUnavailable, got %v", err)
	}
}

func TestFFmpegPipeline_StopWithoutStart(t *testing.T) {
	t.Setenv(helperEnv, "encode")

	capture, err := testPipeline().Bind(context.Background(), models.CaptureSource{ID: "0,0"})
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	if err := capture.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	var stream bytes.Buffer
	timeout := time.After(10 * time.Second)
	for done := false; !done; {
		select {
		case chunk, ok := <-capture.Chunks():
			if !ok {
				done = true
				continue
			}
			stream.Write(chunk)
		case <-timeout:
			t.Fatal("chunks channel was not closed")
		}
	}

	if !strings.HasSuffix(stream.String(), "TRAILER") {
		t.Errorf("expected flushed trailer, got %q", stream.String())
	}
}
