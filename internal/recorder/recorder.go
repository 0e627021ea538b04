package recorder

import (
	"context"
	"errors"
	"time"

	"github.com/kartoza/kartoza-mini-recorder/internal/models"
)

// ErrCaptureUnavailable is returned when the platform refuses the capture
// stream, for example when screen recording permission is denied or the
// encoder cannot open the display.
var ErrCaptureUnavailable = errors.New("screen capture unavailable")

// Pipeline binds capture sources to live encoded streams
type Pipeline interface {
	Bind(ctx context.Context, source models.CaptureSource) (Capture, error)
}

// Capture is one bound capture stream. Chunks yields encoded video in
// arrival order while the capture is running and is closed once Stop has
// flushed the remaining data. A Capture cannot be restarted.
type Capture interface {
	Start(interval time.Duration) error
	Pause() error
	Resume() error
	Stop() error
	Chunks() <-chan []byte
}

// Options for the encoder
type Options struct {
	FFmpegPath   string
	VideoBitrate int
	FrameRate    int
	MaxWidth     int
	MaxHeight    int
	// Display is the X11 display to grab from. Defaults to $DISPLAY.
	Display string
}

// DefaultOptions returns the default encoder options
func DefaultOptions() Options {
	return Options{
		FFmpegPath:   "ffmpeg",
		VideoBitrate: 2500000,
		FrameRate:    30,
		MaxWidth:     1920,
		MaxHeight:    1080,
	}
}
