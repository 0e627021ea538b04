package session

import (
	"errors"

	"github.com/kartoza/kartoza-mini-recorder/internal/monitor"
	"github.com/kartoza/kartoza-mini-recorder/internal/recorder"
	"github.com/kartoza/kartoza-mini-recorder/internal/storage"
)

// Errors surfaced by the manager. Collaborators return (or wrap) the same
// values so callers can match with errors.Is.
var (
	// ErrNoSourceAvailable means no screen could be captured
	ErrNoSourceAvailable = monitor.ErrNoSourceAvailable
	// ErrCaptureUnavailable means the platform refused the capture stream
	ErrCaptureUnavailable = recorder.ErrCaptureUnavailable
	// ErrIO means the recording could not be written to its destination
	ErrIO = storage.ErrIO
	// ErrUserCancelled means the save prompt was dismissed. It is not
	// reported as a failure.
	ErrUserCancelled = storage.ErrUserCancelled
	// ErrClosed is returned by Do once the manager loop has exited
	ErrClosed = errors.New("session manager is not running")
)
