package session

import (
	"bytes"
	"time"

	"github.com/kartoza/kartoza-mini-recorder/internal/models"
	"github.com/kartoza/kartoza-mini-recorder/internal/recorder"
)

// Session is the single recording context owned by the Manager loop. It is
// never shared with other goroutines; readers get RecordingStatus copies.
type Session struct {
	ID               string
	State            models.RecordingState
	Source           models.CaptureSource
	StartTime        time.Time
	AccumulatedPause time.Duration
	// PauseStartedAt is non-zero iff State is StatePaused
	PauseStartedAt time.Time
	Chunks         [][]byte

	bytes   int64
	capture recorder.Capture
}

func newIdleSession() *Session {
	return &Session{State: models.StateIdle}
}

func (s *Session) append(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	s.Chunks = append(s.Chunks, chunk)
	s.bytes += int64(len(chunk))
}

// payload joins all chunks in arrival order
func (s *Session) payload() []byte {
	return bytes.Join(s.Chunks, nil)
}

func (s *Session) status() models.RecordingStatus {
	status := models.RecordingStatus{
		State:            s.State,
		SessionID:        s.ID,
		StartTime:        s.StartTime,
		AccumulatedPause: s.AccumulatedPause,
		PauseStartedAt:   s.PauseStartedAt,
		Chunks:           len(s.Chunks),
		Bytes:            s.bytes,
	}
	if s.State != models.StateIdle {
		status.Source = s.Source.Name
	}
	return status
}
