package models

import "time"

// RecordingState represents the current state of a recording session
type RecordingState string

const (
	StateIdle      RecordingState = "idle"
	StateRecording RecordingState = "recording"
	StatePaused    RecordingState = "paused"
	// StateStopped is published while the captured payload is being saved.
	// It is always followed by StateIdle.
	StateStopped RecordingState = "stopped"
)

// IsActive reports whether a session exists in this state
func (s RecordingState) IsActive() bool {
	return s == StateRecording || s == StatePaused
}

// RecordingStatus is a read-only snapshot of the session, used by the TUI,
// the tray and the shortcut relay
type RecordingStatus struct {
	State            RecordingState `json:"state"`
	SessionID        string         `json:"session_id,omitempty"`
	Source           string         `json:"source,omitempty"`
	StartTime        time.Time      `json:"start_time,omitempty"`
	AccumulatedPause time.Duration  `json:"accumulated_pause,omitempty"`
	PauseStartedAt   time.Time      `json:"pause_started_at,omitempty"`
	Chunks           int            `json:"chunks"`
	Bytes            int64          `json:"bytes"`
	LastError        string         `json:"last_error,omitempty"`
	LastSaved        string         `json:"last_saved,omitempty"`
}
