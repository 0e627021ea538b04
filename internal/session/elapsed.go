package session

import (
	"fmt"
	"time"

	"github.com/kartoza/kartoza-mini-recorder/internal/models"
)

// Elapsed returns the recorded time for a status snapshot. While paused the
// value is frozen at the instant the pause began.
func Elapsed(status models.RecordingStatus, now time.Time) time.Duration {
	if !status.State.IsActive() || status.StartTime.IsZero() {
		return 0
	}

	end := now
	if status.State == models.StatePaused && !status.PauseStartedAt.IsZero() {
		end = status.PauseStartedAt
	}

	d := end.Sub(status.StartTime) - status.AccumulatedPause
	if d < 0 {
		return 0
	}
	return d
}

// FormatElapsed renders a duration as HH:MM:SS. Hours are not capped.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
