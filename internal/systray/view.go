package systray

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kartoza/kartoza-mini-recorder/internal/models"
	"github.com/kartoza/kartoza-mini-recorder/internal/session"
)

// ErrUnavailable is returned by Run in builds without tray support
var ErrUnavailable = errors.New("system tray not available: built without CGO")

// Controller is the session the tray drives. *session.Manager satisfies it.
type Controller interface {
	Do(ctx context.Context, cmd session.Command) error
	Status() models.RecordingStatus
	Subscribe() (<-chan models.RecordingStatus, func())
}

// View is what the tray shows for a status
type View struct {
	Tooltip     string
	StatusLine  string
	ToggleTitle string
	ToggleTip   string
	StopEnabled bool
}

const idleTooltip = "Kartoza Mini Recorder - Click to start recording"

// ViewFor derives the tray labels for status at now
func ViewFor(status models.RecordingStatus, now time.Time) View {
	elapsed := session.FormatElapsed(session.Elapsed(status, now))

	switch status.State {
	case models.StateRecording:
		return View{
			Tooltip:     fmt.Sprintf("Recording %s\nElapsed: %s\nClick to pause", status.Source, elapsed),
			StatusLine:  "Recording: " + elapsed,
			ToggleTitle: "Pause Recording",
			ToggleTip:   "Pause the recording",
			StopEnabled: true,
		}
	case models.StatePaused:
		return View{
			Tooltip:     fmt.Sprintf("Recording Paused at %s\nClick to resume", elapsed),
			StatusLine:  "Paused: " + elapsed,
			ToggleTitle: "Resume Recording",
			ToggleTip:   "Resume the recording",
			StopEnabled: true,
		}
	case models.StateStopped:
		return View{
			Tooltip:     "Saving recording...",
			StatusLine:  "Saving...",
			ToggleTitle: "Start Recording",
			ToggleTip:   "Start a new recording",
		}
	}

	line := "Idle"
	if status.LastError != "" {
		line = "Error: " + status.LastError
	}
	return View{
		Tooltip:     idleTooltip,
		StatusLine:  line,
		ToggleTitle: "Start Recording",
		ToggleTip:   "Start a new recording",
	}
}
