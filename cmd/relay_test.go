package cmd

import (
	"testing"
	"time"

	"github.com/kartoza/kartoza-mini-recorder/internal/models"
)

func TestDescribeStatus(t *testing.T) {
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	now := start.Add(75 * time.Second)

	tests := []struct {
		name   string
		status models.RecordingStatus
		want   string
	}{
		{
			name:   "idle",
			status: models.RecordingStatus{State: models.StateIdle},
			want:   "Recording: INACTIVE",
		},
		{
			name:   "idle after save",
			status: models.RecordingStatus{State: models.StateIdle, LastSaved: "/videos/demo.webm"},
			want:   "Recording: INACTIVE  last saved /videos/demo.webm",
		},
		{
			name:   "recording",
			status: models.RecordingStatus{State: models.StateRecording, Source: "eDP-1", StartTime: start},
			want:   "Recording: ACTIVE  00:01:15  (eDP-1)",
		},
		{
			name: "paused",
			status: models.RecordingStatus{
				State:          models.StatePaused,
				Source:         "eDP-1",
				StartTime:      start,
				PauseStartedAt: start.Add(60 * time.Second),
			},
			want: "Recording: PAUSED  00:01:00  (eDP-1)",
		},
		{
			name:   "saving",
			status: models.RecordingStatus{State: models.StateStopped},
			want:   "Recording: SAVING",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeStatus(tt.status, now); got != tt.want {
				t.Errorf("describeStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
