package beep

import (
	"testing"

	"github.com/kartoza/kartoza-mini-recorder/internal/models"
)

func TestCueFor(t *testing.T) {
	tests := []struct {
		name   string
		prev   models.RecordingState
		next   models.RecordingState
		want   Cue
		wantOK bool
	}{
		{"start", models.StateIdle, models.StateRecording, CueStart, true},
		{"pause", models.StateRecording, models.StatePaused, CuePause, true},
		{"resume", models.StatePaused, models.StateRecording, CueResume, true},
		{"stop while recording", models.StateRecording, models.StateStopped, CueStop, true},
		{"stop while paused", models.StatePaused, models.StateIdle, CueStop, true},
		{"reset after stop", models.StateStopped, models.StateIdle, 0, false},
		{"unchanged", models.StateRecording, models.StateRecording, 0, false},
		{"idle", models.StateIdle, models.StateIdle, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CueFor(tt.prev, tt.next)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("CueFor(%s, %s) = %v, %v; want %v, %v", tt.prev, tt.next, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFrequencies(t *testing.T) {
	for _, cue := range []Cue{CueStart, CuePause, CueResume, CueStop} {
		if Frequencies[cue] <= 0 {
			t.Errorf("cue %d has no frequency", cue)
		}
	}
	if Frequencies[CueStart] <= Frequencies[CueStop] {
		t.Error("expected start cue higher than stop cue")
	}
}
