package beep

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/kartoza/kartoza-mini-recorder/internal/models"
)

// Cue is a short sound marking a recording transition
type Cue int

const (
	CueStart Cue = iota + 1
	CuePause
	CueResume
	CueStop
)

// Frequencies of each cue (Hz). Start and resume rise, pause and stop fall.
var Frequencies = map[Cue]int{
	CueStart:  880,
	CueResume: 784,
	CuePause:  622,
	CueStop:   554,
}

// CueFor returns the cue for a state change, if any
func CueFor(prev, next models.RecordingState) (Cue, bool) {
	switch {
	case prev == models.StateIdle && next == models.StateRecording:
		return CueStart, true
	case prev == models.StateRecording && next == models.StatePaused:
		return CuePause, true
	case prev == models.StatePaused && next == models.StateRecording:
		return CueResume, true
	case prev.IsActive() && !next.IsActive():
		return CueStop, true
	}
	return 0, false
}

// Play plays the cue using whatever audio tool is available
func Play(cue Cue) {
	freq, ok := Frequencies[cue]
	if !ok {
		return
	}

	// Method 1: ffmpeg generated tone through PipeWire or ALSA
	if tryFFmpegBeep(freq) {
		return
	}

	// Method 2: macOS system sound
	if tryAfplay(cue) {
		return
	}

	// Method 3: speaker-test (ALSA)
	if trySpeakerTest(freq) {
		return
	}

	// Method 4: paplay with a system sound (PulseAudio)
	if tryPaplay() {
		return
	}

	// Method 5: console bell
	fmt.Print("\a")
}

// tryFFmpegBeep generates a 100ms sine wave and pipes it to pw-cat or aplay
func tryFFmpegBeep(freq int) bool {
	duration := "0.1"

	cmd := exec.Command("bash", "-c",
		fmt.Sprintf("ffmpeg -f lavfi -i 'sine=frequency=%d:duration=%s' -f wav - 2>/dev/null | pw-cat --playback - 2>/dev/null",
			freq, duration))
	if err := cmd.Run(); err == nil {
		return true
	}

	cmd = exec.Command("bash", "-c",
		fmt.Sprintf("ffmpeg -f lavfi -i 'sine=frequency=%d:duration=%s' -f wav - 2>/dev/null | aplay -q - 2>/dev/null",
			freq, duration))
	if err := cmd.Run(); err == nil {
		return true
	}

	return false
}

func tryAfplay(cue Cue) bool {
	sound := "/System/Library/Sounds/Tink.aiff"
	if cue == CueStop || cue == CuePause {
		sound = "/System/Library/Sounds/Pop.aiff"
	}
	return exec.Command("afplay", sound).Run() == nil
}

// trySpeakerTest uses speaker-test to generate a tone
func trySpeakerTest(freq int) bool {
	cmd := exec.Command("speaker-test", "-t", "sine", "-f", fmt.Sprintf("%d", freq), "-l", "1", "-p", "1")
	if err := cmd.Start(); err != nil {
		return false
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	return true
}

// tryPaplay plays a freedesktop system sound
func tryPaplay() bool {
	sounds := []string{
		"/usr/share/sounds/freedesktop/stereo/message.oga",
		"/usr/share/sounds/freedesktop/stereo/bell.oga",
		"/usr/share/sounds/sound-icons/bell.wav",
	}

	for _, sound := range sounds {
		if err := exec.Command("paplay", sound).Run(); err == nil {
			return true
		}
	}

	return false
}
