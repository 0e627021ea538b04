package deps

import (
	"runtime"
	"strings"
	"testing"
)

func TestDetectOS(t *testing.T) {
	got := DetectOS()

	switch runtime.GOOS {
	case "linux":
		if got != OSLinux {
			t.Errorf("expected OSLinux, got %s", got)
		}
	case "darwin":
		if got != OSDarwin {
			t.Errorf("expected OSDarwin, got %s", got)
		}
	case "windows":
		if got != OSWindows {
			t.Errorf("expected OSWindows, got %s", got)
		}
	}
}

func TestDetectDisplayServer(t *testing.T) {
	tests := []struct {
		name    string
		display string
		wayland string
		want    DisplayServer
	}{
		{"x11 only", ":0", "", DisplayServerX11},
		{"xwayland prefers x11", ":0", "wayland-0", DisplayServerX11},
		{"wayland only", "", "wayland-0", DisplayServerWayland},
		{"none", "", "", DisplayServerUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DISPLAY", tt.display)
			t.Setenv("WAYLAND_DISPLAY", tt.wayland)

			if got := DetectDisplayServer(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestGetRequiredDeps_IncludesFFmpeg(t *testing.T) {
	found := false
	for _, d := range GetRequiredDeps() {
		if d.Name == "ffmpeg" {
			found = true
			if !d.Required {
				t.Error("expected ffmpeg to be required")
			}
		}
	}
	if !found {
		t.Error("expected ffmpeg in required deps")
	}
}

func TestCheck_Missing(t *testing.T) {
	result := Check(Dependency{Name: "definitely-not-a-real-binary-12345"})

	if result.Available {
		t.Error("expected dependency to be unavailable")
	}
	if result.Error == nil {
		t.Error("expected an error for a missing dependency")
	}
}

func TestFormatMissing(t *testing.T) {
	if got := FormatMissing(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}

	out := FormatMissing([]CheckResult{
		{Dependency: Dependency{Name: "ffmpeg", Description: "encoder", Required: true}},
	})
	if !strings.Contains(out, "ffmpeg (REQUIRED)") {
		t.Errorf("expected ffmpeg marked as required, got %q", out)
	}
}
