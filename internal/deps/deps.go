package deps

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// OS identifies the host operating system
type OS string

const (
	OSLinux   OS = "linux"
	OSDarwin  OS = "darwin"
	OSWindows OS = "windows"
	OSUnknown OS = "unknown"
)

// DetectOS returns the host operating system
func DetectOS() OS {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
		return OSLinux
	case "darwin":
		return OSDarwin
	case "windows":
		return OSWindows
	default:
		return OSUnknown
	}
}

// DisplayServer represents the type of display server in use
type DisplayServer string

const (
	DisplayServerWayland DisplayServer = "wayland"
	DisplayServerX11     DisplayServer = "x11"
	DisplayServerUnknown DisplayServer = "unknown"
)

// Dependency represents an external program
type Dependency struct {
	Name        string // Command name (e.g., "ffmpeg")
	Description string // Human-readable description
	Required    bool   // If true, recording cannot work without it
}

// CheckResult contains the result of checking a dependency
type CheckResult struct {
	Dependency Dependency
	Available  bool
	Path       string // Path to the executable if found
	Error      error  // Error if check failed
}

// DetectDisplayServer determines which display server the screen capture
// would talk to. X11 wins when both are present since ffmpeg x11grab can
// only use DISPLAY.
func DetectDisplayServer() DisplayServer {
	if os.Getenv("DISPLAY") != "" {
		return DisplayServerX11
	}
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return DisplayServerWayland
	}
	return DisplayServerUnknown
}

// GetDisplayServerName returns a human-readable name for the display server
func GetDisplayServerName() string {
	switch DetectDisplayServer() {
	case DisplayServerWayland:
		return "Wayland"
	case DisplayServerX11:
		return "X11"
	default:
		return "Unknown"
	}
}

// BaseDeps lists dependencies required on every platform
var BaseDeps = []Dependency{
	{
		Name:        "ffmpeg",
		Description: "Screen capture and VP8/WebM encoding",
		Required:    true,
	},
}

// LinuxDeps lists dependencies specific to Linux
var LinuxDeps = []Dependency{
	{
		Name:        "xrandr",
		Description: "Screen enumeration on X11",
		Required:    true,
	},
}

// OptionalDeps returns dependencies that enhance functionality on this OS
func OptionalDeps() []Dependency {
	switch DetectOS() {
	case OSLinux:
		return []Dependency{
			{Name: "notify-send", Description: "Desktop notifications"},
			{Name: "zenity", Description: "Native save dialog"},
			{Name: "kdialog", Description: "Native save dialog (KDE)"},
			{Name: "paplay", Description: "Start/stop sounds"},
		}
	case OSDarwin:
		return []Dependency{
			{Name: "osascript", Description: "Notifications and save dialog"},
			{Name: "afplay", Description: "Start/stop sounds"},
		}
	default:
		return nil
	}
}

// GetRequiredDeps returns the required dependencies for this OS
func GetRequiredDeps() []Dependency {
	deps := make([]Dependency, len(BaseDeps))
	copy(deps, BaseDeps)

	if DetectOS() == OSLinux {
		deps = append(deps, LinuxDeps...)
	}

	return deps
}

// Check verifies if a single dependency is available
func Check(dep Dependency) CheckResult {
	result := CheckResult{Dependency: dep}

	path, err := exec.LookPath(dep.Name)
	if err != nil {
		result.Available = false
		result.Error = err
	} else {
		result.Available = true
		result.Path = path
	}

	return result
}

// CheckAll verifies all required and optional dependencies
func CheckAll() (required []CheckResult, optional []CheckResult) {
	for _, dep := range GetRequiredDeps() {
		required = append(required, Check(dep))
	}
	for _, dep := range OptionalDeps() {
		optional = append(optional, Check(dep))
	}
	return required, optional
}

// MissingRequired returns a list of missing required dependencies
func MissingRequired() []CheckResult {
	var missing []CheckResult
	for _, dep := range GetRequiredDeps() {
		result := Check(dep)
		if !result.Available {
			missing = append(missing, result)
		}
	}
	return missing
}

// HasAllRequired returns true if all required dependencies are available
func HasAllRequired() bool {
	return len(MissingRequired()) == 0
}

// Available reports whether a program is on PATH
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// FormatMissing returns a formatted string of missing dependencies
func FormatMissing(results []CheckResult) string {
	if len(results) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Missing dependencies:\n\n")

	for _, r := range results {
		status := "MISSING"
		if r.Dependency.Required {
			status = "REQUIRED"
		}
		sb.WriteString(fmt.Sprintf("  • %s (%s)\n", r.Dependency.Name, status))
		sb.WriteString(fmt.Sprintf("    %s\n\n", r.Dependency.Description))
	}

	return sb.String()
}
