package monitor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/kartoza/kartoza-mini-recorder/internal/deps"
	"github.com/kartoza/kartoza-mini-recorder/internal/models"
)

// ErrNoSourceAvailable is returned when no screen can be captured, usually
// because the display server or the OS screen recording permission refused
// the enumeration.
var ErrNoSourceAvailable = errors.New("no capture source available")

// Provider lists the screens that can be recorded
type Provider interface {
	ListSources(ctx context.Context) ([]models.CaptureSource, error)
}

// SystemProvider enumerates screens with the tools of the host OS
type SystemProvider struct {
	// FFmpegPath is used on macOS where AVFoundation devices are listed by ffmpeg
	FFmpegPath string
}

// NewSystemProvider creates a provider for the current OS
func NewSystemProvider(ffmpegPath string) *SystemProvider {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &SystemProvider{FFmpegPath: ffmpegPath}
}

// ListSources returns the available screens for the current OS
func (p *SystemProvider) ListSources(ctx context.Context) ([]models.CaptureSource, error) {
	switch deps.DetectOS() {
	case deps.OSLinux:
		return p.listX11(ctx)
	case deps.OSDarwin:
		return p.listAVFoundation(ctx)
	case deps.OSWindows:
		// gdigrab captures the whole virtual desktop
		return []models.CaptureSource{{ID: "desktop", Name: "Desktop", Primary: true}}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported OS %s", ErrNoSourceAvailable, runtime.GOOS)
	}
}

func (p *SystemProvider) listX11(ctx context.Context) ([]models.CaptureSource, error) {
	if deps.DetectDisplayServer() != deps.DisplayServerX11 {
		return nil, fmt.Errorf("%w: screen capture needs an X11 session (DISPLAY is not set)", ErrNoSourceAvailable)
	}

	output, err := exec.CommandContext(ctx, "xrandr", "--listmonitors").Output()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to run xrandr: %v", ErrNoSourceAvailable, err)
	}

	sources := ParseXrandrMonitors(string(output))
	if len(sources) == 0 {
		return nil, ErrNoSourceAvailable
	}
	return sources, nil
}

func (p *SystemProvider) listAVFoundation(ctx context.Context) ([]models.CaptureSource, error) {
	// ffmpeg always exits non-zero for -list_devices, the listing is on stderr
	cmd := exec.CommandContext(ctx, p.FFmpegPath, "-hide_banner", "-f", "avfoundation", "-list_devices", "true", "-i", "")
	output, _ := cmd.CombinedOutput()

	sources := ParseAVFoundationScreens(string(output))
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no screens listed by AVFoundation (check Screen Recording permission)", ErrNoSourceAvailable)
	}
	return sources, nil
}

// xrandr --listmonitors line, e.g.
//
//	0: +*eDP-1 1920/344x1080/193+0+0  eDP-1
var xrandrMonitorRe = regexp.MustCompile(`^\s*(\d+):\s+\+?(\*?)(\S+)\s+(\d+)/\d+x(\d+)/\d+\+(\d+)\+(\d+)`)

// ParseXrandrMonitors parses the output of `xrandr --listmonitors`
func ParseXrandrMonitors(output string) []models.CaptureSource {
	var sources []models.CaptureSource

	for _, line := range strings.Split(output, "\n") {
		m := xrandrMonitorRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		width, _ := strconv.Atoi(m[4])
		height, _ := strconv.Atoi(m[5])
		x, _ := strconv.Atoi(m[6])
		y, _ := strconv.Atoi(m[7])

		sources = append(sources, models.CaptureSource{
			ID:      fmt.Sprintf("%d,%d", x, y),
			Name:    m[3],
			Width:   width,
			Height:  height,
			X:       x,
			Y:       y,
			Primary: m[2] == "*",
		})
	}

	return sources
}

// AVFoundation device line, e.g.
//
//	[AVFoundation indev @ 0x7f8] [3] Capture screen 0
var avfScreenRe = regexp.MustCompile(`\[(\d+)\]\s+Capture screen (\d+)`)

// ParseAVFoundationScreens parses `ffmpeg -f avfoundation -list_devices true`
func ParseAVFoundationScreens(output string) []models.CaptureSource {
	var sources []models.CaptureSource

	for _, line := range strings.Split(output, "\n") {
		m := avfScreenRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		sources = append(sources, models.CaptureSource{
			ID:      m[1],
			Name:    "Screen " + m[2],
			Primary: m[2] == "0",
		})
	}

	return sources
}

