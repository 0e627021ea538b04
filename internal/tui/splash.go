package tui

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/blacktop/go-termimg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kartoza/kartoza-mini-recorder/internal/icon"
	"github.com/kartoza/kartoza-mini-recorder/internal/models"
	"github.com/nfnt/resize"
)

// logoPixels is the resolution the splash logo is rendered at before being
// scaled to the terminal
const logoPixels = 256

// SplashModel animates the logo growing on entry or shrinking on exit
type SplashModel struct {
	width          int
	height         int
	kittySupported bool
	logoImage      []byte // PNG bytes
	showDuration   time.Duration
	startTime      time.Time
	done           bool
	shrink         bool
	scale          float64 // 1.0 = full size
	lastImageID    int     // Kitty image id, bumped per frame
}

// splashTickMsg for animation updates
type splashTickMsg time.Time

// NewSplashModel creates an entry splash that grows the logo
func NewSplashModel(duration time.Duration) *SplashModel {
	return newSplash(duration, false)
}

// NewExitSplashModel creates an exit splash that shrinks the logo
func NewExitSplashModel(duration time.Duration) *SplashModel {
	return newSplash(duration, true)
}

func newSplash(duration time.Duration, shrink bool) *SplashModel {
	sm := &SplashModel{
		showDuration: duration,
		shrink:       shrink,
		lastImageID:  1000,
	}
	sm.scale = sm.scaleAt(0)

	if data, err := icon.PNG(models.StateRecording, logoPixels); err == nil {
		sm.logoImage = data
	}

	return sm
}

// detectKittySupport checks if the terminal supports the Kitty graphics
// protocol
func detectKittySupport() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	if strings.Contains(os.Getenv("TERM"), "kitty") {
		return true
	}
	if os.Getenv("TERM_PROGRAM") == "kitty" {
		return true
	}
	return termimg.DetectProtocol() == termimg.Kitty
}

// scaleAt maps animation progress (0 to 1) to a logo scale
func (sm *SplashModel) scaleAt(progress float64) float64 {
	eased := easeInOutCubic(progress)
	if sm.shrink {
		return 1.0 - eased*0.95 // 1.0 -> 0.05
	}
	return 0.05 + eased*0.95 // 0.05 -> 1.0
}

func splashTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return splashTickMsg(t)
	})
}

// Init initializes the splash screen
func (sm *SplashModel) Init() tea.Cmd {
	sm.startTime = time.Now()
	return splashTick(50 * time.Millisecond)
}

// Update handles messages for the splash screen
func (sm *SplashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		sm.width = msg.Width
		sm.height = msg.Height

	case tea.KeyMsg:
		// Any key skips the splash
		sm.done = true
		return sm, tea.Quit

	case splashTickMsg:
		progress := float64(time.Time(msg).Sub(sm.startTime)) / float64(sm.showDuration)
		if progress >= 1.0 {
			sm.done = true
			return sm, tea.Quit
		}
		sm.scale = sm.scaleAt(progress)

		// ~30fps
		return sm, splashTick(33 * time.Millisecond)
	}

	return sm, nil
}

// View renders the splash screen
func (sm *SplashModel) View() string {
	if sm.width == 0 || sm.height == 0 {
		return ""
	}

	if sm.kittySupported && len(sm.logoImage) > 0 {
		return sm.renderWithKitty()
	}
	return sm.renderTextSplash()
}

// renderWithKitty draws the logo centred on screen with the Kitty graphics
// protocol
func (sm *SplashModel) renderWithKitty() string {
	img, err := png.Decode(bytes.NewReader(sm.logoImage))
	if err != nil {
		return sm.renderTextSplash()
	}

	// About a third of the screen width at full scale
	baseWidthCells := sm.width / 3
	if baseWidthCells < 20 {
		baseWidthCells = 20
	}
	if baseWidthCells > 60 {
		baseWidthCells = 60
	}

	logoWidthCells := int(float64(baseWidthCells) * sm.scale)
	if logoWidthCells < 2 {
		logoWidthCells = 2
	}
	// Terminal cells are roughly twice as tall as wide
	logoHeightCells := logoWidthCells / 2
	if logoHeightCells < 1 {
		logoHeightCells = 1
	}

	pixels := uint(logoWidthCells * 8)
	if pixels < 8 {
		pixels = 8
	}
	resized := resize.Resize(pixels, pixels, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return sm.renderTextSplash()
	}

	ti, err := termimg.From(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return sm.renderTextSplash()
	}

	// A fresh image id per frame forces a redraw
	sm.lastImageID++

	ti.Protocol(termimg.Kitty).
		Width(logoWidthCells).
		Height(logoHeightCells).
		Scale(termimg.ScaleFit).
		ImageNum(sm.lastImageID)

	rendered, err := ti.Render()
	if err != nil {
		return sm.renderTextSplash()
	}

	col := (sm.width-logoWidthCells)/2 + 1
	row := (sm.height-logoHeightCells)/2 + 1

	var output strings.Builder
	// Delete previous frames
	output.WriteString("\033_Ga=d\033\\")
	output.WriteString(fmt.Sprintf("\033[%d;%dH%s", row, col, rendered))
	return output.String()
}

const asciiLogo = `██████╗ ███████╗ ██████╗
██╔══██╗██╔════╝██╔════╝
██████╔╝█████╗  ██║
██╔══██╗██╔══╝  ██║
██║  ██║███████╗╚██████╗
╚═╝  ╚═╝╚══════╝ ╚═════╝`

// renderTextSplash renders the ASCII logo centred on screen
func (sm *SplashModel) renderTextSplash() string {
	lines := strings.Split(asciiLogo, "\n")
	logoHeight := len(lines)
	logoWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > logoWidth {
			logoWidth = w
		}
	}

	styled := lipgloss.NewStyle().
		Foreground(ColorRed).
		Bold(true).
		Render(asciiLogo)

	col := (sm.width-logoWidth)/2 + 1
	top := (sm.height-logoHeight)/2 + 1
	if col < 1 {
		col = 1
	}

	var output strings.Builder
	for i, line := range strings.Split(styled, "\n") {
		row := top + i
		if row < 1 {
			row = 1
		}
		output.WriteString(fmt.Sprintf("\033[%d;%dH%s", row, col, line))
	}
	return output.String()
}

// IsDone returns whether the splash screen is complete
func (sm *SplashModel) IsDone() bool {
	return sm.done
}

// ShowSplashScreen runs a splash as a standalone program
func ShowSplashScreen(sm *SplashModel) error {
	sm.kittySupported = detectKittySupport()
	_, err := tea.NewProgram(sm, tea.WithAltScreen()).Run()
	return err
}

// easeInOutCubic provides smooth acceleration and deceleration
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - (-2*t+2)*(-2*t+2)*(-2*t+2)/2
}
