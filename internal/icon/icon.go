// Package icon renders the recorder state icons used by the tray and the
// terminal splash screen.
package icon

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/kartoza/kartoza-mini-recorder/internal/models"
	"github.com/nfnt/resize"
)

// baseSize is the resolution icons are drawn at before being scaled down
const baseSize = 256

// Kartoza palette
var (
	ColorIdle      = color.RGBA{R: 0x9A, G: 0x9E, B: 0xA0, A: 0xFF}
	ColorRecording = color.RGBA{R: 0xE9, G: 0x54, B: 0x20, A: 0xFF}
	ColorPaused    = color.RGBA{R: 0xDD, G: 0xA0, B: 0x36, A: 0xFF}
	ColorRing      = color.RGBA{R: 0x56, G: 0x9F, B: 0xC6, A: 0xFF}
	ColorFace      = color.RGBA{R: 0x3A, G: 0x3A, B: 0x3A, A: 0xFF}
)

// StateColor returns the indicator color for a state
func StateColor(state models.RecordingState) color.RGBA {
	switch state {
	case models.StateRecording:
		return ColorRecording
	case models.StatePaused:
		return ColorPaused
	default:
		return ColorIdle
	}
}

// Render draws the icon for state at size x size pixels
func Render(state models.RecordingState, size int) image.Image {
	img := draw(state)
	if size <= 0 || size == baseSize {
		return img
	}
	return resize.Resize(uint(size), uint(size), img, resize.Lanczos3)
}

// draw renders a ringed face with a state dot, or pause bars while paused
func draw(state models.RecordingState) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, baseSize, baseSize))
	center := float64(baseSize) / 2
	outer := center - 4
	ring := outer - 16
	dot := ring * 0.55
	fill := StateColor(state)

	for y := 0; y < baseSize; y++ {
		for x := 0; x < baseSize; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			d := math.Hypot(dx, dy)

			switch {
			case d > outer:
				continue
			case d > ring:
				img.SetRGBA(x, y, ColorRing)
			case state == models.StatePaused && inPauseBar(dx, dy, dot):
				img.SetRGBA(x, y, fill)
			case state != models.StatePaused && d <= dot:
				img.SetRGBA(x, y, fill)
			default:
				img.SetRGBA(x, y, ColorFace)
			}
		}
	}
	return img
}

func inPauseBar(dx, dy, extent float64) bool {
	if math.Abs(dy) > extent {
		return false
	}
	barWidth := extent * 0.4
	gap := extent * 0.2
	ax := math.Abs(dx)
	return ax >= gap && ax <= gap+barWidth
}

// PNG encodes the icon for state as PNG
func PNG(state models.RecordingState, size int) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Render(state, size)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ICO encodes the icon as a single image ICO file with PNG payload, the
// format Windows tray icons require
func ICO(state models.RecordingState, size int) ([]byte, error) {
	if size <= 0 || size > 256 {
		size = 256
	}
	data, err := PNG(state, size)
	if err != nil {
		return nil, err
	}

	dim := byte(size)
	if size == 256 {
		dim = 0
	}

	var buf bytes.Buffer
	// ICONDIR
	_ = binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})
	// ICONDIRENTRY
	buf.Write([]byte{dim, dim, 0, 0})
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(32))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(6+16))
	buf.Write(data)

	return buf.Bytes(), nil
}
