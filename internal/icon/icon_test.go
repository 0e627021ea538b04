package icon

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"image/png"
	"testing"

	"github.com/kartoza/kartoza-mini-recorder/internal/models"
)

func rgba(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func TestRender_CenterColor(t *testing.T) {
	tests := []struct {
		state models.RecordingState
		want  color.RGBA
	}{
		{models.StateIdle, ColorIdle},
		{models.StateRecording, ColorRecording},
		// the centre of the paused icon is the gap between the bars
		{models.StatePaused, ColorFace},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			img := Render(tt.state, 0)
			got := rgba(img.At(baseSize/2, baseSize/2))
			if got != tt.want {
				t.Errorf("expected centre %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRender_PausedBars(t *testing.T) {
	img := Render(models.StatePaused, 0)

	// Halfway across the right bar
	center := baseSize / 2
	ring := float64(center) - 4 - 16
	dot := ring * 0.55
	x := center + int(dot*0.2+dot*0.2)

	if got := rgba(img.At(x, center)); got != ColorPaused {
		t.Errorf("expected pause bar at x=%d, got %v", x, got)
	}
}

func TestRender_Corners(t *testing.T) {
	img := Render(models.StateRecording, 0)
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Error("expected transparent corner")
	}
}

func TestRender_Resized(t *testing.T) {
	for _, size := range []int{16, 22, 64} {
		img := Render(models.StateIdle, size)
		if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
			t.Errorf("expected %dx%d, got %v", size, size, b)
		}
	}
}

func TestPNG(t *testing.T) {
	data, err := PNG(models.StateRecording, 32)
	if err != nil {
		t.Fatalf("PNG failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	if img.Bounds().Dx() != 32 {
		t.Errorf("expected 32px icon, got %v", img.Bounds())
	}
}

func TestICO(t *testing.T) {
	data, err := ICO(models.StatePaused, 32)
	if err != nil {
		t.Fatalf("ICO failed: %v", err)
	}

	var header [3]uint16
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		t.Fatal(err)
	}
	if header != [3]uint16{0, 1, 1} {
		t.Errorf("unexpected ICO header %v", header)
	}
	if data[6] != 32 || data[7] != 32 {
		t.Errorf("unexpected dimensions %d x %d", data[6], data[7])
	}

	size := binary.LittleEndian.Uint32(data[14:18])
	offset := binary.LittleEndian.Uint32(data[18:22])
	if int(offset+size) != len(data) {
		t.Errorf("entry does not cover payload: offset %d size %d total %d", offset, size, len(data))
	}
	if _, err := png.Decode(bytes.NewReader(data[offset:])); err != nil {
		t.Errorf("payload is not PNG: %v", err)
	}
}
