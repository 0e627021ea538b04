package recorder

import (
	"fmt"
	"strconv"

	"github.com/kartoza/kartoza-mini-recorder/internal/deps"
	"github.com/kartoza/kartoza-mini-recorder/internal/models"
)

// BuildArgs returns the ffmpeg arguments that capture source on the given OS
// and write a video-only VP8 WebM stream to stdout
func BuildArgs(target deps.OS, source models.CaptureSource, opts Options) []string {
	fps := strconv.Itoa(opts.FrameRate)

	args := []string{"-hide_banner", "-loglevel", "error", "-nostats"}

	switch target {
	case deps.OSDarwin:
		args = append(args,
			"-f", "avfoundation",
			"-framerate", fps,
			"-capture_cursor", "1",
			"-i", source.ID+":none",
		)
	case deps.OSWindows:
		args = append(args, "-f", "gdigrab", "-framerate", fps)
		if geometry := source.Geometry(); geometry != "" {
			args = append(args,
				"-offset_x", strconv.Itoa(source.X),
				"-offset_y", strconv.Itoa(source.Y),
				"-video_size", geometry,
			)
		}
		args = append(args, "-i", "desktop")
	default:
		display := opts.Display
		if display == "" {
			display = ":0"
		}
		args = append(args, "-f", "x11grab", "-framerate", fps, "-draw_mouse", "1")
		if geometry := source.Geometry(); geometry != "" {
			args = append(args, "-video_size", geometry)
		}
		args = append(args, "-i", fmt.Sprintf("%s+%d,%d", display, source.X, source.Y))
	}

	bitrate := strconv.Itoa(opts.VideoBitrate)
	args = append(args,
		"-an",
		"-vf", videoFilter(opts),
		"-c:v", "libvpx",
		"-b:v", bitrate,
		"-maxrate", bitrate,
		"-bufsize", strconv.Itoa(opts.VideoBitrate*2),
		"-deadline", "realtime",
		"-cpu-used", "8",
		"-pix_fmt", "yuv420p",
		"-f", "webm",
		"pipe:1",
	)

	return args
}

// videoFilter renumbers timestamps from the frame count so time spent
// suspended leaves no gap, then caps the frame size
func videoFilter(opts Options) string {
	filter := "setpts=N/FRAME_RATE/TB"
	if opts.MaxWidth > 0 && opts.MaxHeight > 0 {
		filter += fmt.Sprintf(
			",scale=w='min(iw,%d)':h='min(ih,%d)':force_original_aspect_ratio=decrease:force_divisible_by=2",
			opts.MaxWidth, opts.MaxHeight,
		)
	}
	return filter
}
