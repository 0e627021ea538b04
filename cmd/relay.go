package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kartoza/kartoza-mini-recorder/internal/control"
	"github.com/kartoza/kartoza-mini-recorder/internal/models"
	"github.com/kartoza/kartoza-mini-recorder/internal/session"
	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle recording in the running recorder",
	Long: `Toggle recording in the running recorder: start when idle, pause while
recording, resume while paused.

Bind this to F1 in your window manager or compositor.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return relay(session.CommandToggle)
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start recording in the running recorder",
	RunE: func(cmd *cobra.Command, args []string) error {
		return relay(session.CommandStart)
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the current recording",
	Long: `Pause the current recording. Paused time is not counted and nothing is
captured until 'kartoza-mini-recorder resume'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return relay(session.CommandPause)
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused recording",
	RunE: func(cmd *cobra.Command, args []string) error {
		return relay(session.CommandResume)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop and save the current recording",
	Long: `Stop the current recording and save it. Depending on how the recorder
runs, this asks for a destination in the terminal UI or a save dialog.

Bind this to F2 in your window manager or compositor.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return relay(session.CommandStop)
	},
}

// relay sends cmd to the running recorder and prints the resulting state.
// Stop can block on the save prompt, so there is no deadline.
func relay(cmd session.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resp, err := control.Send(ctx, cfg.SocketPath, cmd.String())
	if errors.Is(err, control.ErrNotRunning) {
		return fmt.Errorf("%w; start it with 'kartoza-mini-recorder' or 'kartoza-mini-recorder tray'", err)
	}
	if err != nil {
		return err
	}

	if resp.Status != nil {
		fmt.Println(describeStatus(*resp.Status, time.Now()))
	}
	return nil
}

// describeStatus renders a one-line summary of status
func describeStatus(status models.RecordingStatus, now time.Time) string {
	elapsed := session.FormatElapsed(session.Elapsed(status, now))

	switch status.State {
	case models.StateRecording:
		return fmt.Sprintf("Recording: ACTIVE  %s  (%s)", elapsed, status.Source)
	case models.StatePaused:
		return fmt.Sprintf("Recording: PAUSED  %s  (%s)", elapsed, status.Source)
	case models.StateStopped:
		return "Recording: SAVING"
	default:
		if status.LastSaved != "" {
			return fmt.Sprintf("Recording: INACTIVE  last saved %s", status.LastSaved)
		}
		return "Recording: INACTIVE"
	}
}
