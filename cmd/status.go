package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kartoza/kartoza-mini-recorder/internal/control"
	"github.com/kartoza/kartoza-mini-recorder/internal/models"
	"github.com/kartoza/kartoza-mini-recorder/internal/session"
	"github.com/kartoza/kartoza-mini-recorder/internal/tui"
	"github.com/spf13/cobra"
)

var jsonOutput bool

// statusReport is the JSON form of the status command
type statusReport struct {
	Running bool `json:"running"`
	*models.RecordingStatus
	Elapsed string `json:"elapsed,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recording status",
	Long:  `Display the state of the running recorder including the elapsed time, screen and captured size.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		report := statusReport{}
		resp, err := control.Send(ctx, cfg.SocketPath, control.StatusRequest)
		switch {
		case errors.Is(err, control.ErrNotRunning):
		case err != nil:
			return err
		default:
			report.Running = true
			report.RecordingStatus = resp.Status
		}

		now := time.Now()
		if report.RecordingStatus != nil && report.State.IsActive() {
			report.Elapsed = session.FormatElapsed(session.Elapsed(*report.RecordingStatus, now))
		}

		if jsonOutput {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if !report.Running || report.RecordingStatus == nil {
			fmt.Println("Recorder:  NOT RUNNING")
			return nil
		}

		status := *report.RecordingStatus
		fmt.Println(describeStatus(status, now))
		if status.State.IsActive() {
			fmt.Printf("Duration:  %s\n", report.Elapsed)
			fmt.Printf("Screen:    %s\n", status.Source)
			fmt.Printf("Captured:  %d chunks, %s\n", status.Chunks, tui.FormatBytes(status.Bytes))
		}
		if status.LastError != "" {
			fmt.Printf("Error:     %s\n", status.LastError)
		}

		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output status as JSON")
}
