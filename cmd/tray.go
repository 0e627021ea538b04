package cmd

import (
	"github.com/kartoza/kartoza-mini-recorder/internal/app"
	"github.com/spf13/cobra"
)

var trayCmd = &cobra.Command{
	Use:     "tray",
	Aliases: []string{"systray"},
	Short:   "Run as a system tray application",
	Long: `Run Kartoza Mini Recorder as a system tray application.

The tray icon shows the recorder state:
  - Left-click: Toggle recording (start, pause, resume)
  - Menu: Start/Pause, Stop and Save, elapsed time, Quit

Recordings are saved through a native save dialog when one is available
(config "save_dialog"), otherwise straight to the output directory.
The relay commands (toggle, stop, ...) work while the tray is running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(app.ModeTray)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the recorder without a user interface",
	Long: `Run the recorder in the background with no user interface.

Control it with the relay commands, for example from compositor key
bindings. Recordings are saved to the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(app.ModeHeadless)
	},
}
