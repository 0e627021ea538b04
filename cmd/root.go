package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kartoza/kartoza-mini-recorder/internal/app"
	"github.com/kartoza/kartoza-mini-recorder/internal/config"
	"github.com/kartoza/kartoza-mini-recorder/internal/deps"
	"github.com/kartoza/kartoza-mini-recorder/internal/logging"
	"github.com/kartoza/kartoza-mini-recorder/internal/tui"
	"github.com/spf13/cobra"
)

var (
	version    = "dev"
	debugMode  bool
	configPath string
	noSplash   bool
	outputDir  string
	sourceName string
)

// SetVersion sets the application version (called from main)
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "kartoza-mini-recorder",
	Short: "Minimal desktop screen recorder",
	Long: `Kartoza Mini Recorder records the screen to a WebM file.

It supports:
  - Start, pause, resume and stop from a terminal UI or the system tray
  - Global shortcuts through the relay commands (bind F1 to
    'kartoza-mini-recorder toggle' and F2 to 'kartoza-mini-recorder stop')
  - A running HH:MM:SS timer that excludes paused time
  - Saving through a save prompt, a native dialog or straight to the
    output directory

Run without a subcommand to open the terminal UI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(app.ModeTUI)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Write a debug log to the config directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.config/kartoza-mini-recorder/config.json)")
	rootCmd.PersistentFlags().BoolVar(&noSplash, "nosplash", false, "Skip splash screens on startup and exit")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: ~/Videos/Screencasts)")
	rootCmd.PersistentFlags().StringVarP(&sourceName, "source", "m", "", "Screen to record (default: primary screen)")

	// Add subcommands
	rootCmd.AddCommand(trayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies command line overrides
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if sourceName != "" {
		cfg.Source = sourceName
	}
	return cfg, nil
}

// newLogger returns the debug log when --debug is set
func newLogger() (*logging.Logger, error) {
	if !debugMode {
		return logging.Discard(), nil
	}
	return logging.New(config.GetConfigDir(), logging.LevelDebug)
}

func runApp(mode app.Mode) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if missing := missingDeps(cfg); len(missing) > 0 {
		return fmt.Errorf("%sRun 'kartoza-mini-recorder deps' for details", deps.FormatMissing(missing))
	}
	if err := config.EnsureDirectories(cfg); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Close()
	logger.Info("starting", "version", version, "mode", mode.String(), "output_dir", cfg.OutputDir)

	a, err := app.New(cfg, mode, logger.Logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = a.Run(ctx, tui.Options{NoSplash: noSplash})
	if err != nil {
		logger.Error("exited with error", slog.Any("error", err))
	}
	return err
}

// missingDeps skips the ffmpeg lookup when the config names its own binary
func missingDeps(cfg *config.Config) []deps.CheckResult {
	var missing []deps.CheckResult
	for _, r := range deps.MissingRequired() {
		if r.Dependency.Name == "ffmpeg" && cfg.FFmpegPath != "ffmpeg" {
			continue
		}
		missing = append(missing, r)
	}
	return missing
}
