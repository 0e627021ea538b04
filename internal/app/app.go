package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kartoza/kartoza-mini-recorder/internal/beep"
	"github.com/kartoza/kartoza-mini-recorder/internal/config"
	"github.com/kartoza/kartoza-mini-recorder/internal/control"
	"github.com/kartoza/kartoza-mini-recorder/internal/monitor"
	"github.com/kartoza/kartoza-mini-recorder/internal/notify"
	"github.com/kartoza/kartoza-mini-recorder/internal/recorder"
	"github.com/kartoza/kartoza-mini-recorder/internal/session"
	"github.com/kartoza/kartoza-mini-recorder/internal/storage"
	"github.com/kartoza/kartoza-mini-recorder/internal/systray"
	"github.com/kartoza/kartoza-mini-recorder/internal/tui"
)

// Mode selects the in-process control surface
type Mode int

const (
	ModeTUI Mode = iota
	ModeTray
	ModeHeadless
)

func (m Mode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeTray:
		return "tray"
	case ModeHeadless:
		return "headless"
	default:
		return "unknown"
	}
}

// App wires the recorder together for one control surface
type App struct {
	Config  *config.Config
	Mode    Mode
	Manager *session.Manager
	Server  *control.Server
	// Bridge is set in ModeTUI only
	Bridge *tui.Bridge

	logger *slog.Logger
}

// New builds the session manager and the shortcut relay for mode. Nothing
// runs until Run is called.
func New(cfg *config.Config, mode Mode, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{Config: cfg, Mode: mode, logger: logger}

	provider := monitor.NewSystemProvider(cfg.FFmpegPath)
	pipeline := recorder.NewFFmpegPipeline(recorder.Options{
		FFmpegPath:   cfg.FFmpegPath,
		VideoBitrate: cfg.VideoBitrate,
		FrameRate:    cfg.FrameRate,
		MaxWidth:     cfg.MaxWidth,
		MaxHeight:    cfg.MaxHeight,
	})

	var chooser storage.Chooser
	var notifier session.Notifier
	switch mode {
	case ModeTUI:
		a.Bridge = tui.NewBridge()
		chooser = a.Bridge
		// The TUI shows infos itself; only failures reach the desktop
		notifier = notify.Multi{notify.Desktop{Quiet: true}, a.Bridge}
	case ModeTray:
		if cfg.SaveDialog {
			chooser = storage.NewDialogChooser()
		}
		notifier = notify.Desktop{}
	default:
		notifier = notify.Desktop{}
	}

	a.Manager = session.NewManager(provider, pipeline, storage.NewSink(chooser, &storage.FileWriter{}), notifier, session.Options{
		Interval:   cfg.Interval(),
		SourceName: cfg.Source,
		OutputDir:  cfg.OutputDir,
		Logger:     logger.With("component", "session"),
	})
	a.Server = control.NewServer(cfg.SocketPath, a.Manager, logger.With("component", "control"))

	return a, nil
}

// Run starts the session loop and the shortcut relay, then blocks on the
// control surface until the user quits or ctx is cancelled. ModeTray must
// be run from the main goroutine.
func (a *App) Run(ctx context.Context, opts tui.Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	managerDone := make(chan error, 1)
	go func() { managerDone <- a.Manager.Run(ctx) }()

	serverDone := make(chan error, 1)
	go func() { serverDone <- a.Server.Serve(ctx) }()

	// A second instance fails here, before any surface is shown
	select {
	case <-a.Server.Ready():
	case err := <-serverDone:
		cancel()
		<-managerDone
		return err
	case <-ctx.Done():
		<-managerDone
		return nil
	}

	if a.Config.Sounds {
		go a.followSounds(ctx)
	}

	a.logger.Info("recorder ready", "mode", a.Mode.String(), "socket", a.Config.SocketPath)

	var err error
	switch a.Mode {
	case ModeTUI:
		opts.Bridge = a.Bridge
		err = tui.Run(ctx, a.Manager, opts)
	case ModeTray:
		err = systray.Run(ctx, a.Manager, a.logger.With("component", "systray"))
	default:
		<-ctx.Done()
	}

	cancel()
	if serr := <-serverDone; serr != nil && !errors.Is(serr, context.Canceled) {
		a.logger.Warn("shortcut relay stopped with error", "error", serr)
	}
	if merr := <-managerDone; err == nil {
		err = merr
	}
	return err
}

// followSounds plays a cue on every state transition
func (a *App) followSounds(ctx context.Context) {
	updates, unsubscribe := a.Manager.Subscribe()
	defer unsubscribe()

	prev := a.Manager.Status().State
	for {
		select {
		case <-ctx.Done():
			return
		case status, ok := <-updates:
			if !ok {
				return
			}
			if cue, ok := beep.CueFor(prev, status.State); ok {
				go beep.Play(cue)
			}
			prev = status.State
		}
	}
}

