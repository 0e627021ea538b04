package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Splash durations, both skippable with any key
const (
	entrySplash = 2 * time.Second
	exitSplash  = time.Second
)

// Options for Run
type Options struct {
	NoSplash bool
	// Bridge, when set, is attached to the program for save prompts and
	// notifications
	Bridge *Bridge
}

// Run shows the recorder screen until the user quits or ctx is cancelled
func Run(ctx context.Context, ctrl Controller, opts Options) error {
	if !opts.NoSplash {
		// Splash failures never block the recorder
		_ = ShowSplashScreen(NewSplashModel(entrySplash))
	}

	updates, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()

	p := tea.NewProgram(NewModel(ctx, ctrl, updates), tea.WithAltScreen(), tea.WithContext(ctx))

	if opts.Bridge != nil {
		opts.Bridge.Attach(p.Send)
		defer opts.Bridge.Attach(nil)
	}

	_, err := p.Run()
	if ctx.Err() != nil {
		err = nil
	}

	if !opts.NoSplash {
		_ = ShowSplashScreen(NewExitSplashModel(exitSplash))
	}

	return err
}
