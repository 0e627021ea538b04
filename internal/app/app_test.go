package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kartoza/kartoza-mini-recorder/internal/config"
	"github.com/kartoza/kartoza-mini-recorder/internal/control"
	"github.com/kartoza/kartoza-mini-recorder/internal/models"
	"github.com/kartoza/kartoza-mini-recorder/internal/tui"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir, err := os.MkdirTemp("", "kmr")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	cfg := config.DefaultConfig()
	cfg.OutputDir = filepath.Join(dir, "videos")
	cfg.SocketPath = filepath.Join(dir, "app.sock")
	return &cfg
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeTUI, "tui"},
		{ModeTray, "tray"},
		{ModeHeadless, "headless"},
		{Mode(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.mode.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		mode       Mode
		wantBridge bool
	}{
		{"tui has a bridge", ModeTUI, true},
		{"tray has no bridge", ModeTray, false},
		{"headless has no bridge", ModeHeadless, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(testConfig(t), tt.mode, nil)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if (a.Bridge != nil) != tt.wantBridge {
				t.Errorf("Bridge set = %v, want %v", a.Bridge != nil, tt.wantBridge)
			}
			if a.Manager == nil || a.Server == nil {
				t.Error("expected manager and server to be built")
			}
			if got := a.Manager.Status().State; got != models.StateIdle {
				t.Errorf("initial state = %q, want idle", got)
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.FrameRate = 0

	if _, err := New(cfg, ModeHeadless, nil); err == nil {
		t.Fatal("expected an error for a zero frame rate")
	}
}

func TestRunHeadlessServesStatus(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(cfg, ModeHeadless, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, tui.Options{}) }()

	select {
	case <-a.Server.Ready():
	case err := <-done:
		t.Fatalf("Run() returned early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("relay never became ready")
	}

	resp, err := control.Send(context.Background(), cfg.SocketPath, control.StatusRequest)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if resp.Status == nil || resp.Status.State != models.StateIdle {
		t.Errorf("status = %+v, want idle", resp.Status)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if _, err := os.Stat(cfg.SocketPath); !os.IsNotExist(err) {
		t.Errorf("socket still present after exit: %v", err)
	}
}

func TestRunSecondInstance(t *testing.T) {
	cfg := testConfig(t)
	first, err := New(cfg, ModeHeadless, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- first.Run(ctx, tui.Options{}) }()
	<-first.Server.Ready()

	second, err := New(cfg, ModeHeadless, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = second.Run(context.Background(), tui.Options{})
	if !errors.Is(err, control.ErrAlreadyRunning) {
		t.Errorf("second Run() error = %v, want ErrAlreadyRunning", err)
	}

	cancel()
	<-done
}
