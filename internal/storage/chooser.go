package storage

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kartoza/kartoza-mini-recorder/internal/deps"
)

// AutoChooser always accepts the suggested path
type AutoChooser struct{}

func (AutoChooser) Choose(_ context.Context, suggested string) (string, error) {
	return suggested, nil
}

// DialogChooser shows a native save dialog. zenity and kdialog are used on
// Linux, osascript on macOS. Without any of them it behaves like AutoChooser.
type DialogChooser struct {
	target deps.OS
	// lookPath and run are replaced in tests
	lookPath func(string) bool
	run      func(ctx context.Context, name string, args ...string) (string, error)
}

// NewDialogChooser creates a dialog chooser for the current OS
func NewDialogChooser() *DialogChooser {
	return &DialogChooser{
		target:   deps.DetectOS(),
		lookPath: deps.Available,
		run:      runDialog,
	}
}

// errDialogCancelled is returned by run when the tool exits with status 1,
// which all supported tools use for a dismissed dialog
var errDialogCancelled = errors.New("dialog cancelled")

func (c *DialogChooser) Choose(ctx context.Context, suggested string) (string, error) {
	name, args := c.command(suggested)
	if name == "" {
		return suggested, nil
	}

	out, err := c.run(ctx, name, args...)
	if errors.Is(err, errDialogCancelled) {
		return "", ErrUserCancelled
	}
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", name, err)
	}

	path := strings.TrimSpace(out)
	if path == "" {
		return "", ErrUserCancelled
	}
	return path, nil
}

// command returns the dialog tool and its arguments, or an empty name when
// no tool is installed
func (c *DialogChooser) command(suggested string) (string, []string) {
	switch c.target {
	case deps.OSDarwin:
		if !c.lookPath("osascript") {
			return "", nil
		}
		script := fmt.Sprintf(
			`POSIX path of (choose file name with prompt "Save screen recording" default name %q default location (POSIX file %q))`,
			filepath.Base(suggested), filepath.Dir(suggested),
		)
		return "osascript", []string{"-e", script}
	case deps.OSLinux:
		if c.lookPath("zenity") {
			return "zenity", []string{
				"--file-selection", "--save", "--confirm-overwrite",
				"--title=Save screen recording",
				"--filename=" + suggested,
				"--file-filter=WebM video | *.webm",
			}
		}
		if c.lookPath("kdialog") {
			return "kdialog", []string{
				"--title", "Save screen recording",
				"--getsavefilename", suggested, "*.webm",
			}
		}
	}
	return "", nil
}

func runDialog(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return "", errDialogCancelled
	}
	return string(out), err
}
