package notify

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Urgency levels for notifications
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyNormal   Urgency = "normal"
	UrgencyCritical Urgency = "critical"
)

// Send sends a desktop notification. notify-send is used on Linux and
// osascript on macOS.
func Send(title, body string, urgency Urgency, icon string) error {
	name, args := command(runtime.GOOS, title, body, urgency, icon)
	if name == "" {
		return fmt.Errorf("desktop notifications are not supported on %s", runtime.GOOS)
	}
	return exec.Command(name, args...).Run()
}

func command(goos, title, body string, urgency Urgency, icon string) (string, []string) {
	switch goos {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", body, title)
		return "osascript", []string{"-e", script}
	case "linux", "freebsd", "openbsd", "netbsd":
		args := []string{title, body}
		if urgency != "" {
			args = append(args, "--urgency="+string(urgency))
		}
		if icon != "" {
			args = append(args, "--icon="+icon)
		}
		args = append(args, "--app-name=Kartoza Mini Recorder")
		return "notify-send", args
	}
	return "", nil
}

// Info sends an informational notification
func Info(title, body string) error {
	return Send(title, body, UrgencyNormal, "media-record")
}

// Warning sends a warning notification
func Warning(title, body string) error {
	return Send(title, body, UrgencyLow, "dialog-warning")
}

// Error sends an error notification
func Error(title, body string) error {
	return Send(title, body, UrgencyCritical, "dialog-error")
}

// Desktop delivers recorder notifications through the desktop notification
// service. A zero Desktop is ready to use.
type Desktop struct {
	// Quiet suppresses informational notifications. Errors are always sent.
	Quiet bool
}

func (d Desktop) Info(title, body string) error {
	if d.Quiet {
		return nil
	}
	return Info(title, body)
}

func (d Desktop) Error(title, body string) error {
	return Error(title, body)
}

// Func adapts a function to the notifier interface, used by control
// surfaces that render messages themselves
type Func func(title, body string, isError bool)

func (f Func) Info(title, body string) error {
	f(title, body, false)
	return nil
}

func (f Func) Error(title, body string) error {
	f(title, body, true)
	return nil
}

// Multi fans notifications out to several notifiers. The first error is
// returned.
type Multi []interface {
	Info(title, body string) error
	Error(title, body string) error
}

func (m Multi) Info(title, body string) error {
	var first error
	for _, n := range m {
		if err := n.Info(title, body); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) Error(title, body string) error {
	var first error
	for _, n := range m {
		if err := n.Error(title, body); err != nil && first == nil {
			first = err
		}
	}
	return first
}
