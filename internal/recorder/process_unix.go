//go:build !windows

package recorder

import (
	"os"
	"os/exec"
	"syscall"
)

// setSysProcAttr puts ffmpeg in its own process group so a Ctrl+C in the
// terminal does not reach it before the recording is saved
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func suspendProcess(p *os.Process) error {
	return p.Signal(syscall.SIGSTOP)
}

func resumeProcess(p *os.Process) error {
	return p.Signal(syscall.SIGCONT)
}

// interruptProcess sends SIGINT for a graceful shutdown, then SIGTERM
func interruptProcess(p *os.Process) error {
	if err := p.Signal(syscall.SIGINT); err != nil {
		return p.Signal(syscall.SIGTERM)
	}
	return nil
}
