//go:build windows

package recorder

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/windows"
)

var (
	ntdll            = windows.NewLazySystemDLL("ntdll.dll")
	ntSuspendProcess = ntdll.NewProc("NtSuspendProcess")
	ntResumeProcess  = ntdll.NewProc("NtResumeProcess")
)

// setSysProcAttr is a no-op on Windows
func setSysProcAttr(cmd *exec.Cmd) {}

func suspendProcess(p *os.Process) error {
	return callProcessProc(ntSuspendProcess, p)
}

func resumeProcess(p *os.Process) error {
	return callProcessProc(ntResumeProcess, p)
}

// interruptProcess kills the process; Windows has no SIGINT for children
func interruptProcess(p *os.Process) error {
	return p.Kill()
}

func callProcessProc(proc *windows.LazyProc, p *os.Process) error {
	h, err := windows.OpenProcess(windows.PROCESS_SUSPEND_RESUME, false, uint32(p.Pid))
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)

	if err := proc.Find(); err != nil {
		return err
	}
	status, _, _ := proc.Call(uintptr(h))
	if status != 0 {
		return fmt.Errorf("%s failed with NTSTATUS 0x%x", proc.Name, status)
	}
	return nil
}
