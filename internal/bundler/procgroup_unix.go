//go:build unix

package bundler

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts the bundler in its own process group
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup kills the bundler and everything it spawned
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process != nil {
		// Negative PID addresses the whole group
		syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
