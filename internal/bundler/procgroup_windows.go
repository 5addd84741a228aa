//go:build windows

package bundler

import (
	"os/exec"
	"syscall"
)

// setProcessGroup creates the bundler in a new process group
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

// killProcessGroup kills the bundler process; child build helpers exit
// with it when the job terminates
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process != nil {
		cmd.Process.Kill()
	}
}
