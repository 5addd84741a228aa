//go:build unix

package pidfile

import (
	"fmt"
	"os"
	"syscall"
)

// lockFile takes an exclusive flock on the build tracking file so
// concurrent packager invocations serialize their updates
func lockFile(file *os.File) error {
	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("failed to lock build tracking file: %w", err)
	}
	return nil
}

// unlockFile releases the flock on the build tracking file
func unlockFile(file *os.File) error {
	return syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
}
