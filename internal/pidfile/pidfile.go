// Package pidfile tracks running packager builds in a shared, locked
// JSON file so stale or runaway bundler invocations can be listed and
// terminated.
package pidfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// processName is matched against a candidate PID's process name before
// it is treated as a packager build. Tests point it at the test binary.
var processName = "pyminflux-packager"

// PIDFile represents the JSON structure of the PID tracking file
type PIDFile struct {
	PIDs []int32 `json:"pids"`
}

var mu sync.Mutex

// trackingFilePath returns the shared tracking file location
func trackingFilePath() string {
	return filepath.Join(os.TempDir(), ".pyminflux-packager-builds")
}

// withLockedPIDFile handles file opening, locking, reading, verification, and cleanup
func withLockedPIDFile(flags int, fn func(*os.File, []int32) error) error {
	path := trackingFilePath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open PID file: %w", err)
	}
	defer file.Close()

	if err := lockFile(file); err != nil {
		return err
	}
	defer unlockFile(file)

	// Read current PIDs
	var pids []int32
	stat, err := file.Stat()
	if err != nil {
		return err
	}

	if stat.Size() > 0 {
		var pidFile PIDFile
		if err := json.NewDecoder(file).Decode(&pidFile); err == nil {
			pids = pidFile.PIDs
		}
	}

	// Verify PIDs (auto-corrects file if needed)
	validPIDs, err := verifyPIDs(file, pids)
	if err != nil {
		return err
	}

	return fn(file, validPIDs)
}

// isPackagerProcess checks if a process is actually a packager build
func isPackagerProcess(pid int32) bool {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return false
	}

	running, err := proc.IsRunning()
	if err != nil || !running {
		return false
	}

	name, err := proc.Name()
	if err != nil {
		return false
	}

	return strings.Contains(name, processName)
}

// writePIDFile writes PIDs to the file
func writePIDFile(file *os.File, pids []int32) error {
	pidFile := PIDFile{PIDs: pids}

	if err := file.Truncate(0); err != nil {
		return err
	}
	if _, err := file.Seek(0, 0); err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(&pidFile)
}

// verifyPIDs filters to only valid running processes and rewrites file if changed
func verifyPIDs(file *os.File, pids []int32) ([]int32, error) {
	valid := []int32{}
	for _, pid := range pids {
		if isPackagerProcess(pid) {
			valid = append(valid, pid)
		}
	}

	if len(valid) != len(pids) {
		if err := writePIDFile(file, valid); err != nil {
			return nil, err
		}
		if _, err := file.Seek(0, 0); err != nil {
			return nil, err
		}
	}

	return valid, nil
}

// Register adds the current process PID to the tracking file
func Register() error {
	mu.Lock()
	defer mu.Unlock()

	currentPID := int32(os.Getpid())

	return withLockedPIDFile(os.O_RDWR|os.O_CREATE, func(file *os.File, pids []int32) error {
		for _, pid := range pids {
			if pid == currentPID {
				return nil
			}
		}

		pids = append(pids, currentPID)
		return writePIDFile(file, pids)
	})
}

// Unregister removes the current process PID from the tracking file
func Unregister() error {
	mu.Lock()
	defer mu.Unlock()

	currentPID := int32(os.Getpid())

	return withLockedPIDFile(os.O_RDWR|os.O_CREATE, func(file *os.File, pids []int32) error {
		filtered := []int32{}
		for _, pid := range pids {
			if pid != currentPID {
				filtered = append(filtered, pid)
			}
		}
		return writePIDFile(file, filtered)
	})
}

// List returns all verified running packager build PIDs
func List() ([]int32, error) {
	mu.Lock()
	defer mu.Unlock()

	var result []int32
	err := withLockedPIDFile(os.O_RDWR|os.O_CREATE, func(file *os.File, pids []int32) error {
		result = pids
		return nil
	})

	return result, err
}

// Kill terminates a specific PID if it's a valid packager build.
// Graceful shutdown: SIGTERM first, wait 5s, then SIGKILL if needed.
func Kill(pid int32) error {
	mu.Lock()
	defer mu.Unlock()

	if !isPackagerProcess(pid) {
		return fmt.Errorf("PID %d is not a running packager build", pid)
	}

	proc, err := process.NewProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to get process: %w", err)
	}

	if err := proc.Terminate(); err != nil {
		// If terminate fails, try SIGKILL immediately
		if err := proc.Kill(); err != nil {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	} else {
		// Wait up to 5 seconds for the process to exit
		for i := 0; i < 50; i++ {
			running, err := proc.IsRunning()
			if err != nil || !running {
				break
			}
			time.Sleep(100 * time.Millisecond)
		}

		running, err := proc.IsRunning()
		if err == nil && running {
			if err := proc.Kill(); err != nil {
				return fmt.Errorf("failed to force kill process: %w", err)
			}
		}
	}

	// Remove from tracking file (best-effort)
	withLockedPIDFile(os.O_RDWR|os.O_CREATE, func(file *os.File, pids []int32) error {
		filtered := []int32{}
		for _, p := range pids {
			if p != pid {
				filtered = append(filtered, p)
			}
		}
		return writePIDFile(file, filtered)
	})

	return nil
}

// KillAll terminates all tracked packager builds, returning how many
// were signaled
func KillAll() (int, error) {
	mu.Lock()
	defer mu.Unlock()

	var toKill []int32
	err := withLockedPIDFile(os.O_RDWR|os.O_CREATE, func(file *os.File, pids []int32) error {
		toKill = pids
		return writePIDFile(file, []int32{}) // Clear file
	})

	if err != nil {
		return 0, err
	}

	// Send SIGTERM to all processes
	procs := make(map[int32]*process.Process)
	for _, pid := range toKill {
		proc, err := process.NewProcess(pid)
		if err != nil {
			continue
		}
		if err := proc.Terminate(); err == nil {
			procs[pid] = proc
		}
	}

	// Wait up to 5 seconds for all processes to exit
	for i := 0; i < 50; i++ {
		allExited := true
		for pid, proc := range procs {
			running, err := proc.IsRunning()
			if err != nil || !running {
				delete(procs, pid)
			} else {
				allExited = false
			}
		}
		if allExited {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	// Force kill anything still running
	for _, proc := range procs {
		proc.Kill()
	}

	return len(toKill), nil
}

// GetProcessInfo returns PID and command line for a process
func GetProcessInfo(pid int32) (int32, string, error) {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return 0, "", err
	}

	cmdline, err := proc.Cmdline()
	if err != nil {
		return pid, "", nil
	}

	return pid, cmdline, nil
}
