// Package platform holds host-specific rules for icon formats and tool
// discovery.
package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// iconExtensions maps each platform to the icon formats its bundler accepts
var iconExtensions = map[string][]string{
	OSWindows: {".ico"},
	OSDarwin:  {".icns"},
	OSLinux:   {".png", ".ico"},
}

// ValidateIcon checks that the icon resource exists and matches the
// target platform's format. An empty path means no icon and is valid.
func ValidateIcon(path, goos string) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("icon file does not exist: %s", path)
	}

	allowed, ok := iconExtensions[goos]
	if !ok {
		return fmt.Errorf("unsupported target platform: %s", goos)
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}

	return fmt.Errorf("icon format %s is incompatible with %s (expected %s)",
		ext, goos, strings.Join(allowed, " or "))
}

// FindTool resolves an executable name or path on the host.
// Paths containing a separator are checked directly; bare names are
// looked up on PATH.
func FindTool(command string) (string, error) {
	if strings.ContainsAny(command, `/\`) {
		if _, err := os.Stat(command); err != nil {
			return "", fmt.Errorf("tool not found at %s: %w", command, err)
		}
		return command, nil
	}

	path, err := exec.LookPath(command)
	if err != nil {
		return "", fmt.Errorf("tool %q not found on PATH: %w", command, err)
	}
	return path, nil
}

// ExecutableName appends the platform executable suffix to a bundle name
func ExecutableName(name, goos string) string {
	if goos == OSWindows {
		return name + ".exe"
	}
	return name
}
