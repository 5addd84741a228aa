// Package artifact locates and verifies the executable bundles the
// bundler leaves under the dist directory.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Zatyrus/pyminflux-packager/internal/platform"
)

// Path returns where the bundler places the executable for the given
// bundle name. One-file builds produce a single executable directly in
// the dist directory; one-dir builds produce a directory containing the
// executable plus its dependency closure.
func Path(distDir, name string, oneFile bool, goos string) string {
	exe := platform.ExecutableName(name, goos)
	if oneFile {
		return filepath.Join(distDir, exe)
	}
	return filepath.Join(distDir, name, exe)
}

// OutputRoot returns the top-level dist entry for a bundle name: the
// executable itself for one-file builds, the bundle directory otherwise
func OutputRoot(distDir, name string, oneFile bool, goos string) string {
	if oneFile {
		return filepath.Join(distDir, platform.ExecutableName(name, goos))
	}
	return filepath.Join(distDir, name)
}

// Exists reports whether a prior output is present at the bundle's
// dist location
func Exists(distDir, name string, oneFile bool, goos string) bool {
	_, err := os.Stat(OutputRoot(distDir, name, oneFile, goos))
	return err == nil
}

// Verify checks that the expected executable exists and is a regular
// file, returning its FileInfo
func Verify(distDir, name string, oneFile bool, goos string) (os.FileInfo, error) {
	path := Path(distDir, name, oneFile, goos)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("expected artifact not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat artifact: %w", err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("artifact is not a regular file: %s", path)
	}

	return info, nil
}

// Clean removes the bundle's outputs: its dist entry, its work
// directory, and the generated bundler spec file. Missing entries are
// not errors.
func Clean(distDir, workDir, name string) ([]string, error) {
	candidates := []string{
		filepath.Join(distDir, name),
		filepath.Join(distDir, name+".exe"),
		filepath.Join(workDir, name),
		name + ".spec",
	}

	var removed []string
	for _, path := range candidates {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed = append(removed, path)
	}

	return removed, nil
}
