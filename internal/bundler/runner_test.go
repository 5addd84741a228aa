//go:build unix

package bundler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeFakeBundler writes an executable script standing in for the
// real bundler
func writeFakeBundler(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "fake-bundler")
	script := "#!/bin/sh\n" + body
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write fake bundler: %v", err)
	}
	return path
}

// TestRunnerSuccess verifies a clean invocation: exit code zero,
// output collected, duration recorded
func TestRunnerSuccess(t *testing.T) {
	dir := t.TempDir()
	fake := writeFakeBundler(t, dir, `
echo "52 INFO: PyInstaller: 6.3.0"
echo "9411 WARNING: Hidden import 'pyqtgraph.canvas' not found" >&2
echo "10233 INFO: Building COLLECT COLLECT-00.toc completed successfully."
exit 0
`)

	runner := NewRunner(fake, dir)
	if got := runner.Status(); got != StatusPending {
		t.Errorf("expected pending status before Run, got %s", got)
	}

	result, err := runner.Run(context.Background(), []string{"app.py"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := runner.Status(); got != StatusSucceeded {
		t.Errorf("expected succeeded status, got %s", got)
	}
	if !runner.Status().IsFinished() {
		t.Error("succeeded status should be terminal")
	}

	if result.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", result.ExitCode)
	}
	if result.Duration <= 0 {
		t.Error("expected a positive duration")
	}
	if result.Diagnostics.Version != "6.3.0" {
		t.Errorf("expected version from stdout, got %q", result.Diagnostics.Version)
	}
	if len(result.Diagnostics.MissingImports) != 1 {
		t.Errorf("expected missing import from stderr, got %v", result.Diagnostics.MissingImports)
	}
	if !result.Diagnostics.Completed() {
		t.Error("completion not detected")
	}
}

// TestRunnerNonZeroExit verifies the bundler's exit code is carried in
// the result rather than returned as an invocation error
func TestRunnerNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	fake := writeFakeBundler(t, dir, `
echo "200 ERROR: Unable to find entry script" >&2
exit 3
`)

	runner := NewRunner(fake, dir)
	result, err := runner.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", result.ExitCode)
	}
	if len(result.Diagnostics.Errors) != 1 {
		t.Errorf("expected one error line, got %v", result.Diagnostics.Errors)
	}
	if got := runner.Status(); got != StatusFailed {
		t.Errorf("expected failed status, got %s", got)
	}
}

// TestRunnerMissingExecutable verifies a start failure is an error
func TestRunnerMissingExecutable(t *testing.T) {
	runner := NewRunner(filepath.Join(t.TempDir(), "no-such-bundler"), "")
	if _, err := runner.Run(context.Background(), nil); err == nil {
		t.Fatal("expected error for missing bundler executable")
	}
}

// TestRunnerCancellation verifies the process is killed when the
// context ends
func TestRunnerCancellation(t *testing.T) {
	dir := t.TempDir()
	fake := writeFakeBundler(t, dir, "sleep 30\n")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	runner := NewRunner(fake, dir)
	start := time.Now()
	_, err := runner.Run(ctx, nil)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancellation took too long: %v", elapsed)
	}
	if got := runner.Status(); got != StatusCanceled {
		t.Errorf("expected canceled status, got %s", got)
	}
}

// TestRunnerOversizedOutputLine verifies a line beyond the scan buffer
// does not stall the run while the bundler keeps writing
func TestRunnerOversizedOutputLine(t *testing.T) {
	dir := t.TempDir()
	fake := writeFakeBundler(t, dir, `
head -c 2097152 /dev/zero | tr '\0' 'a'
echo ""
echo "more output after the oversized line"
exit 0
`)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	runner := NewRunner(fake, dir)
	result, err := runner.Run(ctx, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", result.ExitCode)
	}
}

// TestRunnerExitErrorMessage verifies the propagated error names the code
func TestRunnerExitErrorMessage(t *testing.T) {
	err := &ExitError{Code: 2}
	if err.Error() != "bundler failed with exit code 2" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

// TestExitErrorStatus verifies the process exit status mapping.
// A signal-killed bundler reports code -1, which must not leak into
// os.Exit.
func TestExitErrorStatus(t *testing.T) {
	if got := (&ExitError{Code: 3}).ExitStatus(); got != 3 {
		t.Errorf("expected status 3, got %d", got)
	}
	if got := (&ExitError{Code: -1}).ExitStatus(); got != 1 {
		t.Errorf("expected status 1 for signal-killed bundler, got %d", got)
	}
	if got := (&ExitError{Code: 0}).ExitStatus(); got != 1 {
		t.Errorf("expected status 1 for zero code, got %d", got)
	}
}
