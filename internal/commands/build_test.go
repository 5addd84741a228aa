//go:build unix

package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Zatyrus/pyminflux-packager/internal/stamp"
)

// resetBuildFlags restores the package flag variables between tests
func resetBuildFlags() {
	cfgFile = ""
	buildName = ""
	buildIcon = ""
	buildDist = ""
	buildBundler = ""
	buildTimeout = 0
	hiddenImports = nil
	oneFile = false
	noConsole = false
	noConfirm = false
	cleanBuild = false
	noStamp = false
	verbose = 0
}

// setupBuildDir creates a working directory holding an entry point, a
// spec file, and a fake bundler that produces the expected artifact
func setupBuildDir(t *testing.T, bundlerBody string) string {
	t.Helper()
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "app.py"), []byte("print('hi')\n"), 0644); err != nil {
		t.Fatal(err)
	}

	spec := `
[app]
entry = "app.py"
name = "demo"
icon = ""

[bundler]
command = "./fake-bundler"

[imports]
hidden = []
`
	if err := os.WriteFile(filepath.Join(dir, "packager.toml"), []byte(spec), 0644); err != nil {
		t.Fatal(err)
	}

	script := "#!/bin/sh\n" + bundlerBody
	if err := os.WriteFile(filepath.Join(dir, "fake-bundler"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Chdir(oldWd)
		resetBuildFlags()
	})
	resetBuildFlags()

	return dir
}

const succeedingBundler = `
echo "52 INFO: PyInstaller: 6.3.0"
mkdir -p dist/demo
printf 'fake executable bytes........' > dist/demo/demo
chmod +x dist/demo/demo
echo "10233 INFO: Building COLLECT COLLECT-00.toc completed successfully."
exit 0
`

// TestBuildProducesNamedArtifact covers the happy path: a valid entry
// point yields an executable named as specified, stamped with metadata
func TestBuildProducesNamedArtifact(t *testing.T) {
	setupBuildDir(t, succeedingBundler)

	if err := RunBuild(BuildCmd, nil); err != nil {
		t.Fatalf("RunBuild failed: %v", err)
	}

	artifactPath := filepath.Join("dist", "demo", "demo")
	if _, err := os.Stat(artifactPath); err != nil {
		t.Fatalf("expected artifact at %s: %v", artifactPath, err)
	}

	rec, err := stamp.Read(artifactPath)
	if err != nil {
		t.Fatalf("failed to read stamp: %v", err)
	}
	if rec == nil {
		t.Fatal("artifact not stamped")
	}
	if rec.Name != "demo" || rec.Entry != "app.py" {
		t.Errorf("unexpected stamp record: %+v", rec)
	}
	if rec.BundlerVersion != "6.3.0" {
		t.Errorf("bundler version not captured: %q", rec.BundlerVersion)
	}
	if rec.BuildID == "" {
		t.Error("missing build ID")
	}
}

// TestBuildNoStamp verifies --no-stamp leaves the artifact untouched
func TestBuildNoStamp(t *testing.T) {
	setupBuildDir(t, succeedingBundler)
	noStamp = true

	if err := RunBuild(BuildCmd, nil); err != nil {
		t.Fatalf("RunBuild failed: %v", err)
	}

	stamped, err := stamp.IsStamped(filepath.Join("dist", "demo", "demo"))
	if err != nil {
		t.Fatal(err)
	}
	if stamped {
		t.Error("artifact stamped despite --no-stamp")
	}
}

// TestBuildMissingEntryPoint verifies the build fails before invoking
// the bundler and produces no artifact
func TestBuildMissingEntryPoint(t *testing.T) {
	setupBuildDir(t, succeedingBundler)

	if err := os.Remove("app.py"); err != nil {
		t.Fatal(err)
	}

	err := RunBuild(BuildCmd, nil)
	if err == nil {
		t.Fatal("expected error for missing entry point")
	}
	if !strings.Contains(err.Error(), "entry point does not exist") {
		t.Errorf("unexpected error: %v", err)
	}

	if _, statErr := os.Stat("dist"); !os.IsNotExist(statErr) {
		t.Error("bundler ran despite missing entry point")
	}
}

// TestBuildRefusesOverwriteWithoutNoConfirm verifies the overwrite policy
func TestBuildRefusesOverwriteWithoutNoConfirm(t *testing.T) {
	setupBuildDir(t, succeedingBundler)

	// Simulate a previous build
	if err := os.MkdirAll(filepath.Join("dist", "demo"), 0755); err != nil {
		t.Fatal(err)
	}

	err := RunBuild(BuildCmd, nil)
	if err == nil {
		t.Fatal("expected refusal to overwrite previous output")
	}
	if !strings.Contains(err.Error(), "--noconfirm") {
		t.Errorf("error should mention --noconfirm: %v", err)
	}

	// With the flag, the build proceeds and replaces the output
	noConfirm = true
	if err := RunBuild(BuildCmd, nil); err != nil {
		t.Fatalf("RunBuild with --noconfirm failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join("dist", "demo", "demo")); err != nil {
		t.Errorf("expected replaced artifact: %v", err)
	}
}

// TestBuildPropagatesBundlerExitCode verifies a bundler failure carries
// its own exit code
func TestBuildPropagatesBundlerExitCode(t *testing.T) {
	setupBuildDir(t, `
echo "200 ERROR: Unable to find entry script" >&2
exit 3
`)

	err := RunBuild(BuildCmd, nil)
	if err == nil {
		t.Fatal("expected error for bundler failure")
	}
	if !strings.Contains(err.Error(), "exit code 3") {
		t.Errorf("expected exit code 3 in error, got: %v", err)
	}
}

// TestBuildMissingArtifactAfterSuccess verifies a clean bundler exit
// without an artifact is still a failure
func TestBuildMissingArtifactAfterSuccess(t *testing.T) {
	setupBuildDir(t, "exit 0\n")

	err := RunBuild(BuildCmd, nil)
	if err == nil {
		t.Fatal("expected error when artifact is missing")
	}
	if !strings.Contains(err.Error(), "artifact") {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestBuildUnresolvedHiddenImportIsNotFatal verifies the documented
// behavior: the failure mode surfaces when the artifact runs, not here
func TestBuildUnresolvedHiddenImportIsNotFatal(t *testing.T) {
	setupBuildDir(t, `
echo "9411 WARNING: Hidden import 'pyqtgraph.canvas' not found" >&2
mkdir -p dist/demo
printf 'fake executable bytes........' > dist/demo/demo
echo "10233 INFO: Building COLLECT COLLECT-00.toc completed successfully."
exit 0
`)

	if err := RunBuild(BuildCmd, nil); err != nil {
		t.Fatalf("unresolved hidden import must not fail the build: %v", err)
	}
}
