package commands

import (
	"os"
	"testing"

	"github.com/Zatyrus/pyminflux-packager/internal/config"
)

// chdirTemp runs the test in a fresh directory
func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Chdir(oldWd)
		initForce = false
	})
}

// TestInitWritesParsableSpec verifies the starter file loads and validates
func TestInitWritesParsableSpec(t *testing.T) {
	chdirTemp(t)

	if err := runInit(InitCmd, nil); err != nil {
		t.Fatalf("runInit failed: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("starter spec does not parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("starter spec does not validate: %v", err)
	}
	if cfg.App.Name != "pyMINFLUX" {
		t.Errorf("unexpected starter name: %q", cfg.App.Name)
	}
	if len(cfg.Imports.Hidden) == 0 {
		t.Error("starter spec should declare hidden imports")
	}
}

// TestInitRefusesOverwrite verifies an existing spec is protected
func TestInitRefusesOverwrite(t *testing.T) {
	chdirTemp(t)

	if err := os.WriteFile(config.ConfigFileName, []byte("# mine"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := runInit(InitCmd, nil); err == nil {
		t.Fatal("expected refusal to overwrite existing spec")
	}

	initForce = true
	if err := runInit(InitCmd, nil); err != nil {
		t.Fatalf("runInit with --force failed: %v", err)
	}

	data, err := os.ReadFile(config.ConfigFileName)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "# mine" {
		t.Error("--force did not overwrite the spec")
	}
}
