package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zatyrus/pyminflux-packager/internal/config"
	"github.com/Zatyrus/pyminflux-packager/internal/platform"
)

// probeTimeout bounds each individual environment probe
const probeTimeout = 30 * time.Second

// CheckCmd represents the check command
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the packaging environment before building",
	Long: `Verify that the packaging environment is complete:

  - the bundler is installed and reports a version
  - the Python interpreter is reachable
  - every configured hidden import is actually importable
  - the icon resource exists and matches this platform

A hidden import that fails its probe here would produce an artifact
that builds fine but crashes with an import error at startup.`,
	RunE: runCheck,
}

func init() {
	CheckCmd.Flags().StringVar(&cfgFile, "config", "", "Build spec file (default: packager.toml)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load build spec: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid build spec: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failures := 0

	// Bundler presence and version
	if bundlerPath, err := platform.FindTool(cfg.Bundler.Command); err != nil {
		fmt.Printf("✗ bundler: %v\n", err)
		failures++
	} else {
		version := toolVersion(ctx, bundlerPath)
		fmt.Printf("✓ bundler: %s (%s)\n", bundlerPath, version)
	}

	// Python interpreter
	pythonPath, err := platform.FindTool(cfg.Bundler.Python)
	if err != nil {
		fmt.Printf("✗ python: %v\n", err)
		failures++
	} else {
		fmt.Printf("✓ python: %s\n", pythonPath)

		// Hidden imports, each probed in the real interpreter
		for _, imp := range cfg.Imports.Hidden {
			if err := probeImport(ctx, pythonPath, imp); err != nil {
				fmt.Printf("✗ hidden import %s: %v\n", imp, err)
				failures++
			} else {
				fmt.Printf("✓ hidden import %s\n", imp)
			}
		}
	}

	// Icon resource
	if err := platform.ValidateIcon(cfg.App.Icon, runtime.GOOS); err != nil {
		fmt.Printf("✗ icon: %v\n", err)
		failures++
	} else if cfg.App.Icon != "" {
		fmt.Printf("✓ icon: %s\n", cfg.App.Icon)
	}

	if failures > 0 {
		return fmt.Errorf("%d environment check(s) failed", failures)
	}

	fmt.Println("\nEnvironment is ready to build.")
	return nil
}

// probeImport imports the module in the configured interpreter
func probeImport(ctx context.Context, python, module string) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	probe := exec.CommandContext(ctx, python, "-c", fmt.Sprintf("import %s", module))
	out, err := probe.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return err
		}
		// Keep only the last line; Python tracebacks end with the reason
		lines := strings.Split(msg, "\n")
		return fmt.Errorf("%s", lines[len(lines)-1])
	}
	return nil
}

// toolVersion asks a tool for its version, returning "unknown" if it
// will not say
func toolVersion(ctx context.Context, path string) string {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "unknown version"
	}
	return strings.TrimSpace(string(out))
}
