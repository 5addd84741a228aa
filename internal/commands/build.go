package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Zatyrus/pyminflux-packager/internal/artifact"
	"github.com/Zatyrus/pyminflux-packager/internal/bundler"
	"github.com/Zatyrus/pyminflux-packager/internal/config"
	"github.com/Zatyrus/pyminflux-packager/internal/pidfile"
	"github.com/Zatyrus/pyminflux-packager/internal/platform"
	"github.com/Zatyrus/pyminflux-packager/internal/stamp"
)

var (
	cfgFile       string
	buildName     string
	buildIcon     string
	buildDist     string
	buildBundler  string
	buildTimeout  time.Duration
	hiddenImports []string
	oneFile       bool
	noConsole     bool
	noConfirm     bool
	cleanBuild    bool
	noStamp       bool
	verbose       int
)

// BuildCmd represents the build command
var BuildCmd = &cobra.Command{
	Use:   "build [entry-point]",
	Short: "Package the application into a standalone executable",
	Long: `Package the application entry point into a standalone executable
bundle using the configured bundler.

The build specification is read from packager.toml in the current
directory (or --config); command-line flags take precedence. The
produced artifact lands under the dist directory, named after the
configured bundle name.

Modules the bundler's static import analysis misses (typically loaded
dynamically inside numerical libraries) must be declared as hidden
imports, either in the spec file or with --hidden-import.`,
	Args: cobra.MaximumNArgs(1),
	RunE: RunBuild,
}

func init() {
	AddBuildFlags(BuildCmd)
}

// AddBuildFlags registers the build flag set on a command. The root
// command reuses it so a bare invocation behaves like build.
func AddBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfgFile, "config", "", "Build spec file (default: packager.toml)")
	cmd.Flags().StringVar(&buildName, "name", "", "Name of the produced bundle")
	cmd.Flags().StringVar(&buildIcon, "icon", "", "Icon resource path (format is platform-specific)")
	cmd.Flags().StringVar(&buildDist, "dist", "", "Output directory for the artifact")
	cmd.Flags().StringVar(&buildBundler, "bundler", "", "Bundler executable name or path")
	cmd.Flags().DurationVar(&buildTimeout, "timeout", 0, "Abort the bundler after this duration (0 = spec file value)")
	cmd.Flags().StringArrayVar(&hiddenImports, "hidden-import", nil, "Module missed by static analysis (repeatable)")
	cmd.Flags().BoolVar(&oneFile, "onefile", false, "Produce a single-file executable instead of a directory")
	cmd.Flags().BoolVar(&noConsole, "noconsole", false, "Do not attach a console window to the packaged app")
	cmd.Flags().BoolVar(&noConfirm, "noconfirm", false, "Overwrite previous output without confirmation")
	cmd.Flags().BoolVar(&cleanBuild, "clean", false, "Have the bundler clear its cache before building")
	cmd.Flags().BoolVar(&noStamp, "no-stamp", false, "Do not stamp build metadata onto the artifact")
	cmd.Flags().CountVarP(&verbose, "verbose", "v", "Verbose output (can be specified multiple times: -v, -vv)")
}

// RunBuild performs a single synchronous packaging invocation
func RunBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadBuildConfig(args)
	if err != nil {
		return err
	}

	// The entry point must exist before anything is invoked
	if _, err := os.Stat(cfg.App.Entry); os.IsNotExist(err) {
		return fmt.Errorf("entry point does not exist: %s", cfg.App.Entry)
	}

	if err := platform.ValidateIcon(cfg.App.Icon, runtime.GOOS); err != nil {
		return err
	}

	bundlerPath, err := platform.FindTool(cfg.Bundler.Command)
	if err != nil {
		return fmt.Errorf("bundler is not installed or not reachable: %w", err)
	}

	// Refuse to clobber a previous build unless told not to ask
	if artifact.Exists(cfg.Output.DistDir, cfg.App.Name, cfg.Output.OneFile, runtime.GOOS) && !cfg.Output.NoConfirm {
		return fmt.Errorf("previous output exists at %s; pass --noconfirm to overwrite",
			artifact.OutputRoot(cfg.Output.DistDir, cfg.App.Name, cfg.Output.OneFile, runtime.GOOS))
	}

	// Track this build so ps/kill can find it
	if err := pidfile.Register(); err != nil {
		fmt.Printf("Warning: failed to register build process: %v\n", err)
	}
	defer pidfile.Unregister()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if cfg.Bundler.Timeout.Duration > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, cfg.Bundler.Timeout.Duration)
		defer cancelTimeout()
	}

	bundlerArgs := bundler.BuildArgs(cfg)

	fmt.Printf("Packaging %s...\n", cfg.App.Name)
	fmt.Printf("  Entry point: %s\n", cfg.App.Entry)
	fmt.Printf("  Bundler: %s\n", bundlerPath)
	if cfg.Behavior.Verbosity >= 2 {
		fmt.Printf("[DEBUG] Bundler arguments: %v\n", bundlerArgs)
	}

	runner := bundler.NewRunner(bundlerPath, "")
	if cfg.Behavior.Verbosity >= 1 {
		runner.Echo = os.Stderr
	}

	result, err := runner.Run(ctx, bundlerArgs)
	if err != nil {
		return err
	}
	if cfg.Behavior.Verbosity >= 2 {
		fmt.Printf("[DEBUG] Bundler run finished: %s\n", runner.Status())
	}

	reportDiagnostics(result.Diagnostics, cfg.Behavior.Verbosity)

	// Propagate the bundler's own exit code on failure
	if result.ExitCode != 0 {
		return &bundler.ExitError{Code: result.ExitCode}
	}

	info, err := artifact.Verify(cfg.Output.DistDir, cfg.App.Name, cfg.Output.OneFile, runtime.GOOS)
	if err != nil {
		return fmt.Errorf("bundler exited cleanly but the artifact is missing: %w", err)
	}

	artifactPath := artifact.Path(cfg.Output.DistDir, cfg.App.Name, cfg.Output.OneFile, runtime.GOOS)

	if cfg.Output.Stamp {
		rec := &stamp.Record{
			BuildID:        uuid.NewString(),
			Name:           cfg.App.Name,
			Entry:          cfg.App.Entry,
			HiddenImports:  cfg.Imports.Hidden,
			BundlerVersion: result.Diagnostics.Version,
			Platform:       runtime.GOOS,
			BuiltAt:        time.Now().UTC(),
		}
		if err := stamp.Apply(artifactPath, rec); err != nil {
			return fmt.Errorf("failed to stamp artifact: %w", err)
		}
		if cfg.Behavior.Verbosity >= 2 {
			fmt.Printf("[DEBUG] Stamped build %s\n", rec.BuildID)
		}
	}

	sizeMB := float64(info.Size()) / 1024 / 1024
	fmt.Printf("\nBundle created successfully in %s!\n", result.Duration.Round(time.Second))
	fmt.Printf("  Artifact: %s\n", artifactPath)
	fmt.Printf("  Size: %.2f MB\n", sizeMB)

	return nil
}

// loadBuildConfig loads the spec file and merges flags and the optional
// positional entry point
func loadBuildConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load build spec: %w", err)
	}

	entry := ""
	if len(args) > 0 {
		entry = args[0]
	}

	cfg.Merge(config.Overrides{
		Entry:         entry,
		Name:          buildName,
		Icon:          buildIcon,
		DistDir:       buildDist,
		Bundler:       buildBundler,
		Timeout:       buildTimeout,
		Verbosity:     verbose,
		HiddenImports: hiddenImports,
		OneFile:       oneFile,
		NoConsole:     noConsole,
		NoConfirm:     noConfirm,
		Clean:         cleanBuild,
		NoStamp:       noStamp,
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid build spec: %w", err)
	}

	return cfg, nil
}

// reportDiagnostics prints what the bundler complained about.
// Unresolved hidden imports are warnings here: the failure they cause
// is an import error when the packaged artifact runs, not at build time.
func reportDiagnostics(diag *bundler.Diagnostics, verbosity int) {
	for _, e := range diag.Errors {
		fmt.Fprintf(os.Stderr, "Bundler error: %s\n", e)
	}

	if len(diag.MissingImports) > 0 {
		fmt.Println("\nUnresolved hidden imports (the packaged app may fail at startup):")
		for _, imp := range diag.MissingImports {
			fmt.Printf("  - %s\n", imp)
		}
	}

	if len(diag.Warnings) > 0 && verbosity >= 1 {
		fmt.Printf("\nBundler emitted %d warning(s)", len(diag.Warnings))
		if diag.WarnFile != "" {
			fmt.Printf("; details in %s", diag.WarnFile)
		}
		fmt.Println()
	}
}
