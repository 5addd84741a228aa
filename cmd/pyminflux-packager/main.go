package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zatyrus/pyminflux-packager/internal/bundler"
	"github.com/Zatyrus/pyminflux-packager/internal/commands"
)

var rootCmd = &cobra.Command{
	Use:   "pyminflux-packager",
	Short: "Package the pyMINFLUX application into a standalone executable",
	Long: `pyminflux-packager drives the PyInstaller bundler to turn the
pyMINFLUX entry point into a standalone executable bundle for the host
platform.

A bare invocation runs a build using packager.toml from the current
directory; flags override the spec file. Hidden imports that the
bundler's static analysis misses (dynamically loaded numerical-library
internals, typically) are declared in the spec or with --hidden-import.

The packaging step is a single synchronous bundler invocation: it
either produces the artifact under dist/ or fails with the bundler's
own diagnostics and exit code.`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          commands.RunBuild,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	commands.AddBuildFlags(rootCmd)

	rootCmd.AddCommand(commands.BuildCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.CleanCmd)
	rootCmd.AddCommand(commands.InspectCmd)
	rootCmd.AddCommand(commands.InitCmd)
	rootCmd.AddCommand(commands.PsCmd)
	rootCmd.AddCommand(commands.KillCmd)
	rootCmd.AddCommand(commands.KillAllCmd)
	rootCmd.AddCommand(commands.VersionCmd)
	rootCmd.AddCommand(commands.AboutCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		// A bundler failure exits with the bundler's own code
		var exitErr *bundler.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitStatus())
		}
		os.Exit(1)
	}
}
