package bundler

import (
	"fmt"

	"github.com/Zatyrus/pyminflux-packager/internal/config"
)

// BuildArgs translates a build specification into the bundler command line.
// Argument order follows the bundler's documented invocation: entry point
// first, then hidden imports, then packaging flags.
func BuildArgs(cfg *config.Config) []string {
	args := []string{cfg.App.Entry}

	for _, imp := range cfg.Imports.Hidden {
		args = append(args, fmt.Sprintf("--hidden-import=%s", imp))
	}

	if cfg.Output.NoConsole {
		args = append(args, "--noconsole")
	}

	if cfg.App.Icon != "" {
		args = append(args, "--icon", cfg.App.Icon)
	}

	args = append(args, "--name", cfg.App.Name)

	if cfg.Output.NoConfirm {
		args = append(args, "--noconfirm")
	}

	if cfg.Output.OneFile {
		args = append(args, "--onefile")
	}

	if cfg.Output.Clean {
		args = append(args, "--clean")
	}

	args = append(args, "--distpath", cfg.Output.DistDir)
	args = append(args, "--workpath", cfg.Output.WorkDir)

	args = append(args, cfg.Bundler.ExtraArgs...)

	return args
}
