package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zatyrus/pyminflux-packager/internal/config"
)

var initForce bool

// specTemplate is the commented starting point written by init
const specTemplate = `# Build specification for pyminflux-packager.
# Command-line flags take precedence over values in this file.

[app]
entry = "pyminflux/main.py"
name = "pyMINFLUX"
# Icon format is platform-specific: .ico on Windows, .icns on macOS,
# .png on Linux.
icon = "icons/pyminflux.ico"

[imports]
# Modules the bundler's static analysis misses. scikit-learn loads its
# distance-computation internals dynamically, so they must be listed.
# pyqtgraph bundling is known to be fragile; if the packaged app fails
# to import it at startup, add the missing submodules here.
hidden = [
    "sklearn.neighbors._typedefs",
    "sklearn.utils._cython_blas",
]

[bundler]
command = "pyinstaller"
python = "python3"
timeout = "30m"

[output]
distDir = "dist"
workDir = "build"
oneFile = false
noConsole = true
noConfirm = false
stamp = true
`

// InitCmd represents the init command
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter build spec file",
	Long:  `Write a commented ` + config.ConfigFileName + ` into the current directory.`,
	RunE:  runInit,
}

func init() {
	InitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing spec file")
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(config.ConfigFileName); err == nil && !initForce {
		return fmt.Errorf("%s already exists; use --force to overwrite", config.ConfigFileName)
	}

	if err := os.WriteFile(config.ConfigFileName, []byte(specTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write spec file: %w", err)
	}

	fmt.Printf("Wrote %s\n", config.ConfigFileName)
	fmt.Println("Edit it to match your application, then run 'pyminflux-packager build'.")
	return nil
}
