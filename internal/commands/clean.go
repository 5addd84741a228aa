package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zatyrus/pyminflux-packager/internal/artifact"
	"github.com/Zatyrus/pyminflux-packager/internal/config"
)

// CleanCmd represents the clean command
var CleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove previous build outputs",
	Long: `Remove the bundle's dist entry, its work directory, and the
generated bundler spec file. Missing entries are skipped.`,
	RunE: runClean,
}

func init() {
	CleanCmd.Flags().StringVar(&cfgFile, "config", "", "Build spec file (default: packager.toml)")
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load build spec: %w", err)
	}

	removed, err := artifact.Clean(cfg.Output.DistDir, cfg.Output.WorkDir, cfg.App.Name)
	if err != nil {
		return err
	}

	if len(removed) == 0 {
		fmt.Println("Nothing to clean")
		return nil
	}

	for _, path := range removed {
		fmt.Printf("Removed %s\n", path)
	}
	return nil
}
