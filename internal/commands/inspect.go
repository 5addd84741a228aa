package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zatyrus/pyminflux-packager/internal/stamp"
)

// InspectCmd represents the inspect command
var InspectCmd = &cobra.Command{
	Use:   "inspect ARTIFACT",
	Short: "Show the build metadata stamped onto an artifact",
	Long: `Read the build metadata record stamped onto a packaged
executable. Artifacts built with --no-stamp carry no record.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	rec, err := stamp.Read(args[0])
	if err != nil {
		return err
	}

	if rec == nil {
		fmt.Printf("%s carries no build stamp\n", args[0])
		return nil
	}

	fmt.Printf("Build ID: %s\n", rec.BuildID)
	fmt.Printf("Name: %s\n", rec.Name)
	fmt.Printf("Entry point: %s\n", rec.Entry)
	fmt.Printf("Platform: %s\n", rec.Platform)
	fmt.Printf("Built at: %s\n", rec.BuiltAt.Format(time.RFC3339))
	if rec.BundlerVersion != "" {
		fmt.Printf("Bundler version: %s\n", rec.BundlerVersion)
	}
	if len(rec.HiddenImports) > 0 {
		fmt.Printf("Hidden imports: %s\n", strings.Join(rec.HiddenImports, ", "))
	}

	return nil
}
