package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

const Version = "1.0.0"

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version of pyminflux-packager",
	Long:  `Display the current version of pyminflux-packager.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pyminflux-packager version %s\n", Version)
	},
}
