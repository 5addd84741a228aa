package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AboutCmd represents the about command
var AboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Display information about pyminflux-packager",
	Long:  `Display project URL and license information for pyminflux-packager.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("pyminflux-packager - standalone executable builds for pyMINFLUX")
		fmt.Println()
		fmt.Println("Apache 2.0 Licensed")
		fmt.Println("Project URL: https://github.com/Zatyrus/pyminflux-packager")
	},
}
