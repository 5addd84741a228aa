package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zatyrus/pyminflux-packager/internal/pidfile"
)

// KillAllCmd represents the killall command
var KillAllCmd = &cobra.Command{
	Use:   "killall",
	Short: "Terminate all running packager builds",
	Long:  `Terminate all running packager builds.`,
	RunE:  runKillAll,
}

func runKillAll(cmd *cobra.Command, args []string) error {
	killed, err := pidfile.KillAll()
	if err != nil {
		return fmt.Errorf("failed to kill builds: %w", err)
	}

	if killed == 0 {
		fmt.Println("No running packager builds found")
	} else {
		fmt.Printf("Successfully killed %d build(s)\n", killed)
	}

	return nil
}
